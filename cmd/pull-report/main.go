// Command pull-report fetches iLumen demographic data for the configured
// organizations and writes the progress report CSVs.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ilumen-report/config"
	"ilumen-report/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type pullFlags struct {
	reportsDir  string
	trigger     string
	lockName    string
	checkConfig bool
}

func main() {
	os.Exit(run())
}

func run() int {
	envErr := config.LoadEnv()

	logger, logFile := config.InitLogging()
	defer func() {
		_ = logger.Sync()
		if logFile != nil {
			_ = logFile.Close()
		}
	}()
	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	if err := newRootCommand(logger).Execute(); err != nil {
		logger.Error("error during report generation", zap.Error(err))
		return 1
	}
	return 0
}

func newRootCommand(logger *zap.Logger) *cobra.Command {
	var flags pullFlags
	cmd := &cobra.Command{
		Use:           "pull-report",
		Short:         "Generate the iLumen progress report",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), logger, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.reportsDir, "reports-dir", "", "output directory (default $REPORTS_DIR or csv_reports)")
	f.StringVar(&flags.trigger, "trigger", "cli", "trigger source label stored in report_runs")
	f.StringVar(&flags.lockName, "lock-name", services.DefaultLockName, "MySQL advisory lock name (empty to disable)")
	f.BoolVar(&flags.checkConfig, "check-config", false, "validate configuration and exit without calling the API")
	return cmd
}

func runReport(ctx context.Context, logger *zap.Logger, flags pullFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadReportConfig()
	if err != nil {
		return err
	}
	if strings.TrimSpace(flags.reportsDir) != "" {
		cfg.ReportsDir = flags.reportsDir
	}

	orgs, err := config.LoadOrganizations()
	if err != nil {
		return err
	}

	if flags.checkConfig {
		printConfig(cfg, orgs)
		return nil
	}

	var runs *services.ReportRunService
	if config.DatabaseConfigured() {
		db, err := config.InitDB(logger)
		if err != nil {
			logger.Warn("run bookkeeping disabled", zap.Error(err))
		} else {
			runs = services.NewReportRunService(db)
		}
	}

	pipeline := services.NewReportPipelineService(
		services.NewIlumenClient(cfg, logger),
		services.NewReportWriter(cfg.ReportsDir, nil),
		runs,
		logger,
	)

	summary, err := pipeline.Run(ctx, &services.ReportRunInput{
		Organizations: orgs,
		TriggerSource: flags.trigger,
		LockName:      flags.lockName,
	})
	if err != nil {
		return err
	}

	for _, org := range summary.PerOrganization {
		fmt.Printf("Successfully processed %s with %d records\n", org.Organization, org.Rows)
	}
	fmt.Printf("Rows written: %d (excluded: %d, columns synthesized: %d, values coerced: %d)\n",
		summary.RowsWritten,
		summary.RowsExcluded,
		summary.ColumnsSynthesized,
		summary.CoercedValues,
	)
	fmt.Printf("Progress report saved to: %s\n", summary.ProgressReportPath)
	fmt.Printf("Original format saved to: %s\n", summary.OriginalPath)
	fmt.Println("Report generation completed successfully")
	return nil
}

func printConfig(cfg *config.ReportConfig, orgs []config.Organization) {
	fmt.Printf("API base URL: %s\n", cfg.BaseURL)
	fmt.Printf("Timeouts: token %s, data %s\n", cfg.TokenTimeout, cfg.DataTimeout)
	fmt.Printf("Reports directory: %s\n", cfg.ReportsDir)
	for _, org := range orgs {
		fmt.Printf("Organization %s (%s): secret from %s\n", org.Key, org.Label(), org.SecretEnv)
	}
	fmt.Printf("Run bookkeeping: %t\n", config.DatabaseConfigured())
	fmt.Println("Configuration OK")
}
