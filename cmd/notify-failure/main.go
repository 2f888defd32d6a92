// Command notify-failure emails the configured account that the scheduled
// report job failed.
package main

import (
	"os"

	"ilumen-report/config"
	"ilumen-report/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

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

	cmd := &cobra.Command{
		Use:           "notify-failure",
		Short:         "Send the workflow failure alert email",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return services.NewFailureNotifier(config.ReloadMailerConfig(), nil, logger).Notify()
		},
	}

	if err := cmd.Execute(); err != nil {
		logger.Error("failed to send failure notification", zap.Error(err))
		return 1
	}
	return 0
}
