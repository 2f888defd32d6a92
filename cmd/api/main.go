// Command api serves an authenticated endpoint that triggers a report run.
package main

import (
	"os"

	"ilumen-report/config"
	"ilumen-report/controllers"
	"ilumen-report/routes"
	"ilumen-report/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	envErr := config.LoadEnv()

	logger, logFile := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	cfg, err := config.LoadReportConfig()
	if err != nil {
		logger.Fatal("invalid report configuration", zap.Error(err))
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
	reports := controllers.NewReportController(pipeline, config.LoadOrganizations, services.DefaultLockName, logger)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	routes.SetupRoutes(router, reports, []byte(os.Getenv("JWT_SECRET")))

	port := config.GetEnvDefault("SERVER_PORT", "8080")
	logger.Info("server starting", zap.String("port", port), zap.String("reports_dir", cfg.ReportsDir))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
