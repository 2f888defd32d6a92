package routes

import (
	"ilumen-report/controllers"
	"ilumen-report/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, reports *controllers.ReportController, jwtSecret []byte) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", controllers.Health)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.POST("/reports/run", middleware.RequireRole(middleware.RoleReportAdmin), reports.RunReport)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Route not found"})
	})
}
