package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check and metrics endpoints (no version prefix)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Synchronous reports
		v1.GET("/landlords/:address/report", handler.GetLandlordReport)
		v1.GET("/harvesters/:address/harvests", handler.GetHarvesterReport)

		// Query sessions
		v1.POST("/sessions", handler.CreateSession)
		v1.POST("/sessions/:id/queries", handler.SubmitQuery)
		v1.GET("/sessions/:id", handler.GetSession)
	}
}
