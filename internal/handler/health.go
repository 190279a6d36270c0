package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/health"
	"github.com/mirelo-app/tutor-server/internal/usage"
)

// RegisterHealthRoutes registers the liveness and readiness routes.
// Liveness stays shallow so a flaky usage DB never marks the process
// down; readiness pings it.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, repo *usage.Repository) {
	router.GET("/health", func(c *gin.Context) {
		payload := health.Collect(c.Request.Context(), cfg, repo, false)
		c.JSON(http.StatusOK, payload)
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := health.Collect(c.Request.Context(), cfg, repo, true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})
}
