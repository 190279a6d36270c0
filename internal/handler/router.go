package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/handler/shared"
	"github.com/mirelo-app/tutor-server/internal/httperror"
	"github.com/mirelo-app/tutor-server/internal/middleware"
	"github.com/mirelo-app/tutor-server/internal/usage"
)

// NewRouter assembles the HTTP router.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	tutorHandler *TutorHandler,
	opsHandler *OpsHandler,
	usageRepo *usage.Repository,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		recovery(logger),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.CORS(),
		middleware.AppTokenAuth(cfg),
	)

	RegisterHealthRoutes(router, cfg, usageRepo)
	tutorHandler.RegisterRoutes(router)
	opsHandler.RegisterRoutes(router)

	return router
}

// recovery turns panics into the standard error body instead of an
// empty 500.
func recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.Error(
				"panic_recovered",
				"request_id", middleware.GetRequestID(c),
				"path", c.Request.URL.Path,
				"panic", recovered,
			)
		}
		shared.WriteError(c, httperror.NewInternalError("internal panic"))
		c.Abort()
	})
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
