package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/httperror"
)

// AppTokenHeader is the shared-secret header the mobile client sends.
const AppTokenHeader = "x-app-token"

// AppTokenAuth enforces the shared-secret header on protected paths.
// With no token configured, authorization is skipped unconditionally.
// CORS preflights pass through so browsers can negotiate the header.
func AppTokenAuth(cfg *config.Config) gin.HandlerFunc {
	expected := ""
	if cfg != nil {
		expected = strings.TrimSpace(cfg.Auth.AppToken)
	}

	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		if c.Request.Method == http.MethodOptions || !shouldProtectPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		provided := strings.TrimSpace(c.GetHeader(AppTokenHeader))
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			status, payload := httperror.Response(httperror.NewUnauthorized())
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

func shouldProtectPath(path string) bool {
	return strings.HasPrefix(path, "/tutor") ||
		strings.HasPrefix(path, "/usage") ||
		strings.HasPrefix(path, "/metrics")
}
