package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mirelo-app/tutor-server/internal/config"
)

func newAuthRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Auth: config.AuthConfig{AppToken: token}}

	router := gin.New()
	router.Use(AppTokenAuth(cfg))
	router.POST("/tutor", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestAppTokenAuthRejectsMissingToken(t *testing.T) {
	router := newAuthRouter("secret")

	req := httptest.NewRequest(http.MethodPost, "/tutor", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"error":"Unauthorized"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestAppTokenAuthRejectsMismatch(t *testing.T) {
	router := newAuthRouter("secret")

	req := httptest.NewRequest(http.MethodPost, "/tutor", nil)
	req.Header.Set(AppTokenHeader, "wrong")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAppTokenAuthAcceptsExactMatch(t *testing.T) {
	router := newAuthRouter("secret")

	req := httptest.NewRequest(http.MethodPost, "/tutor", nil)
	req.Header.Set(AppTokenHeader, "secret")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAppTokenAuthSkippedWhenUnset(t *testing.T) {
	router := newAuthRouter("")

	req := httptest.NewRequest(http.MethodPost, "/tutor", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected auth skipped, got %d", resp.Code)
	}
}

func TestAppTokenAuthSkipsHealth(t *testing.T) {
	router := newAuthRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected health unprotected, got %d", resp.Code)
	}
}
