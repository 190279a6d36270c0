package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/llm"
	"github.com/mirelo-app/tutor-server/internal/metrics"
	"github.com/mirelo-app/tutor-server/internal/usage"
)

func newOpsRouter(t *testing.T, cfg *config.Config, store *metrics.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := newDiscardLogger()
	repo := usage.NewRepository(cfg, logger)
	opsHandler := NewOpsHandler(cfg, store, repo, logger)

	router := gin.New()
	opsHandler.RegisterRoutes(router)
	return router
}

func TestMetricsSnapshot(t *testing.T) {
	store := metrics.NewStore()
	store.RecordSuccess("gemini", 120*time.Millisecond, llm.Usage{InputTokens: 10, OutputTokens: 5})
	store.RecordError("openai", 50*time.Millisecond)

	router := newOpsRouter(t, testTutorConfig(), store)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	body := decodeBody(t, resp)
	geminiStats, ok := body["gemini"].(map[string]any)
	if !ok {
		t.Fatalf("expected gemini stats, got %v", body)
	}
	if geminiStats["total_calls"] != float64(1) {
		t.Fatalf("unexpected total_calls: %v", geminiStats["total_calls"])
	}
	if geminiStats["total_input_tokens"] != float64(10) {
		t.Fatalf("unexpected input tokens: %v", geminiStats["total_input_tokens"])
	}
	openaiStats, ok := body["openai"].(map[string]any)
	if !ok || openaiStats["total_errors"] != float64(1) {
		t.Fatalf("unexpected openai stats: %v", body["openai"])
	}
}

func TestUsageUnavailableWhenDisabled(t *testing.T) {
	router := newOpsRouter(t, testTutorConfig(), metrics.NewStore())

	for _, path := range []string{"/usage", "/usage/total"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusServiceUnavailable {
			t.Fatalf("path %s: expected 503, got %d", path, resp.Code)
		}
		if payload := decodeBody(t, resp); payload["error"] != "Usage DB disabled" {
			t.Fatalf("path %s: unexpected error: %v", path, payload["error"])
		}
	}
}

func TestParseDaysFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]int{
		"":       7,
		"14":     14,
		"0":      7,
		"-3":     7,
		"potato": 7,
	}
	for raw, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/usage?days="+raw, nil)
		if got := parseDays(c, 7); got != want {
			t.Fatalf("days=%q: expected %d, got %d", raw, want, got)
		}
	}
}
