package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/handler/shared"
	"github.com/mirelo-app/tutor-server/internal/httperror"
	"github.com/mirelo-app/tutor-server/internal/metrics"
	"github.com/mirelo-app/tutor-server/internal/usage"
)

// DailyUsageResponse is one day of one provider's usage.
type DailyUsageResponse struct {
	UsageDate    string `json:"usage_date"`
	Provider     string `json:"provider"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	TotalTokens  int64  `json:"total_tokens"`
	RequestCount int64  `json:"request_count"`
}

// UsageListResponse is the recent-usage endpoint body.
type UsageListResponse struct {
	Usages            []DailyUsageResponse `json:"usages"`
	TotalInputTokens  int64                `json:"total_input_tokens"`
	TotalOutputTokens int64                `json:"total_output_tokens"`
	TotalTokens       int64                `json:"total_tokens"`
	TotalRequestCount int64                `json:"total_request_count"`
}

// OpsHandler serves the metrics and usage accounting endpoints.
type OpsHandler struct {
	cfg          *config.Config
	metricsStore *metrics.Store
	repo         *usage.Repository
	logger       *slog.Logger
}

// NewOpsHandler creates the ops handler.
func NewOpsHandler(
	cfg *config.Config,
	metricsStore *metrics.Store,
	repo *usage.Repository,
	logger *slog.Logger,
) *OpsHandler {
	return &OpsHandler{
		cfg:          cfg,
		metricsStore: metricsStore,
		repo:         repo,
		logger:       logger,
	}
}

// RegisterRoutes registers the ops routes.
func (h *OpsHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/metrics", h.handleMetrics)
	router.GET("/usage", h.handleRecentUsage)
	router.GET("/usage/total", h.handleTotalUsage)
}

func (h *OpsHandler) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metricsStore.Snapshot())
}

func (h *OpsHandler) handleRecentUsage(c *gin.Context) {
	if !h.usageEnabled(c) {
		return
	}

	usages, err := h.repo.GetRecentUsage(c.Request.Context(), parseDays(c, 7))
	if err != nil {
		h.logError(err)
		shared.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildUsageListResponse(usages))
}

func (h *OpsHandler) handleTotalUsage(c *gin.Context) {
	if !h.usageEnabled(c) {
		return
	}

	totals, err := h.repo.GetTotalUsage(c.Request.Context(), parseDays(c, 30))
	if err != nil {
		h.logError(err)
		shared.WriteError(c, err)
		return
	}

	response := make(map[string]DailyUsageResponse, len(totals))
	for providerName, row := range totals {
		response[providerName] = DailyUsageResponse{
			UsageDate:    row.UsageDate.Format("2006-01-02"),
			Provider:     row.Provider,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			TotalTokens:  row.TotalTokens(),
			RequestCount: row.RequestCount,
		}
	}
	c.JSON(http.StatusOK, response)
}

func (h *OpsHandler) usageEnabled(c *gin.Context) bool {
	if h.repo != nil && h.repo.Enabled() {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, httperror.ErrorResponse{
		Error: "Usage DB disabled",
	})
	return false
}

func buildUsageListResponse(usages []usage.DailyUsage) UsageListResponse {
	response := UsageListResponse{
		Usages: make([]DailyUsageResponse, 0, len(usages)),
	}
	for _, row := range usages {
		response.Usages = append(response.Usages, DailyUsageResponse{
			UsageDate:    row.UsageDate.Format("2006-01-02"),
			Provider:     row.Provider,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			TotalTokens:  row.TotalTokens(),
			RequestCount: row.RequestCount,
		})
		response.TotalInputTokens += row.InputTokens
		response.TotalOutputTokens += row.OutputTokens
		response.TotalTokens += row.TotalTokens()
		response.TotalRequestCount += row.RequestCount
	}
	return response
}

// parseDays reads the days query parameter, falling back to the default
// on anything non-positive or unparseable.
func parseDays(c *gin.Context, defaultDays int) int {
	raw := c.Query("days")
	if raw == "" {
		return defaultDays
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return defaultDays
	}
	return parsed
}

func (h *OpsHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("usage_request_failed", "err", err)
}
