package usage

import (
	"context"
	"log/slog"
	"time"

	"github.com/mirelo-app/tutor-server/internal/config"
)

// Recorder saves per-request token usage, either directly or through
// the async batcher. It is a no-op when the usage DB is not configured.
type Recorder struct {
	repo    *Repository
	batcher *batcher
	logger  *slog.Logger
}

// NewRecorder builds a recorder, starting the batcher when enabled.
func NewRecorder(cfg *config.Config, repo *Repository, logger *slog.Logger) *Recorder {
	recorder := &Recorder{
		repo:   repo,
		logger: logger,
	}

	if cfg != nil && cfg.Database.Enabled && cfg.Database.UsageBatchEnabled {
		recorder.batcher = newBatcher(cfg, repo, logger)
		recorder.batcher.start()
		if logger != nil {
			logger.Info(
				"usage_db_batch_enabled",
				"flush_interval_seconds", cfg.Database.UsageBatchFlushIntervalSeconds,
				"max_pending_requests", cfg.Database.UsageBatchMaxPendingRequests,
			)
		}
	}

	return recorder
}

// Record stores one request's token usage for a provider.
func (r *Recorder) Record(ctx context.Context, provider string, inputTokens int64, outputTokens int64) {
	if r == nil || r.repo == nil || !r.repo.Enabled() {
		return
	}
	if inputTokens <= 0 && outputTokens <= 0 {
		return
	}

	if r.batcher != nil {
		r.batcher.add(provider, inputTokens, outputTokens, 1)
		return
	}

	if err := r.repo.RecordUsage(ctx, provider, inputTokens, outputTokens, 1, time.Time{}); err != nil {
		if r.logger != nil {
			r.logger.Warn("usage_db_save_failed", "provider", provider, "err", err)
		}
	}
}

// Close stops the batch flusher.
func (r *Recorder) Close() {
	if r == nil || r.batcher == nil {
		return
	}
	r.batcher.stop()
}
