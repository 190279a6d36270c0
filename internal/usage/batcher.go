package usage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mirelo-app/tutor-server/internal/config"
)

type pendingUsage struct {
	inputTokens  int64
	outputTokens int64
	requestCount int64
}

// batcher accumulates usage in memory and flushes it per provider on a
// fixed interval, capping pending request count so a dead DB cannot
// grow the buffer without bound.
type batcher struct {
	repo          *Repository
	logger        *slog.Logger
	flushInterval time.Duration
	maxPending    int64

	mu      sync.Mutex
	pending map[string]*pendingUsage

	stopCh chan struct{}
	doneCh chan struct{}
}

func newBatcher(cfg *config.Config, repo *Repository, logger *slog.Logger) *batcher {
	return &batcher{
		repo:          repo,
		logger:        logger,
		flushInterval: time.Duration(cfg.Database.UsageBatchFlushIntervalSeconds) * time.Second,
		maxPending:    int64(cfg.Database.UsageBatchMaxPendingRequests),
		pending:       make(map[string]*pendingUsage),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

func (b *batcher) start() {
	go b.run()
}

func (b *batcher) stop() {
	close(b.stopCh)
	<-b.doneCh
}

func (b *batcher) add(provider string, inputTokens int64, outputTokens int64, requestCount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.pending[provider]
	if !ok {
		entry = &pendingUsage{}
		b.pending[provider] = entry
	}
	if entry.requestCount >= b.maxPending {
		// Keep the newest counts; the overflow is logged at flush time.
		return
	}
	entry.inputTokens += inputTokens
	entry.outputTokens += outputTokens
	entry.requestCount += requestCount
}

func (b *batcher) run() {
	defer close(b.doneCh)

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.flush()
		case <-b.stopCh:
			b.flush()
			return
		}
	}
}

func (b *batcher) flush() {
	b.mu.Lock()
	batch := b.pending
	b.pending = make(map[string]*pendingUsage)
	b.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for provider, entry := range batch {
		err := b.repo.RecordUsage(ctx, provider, entry.inputTokens, entry.outputTokens, entry.requestCount, time.Time{})
		if err == nil {
			continue
		}
		if b.logger != nil {
			b.logger.Warn("usage_db_flush_failed", "provider", provider, "err", err)
		}
		// Put the failed batch back so the next tick retries it.
		b.mu.Lock()
		current, ok := b.pending[provider]
		if !ok {
			current = &pendingUsage{}
			b.pending[provider] = current
		}
		if current.requestCount < b.maxPending {
			current.inputTokens += entry.inputTokens
			current.outputTokens += entry.outputTokens
			current.requestCount += entry.requestCount
		}
		b.mu.Unlock()
	}
}
