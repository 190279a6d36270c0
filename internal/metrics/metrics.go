package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mirelo-app/tutor-server/internal/llm"
)

type providerStats struct {
	totalCalls        int64
	totalErrors       int64
	totalInputTokens  int64
	totalOutputTokens int64
	totalDurationMs   int64
}

// Store keeps per-provider upstream call statistics.
type Store struct {
	mu         sync.RWMutex
	byProvider map[string]*providerStats
}

// NewStore creates an empty statistics store.
func NewStore() *Store {
	return &Store{byProvider: make(map[string]*providerStats)}
}

func (s *Store) stats(provider string) *providerStats {
	s.mu.RLock()
	stats, ok := s.byProvider[provider]
	s.mu.RUnlock()
	if ok {
		return stats
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if stats, ok = s.byProvider[provider]; ok {
		return stats
	}
	stats = &providerStats{}
	s.byProvider[provider] = stats
	return stats
}

// RecordSuccess records one successful upstream call.
func (s *Store) RecordSuccess(provider string, duration time.Duration, usage llm.Usage) {
	stats := s.stats(provider)
	atomic.AddInt64(&stats.totalCalls, 1)
	atomic.AddInt64(&stats.totalInputTokens, int64(usage.InputTokens))
	atomic.AddInt64(&stats.totalOutputTokens, int64(usage.OutputTokens))
	atomic.AddInt64(&stats.totalDurationMs, duration.Milliseconds())
}

// RecordError records one failed upstream call.
func (s *Store) RecordError(provider string, duration time.Duration) {
	stats := s.stats(provider)
	atomic.AddInt64(&stats.totalCalls, 1)
	atomic.AddInt64(&stats.totalErrors, 1)
	atomic.AddInt64(&stats.totalDurationMs, duration.Milliseconds())
}

// Snapshot returns the accumulated statistics keyed by provider.
func (s *Store) Snapshot() map[string]map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]map[string]float64, len(s.byProvider))
	for provider, stats := range s.byProvider {
		totalCalls := atomic.LoadInt64(&stats.totalCalls)
		totalErrors := atomic.LoadInt64(&stats.totalErrors)
		input := atomic.LoadInt64(&stats.totalInputTokens)
		output := atomic.LoadInt64(&stats.totalOutputTokens)
		durationMs := atomic.LoadInt64(&stats.totalDurationMs)

		avgDuration := 0.0
		if totalCalls > 0 {
			avgDuration = float64(durationMs) / float64(totalCalls)
		}

		snapshot[provider] = map[string]float64{
			"total_calls":         float64(totalCalls),
			"total_errors":        float64(totalErrors),
			"total_input_tokens":  float64(input),
			"total_output_tokens": float64(output),
			"total_tokens":        float64(input + output),
			"total_duration_ms":   float64(durationMs),
			"avg_duration_ms":     avgDuration,
		}
	}
	return snapshot
}
