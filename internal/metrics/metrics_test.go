package metrics

import (
	"testing"
	"time"

	"github.com/mirelo-app/tutor-server/internal/llm"
)

func TestStoreRecordsPerProvider(t *testing.T) {
	store := NewStore()
	store.RecordSuccess("gemini", 100*time.Millisecond, llm.Usage{InputTokens: 10, OutputTokens: 20})
	store.RecordSuccess("gemini", 300*time.Millisecond, llm.Usage{InputTokens: 5, OutputTokens: 5})
	store.RecordError("openai", 50*time.Millisecond)

	snapshot := store.Snapshot()

	gemini := snapshot["gemini"]
	if gemini == nil {
		t.Fatalf("missing gemini stats")
	}
	if gemini["total_calls"] != 2 {
		t.Fatalf("expected 2 gemini calls, got %v", gemini["total_calls"])
	}
	if gemini["total_errors"] != 0 {
		t.Fatalf("expected 0 gemini errors, got %v", gemini["total_errors"])
	}
	if gemini["total_tokens"] != 40 {
		t.Fatalf("expected 40 gemini tokens, got %v", gemini["total_tokens"])
	}
	if gemini["avg_duration_ms"] != 200 {
		t.Fatalf("expected 200ms avg, got %v", gemini["avg_duration_ms"])
	}

	openai := snapshot["openai"]
	if openai == nil {
		t.Fatalf("missing openai stats")
	}
	if openai["total_errors"] != 1 {
		t.Fatalf("expected 1 openai error, got %v", openai["total_errors"])
	}
}

func TestSnapshotEmpty(t *testing.T) {
	if got := NewStore().Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %v", got)
	}
}
