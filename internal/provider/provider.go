// Package provider defines the language-model provider abstraction:
// one normalized request/result shape with an implementation per
// upstream, so validation and error shaping are written once.
package provider

import (
	"context"

	"github.com/mirelo-app/tutor-server/internal/llm"
)

// Request is the normalized generation request.
type Request struct {
	// System is the tutoring persona instruction.
	System string
	// Text is the learner's current message.
	Text string
	// History holds prior turns for providers with a multi-message API.
	History []llm.HistoryEntry
	// PreviousResponseID is an opaque continuation token for providers
	// with a continuation-id API. Passed through untouched.
	PreviousResponseID string
}

// Generation is the normalized generation result. An empty Text after
// trimming is a distinct "empty generation" state (typically upstream
// safety filtering), not a success.
type Generation struct {
	Text string
	// ResponseID correlates a follow-up request with this generation.
	// May be empty when the upstream supplies none.
	ResponseID string
	Usage      llm.Usage
	// Meta carries upstream diagnostic fields (finish reason, block
	// reason) surfaced in empty-generation error details.
	Meta map[string]any
}

// Client is one upstream language-model provider.
type Client interface {
	// Name is the stable lowercase provider key used in routes,
	// metrics, and usage rows.
	Name() string
	// DisplayName is the human-readable provider name used in error
	// messages.
	DisplayName() string
	// Generate performs exactly one outbound call.
	Generate(ctx context.Context, req Request) (Generation, error)
}
