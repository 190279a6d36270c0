package llm

import "strings"

// HistoryEntry is one prior conversation turn supplied by the client.
type HistoryEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// NormalizedRole maps free-form role labels onto the set the upstream
// providers accept. Anything unrecognized counts as user input.
func (h HistoryEntry) NormalizedRole() string {
	switch strings.ToLower(strings.TrimSpace(h.Role)) {
	case "assistant", "model":
		return "assistant"
	default:
		return "user"
	}
}

// Usage holds token counts reported by an upstream call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
