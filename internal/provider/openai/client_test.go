package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/metrics"
	"github.com/mirelo-app/tutor-server/internal/provider"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Tutor: config.TutorConfig{TimeoutSeconds: 5},
		OpenAI: config.OpenAIConfig{
			APIKey:          "sk-test",
			Model:           "gpt-4o-mini",
			BaseURL:         baseURL,
			Temperature:     0.7,
			MaxOutputTokens: 1024,
		},
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(testConfig(baseURL), metrics.NewStore(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestGenerateMissingCredential(t *testing.T) {
	cfg := testConfig("https://api.openai.com/v1")
	cfg.OpenAI.APIKey = ""
	client, err := NewClient(cfg, metrics.NewStore(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Generate(context.Background(), provider.Request{Text: "bonjour"})
	var credErr *provider.CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected credential error, got %v", err)
	}
	if credErr.EnvVar != "OPENAI_API_KEY" {
		t.Fatalf("expected OPENAI_API_KEY, got %s", credErr.EnvVar)
	}
}

func TestGenerateSuccess(t *testing.T) {
	var captured responsesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header: %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "resp_abc",
			"status": "completed",
			"output": []map[string]any{
				{"type": "reasoning", "content": []map[string]any{}},
				{"type": "message", "content": []map[string]any{
					{"type": "output_text", "text": "Bonjour"},
					{"type": "output_text", "text": "Comment ça va ?"},
				}},
			},
			"usage": map[string]any{"input_tokens": 12, "output_tokens": 8, "total_tokens": 20},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	generation, err := client.Generate(context.Background(), provider.Request{
		System:             "tutor prompt",
		Text:               "bonjour",
		PreviousResponseID: "resp_prev",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if generation.Text != "Bonjour\nComment ça va ?" {
		t.Fatalf("unexpected text: %q", generation.Text)
	}
	if generation.ResponseID != "resp_abc" {
		t.Fatalf("unexpected response id: %q", generation.ResponseID)
	}
	if generation.Usage.TotalTokens != 20 {
		t.Fatalf("unexpected usage: %+v", generation.Usage)
	}
	if captured.PreviousResponseID != "resp_prev" {
		t.Fatalf("previous_response_id not passed through: %+v", captured)
	}
	if captured.Instructions != "tutor prompt" {
		t.Fatalf("instructions not sent: %+v", captured)
	}
}

func TestGenerateUpstreamErrorPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Generate(context.Background(), provider.Request{Text: "hola"})

	var upstream *provider.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 pass-through, got %d", upstream.StatusCode)
	}
	errDetail, ok := upstream.Details["error"].(map[string]any)
	if !ok || errDetail["message"] != "Rate limit reached" {
		t.Fatalf("expected verbatim upstream body, got %v", upstream.Details)
	}
}

func TestGenerateUpstreamErrorUnparseableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Generate(context.Background(), provider.Request{Text: "hola"})

	var upstream *provider.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if upstream.Details == nil || len(upstream.Details) != 0 {
		t.Fatalf("expected empty details object, got %v", upstream.Details)
	}
}

func TestGenerateEmptyOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "resp_empty",
			"status": "incomplete",
			"output": []map[string]any{},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	generation, err := client.Generate(context.Background(), provider.Request{Text: "hola"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generation.Text != "" {
		t.Fatalf("expected empty generation, got %q", generation.Text)
	}
	if generation.ResponseID != "resp_empty" {
		t.Fatalf("expected upstream id, got %q", generation.ResponseID)
	}
	if generation.Meta["status"] != "incomplete" {
		t.Fatalf("expected status in meta, got %v", generation.Meta)
	}
}
