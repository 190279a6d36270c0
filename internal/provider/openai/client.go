// Package openai is the OpenAI provider adapter, built directly on the
// Responses API over net/http: the continuation-id contract and the
// verbatim pass-through of upstream error bodies both need the raw
// status and JSON, which SDK clients hide.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/llm"
	"github.com/mirelo-app/tutor-server/internal/metrics"
	"github.com/mirelo-app/tutor-server/internal/provider"
	"github.com/mirelo-app/tutor-server/internal/usage"
)

const (
	providerName    = "openai"
	providerDisplay = "OpenAI"
	credentialVar   = "OPENAI_API_KEY"

	maxErrorBodyBytes = 1 << 20
)

type responsesRequest struct {
	Model              string  `json:"model"`
	Instructions       string  `json:"instructions,omitempty"`
	Input              string  `json:"input"`
	Temperature        float64 `json:"temperature"`
	MaxOutputTokens    int     `json:"max_output_tokens"`
	PreviousResponseID string  `json:"previous_response_id,omitempty"`
}

type responsesContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responsesOutput struct {
	Type    string             `json:"type"`
	Content []responsesContent `json:"content"`
}

type responsesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type responsesBody struct {
	ID     string            `json:"id"`
	Status string            `json:"status"`
	Output []responsesOutput `json:"output"`
	Usage  *responsesUsage   `json:"usage"`
}

// Client is the OpenAI Responses adapter.
type Client struct {
	cfg           *config.Config
	metrics       *metrics.Store
	usageRecorder *usage.Recorder
	httpClient    *http.Client
}

// NewClient creates the OpenAI adapter.
func NewClient(cfg *config.Config, metricsStore *metrics.Store, usageRecorder *usage.Recorder) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	return &Client{
		cfg:           cfg,
		metrics:       metricsStore,
		usageRecorder: usageRecorder,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Tutor.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Name returns the stable provider key.
func (c *Client) Name() string { return providerName }

// DisplayName returns the provider name used in error messages.
func (c *Client) DisplayName() string { return providerDisplay }

// Generate performs one Responses API call.
func (c *Client) Generate(ctx context.Context, req provider.Request) (provider.Generation, error) {
	start := time.Now()
	generation, err := c.generate(ctx, req)
	if err != nil {
		c.metrics.RecordError(providerName, time.Since(start))
		return provider.Generation{}, err
	}

	c.metrics.RecordSuccess(providerName, time.Since(start), generation.Usage)
	c.usageRecorder.Record(ctx, providerName, int64(generation.Usage.InputTokens), int64(generation.Usage.OutputTokens))
	return generation, nil
}

func (c *Client) generate(ctx context.Context, req provider.Request) (provider.Generation, error) {
	if c.cfg.OpenAI.APIKey == "" {
		return provider.Generation{}, &provider.CredentialError{EnvVar: credentialVar}
	}

	payload := responsesRequest{
		Model:              c.cfg.OpenAI.Model,
		Instructions:       req.System,
		Input:              req.Text,
		Temperature:        c.cfg.OpenAI.Temperature,
		MaxOutputTokens:    c.cfg.OpenAI.MaxOutputTokens,
		PreviousResponseID: req.PreviousResponseID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return provider.Generation{}, fmt.Errorf("encode responses payload: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.OpenAI.BaseURL, "/") + "/responses"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return provider.Generation{}, fmt.Errorf("build responses request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.OpenAI.APIKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return provider.Generation{}, fmt.Errorf("call responses api: %w", err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBodyBytes))
	if err != nil {
		return provider.Generation{}, fmt.Errorf("read responses body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return provider.Generation{}, &provider.UpstreamError{
			Provider:   providerDisplay,
			StatusCode: httpResp.StatusCode,
			Details:    decodeErrorDetails(data),
		}
	}

	var parsed responsesBody
	if err := json.Unmarshal(data, &parsed); err != nil {
		return provider.Generation{}, fmt.Errorf("decode responses body: %w", err)
	}

	return extractGeneration(parsed), nil
}

// decodeErrorDetails keeps the upstream body verbatim when it is JSON
// and falls back to an empty object otherwise.
func decodeErrorDetails(data []byte) map[string]any {
	details := map[string]any{}
	if err := json.Unmarshal(data, &details); err != nil {
		return map[string]any{}
	}
	return details
}

func extractGeneration(body responsesBody) provider.Generation {
	texts := make([]string, 0, len(body.Output))
	for _, item := range body.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Type != "output_text" || content.Text == "" {
				continue
			}
			texts = append(texts, content.Text)
		}
	}

	generation := provider.Generation{
		Text:       strings.TrimSpace(strings.Join(texts, "\n")),
		ResponseID: body.ID,
	}
	if body.Usage != nil {
		generation.Usage = llm.Usage{
			InputTokens:  body.Usage.InputTokens,
			OutputTokens: body.Usage.OutputTokens,
			TotalTokens:  body.Usage.TotalTokens,
		}
	}
	if body.Status != "" && body.Status != "completed" {
		generation.Meta = map[string]any{"status": body.Status}
	}
	return generation
}

var _ provider.Client = (*Client)(nil)
