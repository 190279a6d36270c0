package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/llm"
	"github.com/mirelo-app/tutor-server/internal/metrics"
	"github.com/mirelo-app/tutor-server/internal/provider"
	"github.com/mirelo-app/tutor-server/internal/usage"
)

const (
	providerName    = "gemini"
	providerDisplay = "Gemini"
	credentialVar   = "GOOGLE_API_KEY"
)

// Client is the Gemini provider adapter, built on the genai SDK. The
// underlying SDK client is created lazily so a missing credential is a
// per-request configuration error rather than a startup failure.
type Client struct {
	cfg           *config.Config
	metrics       *metrics.Store
	usageRecorder *usage.Recorder
	mu            sync.Mutex
	client        *genai.Client
}

// NewClient creates the Gemini adapter.
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
	}, nil
}

// Name returns the stable provider key.
func (c *Client) Name() string { return providerName }

// DisplayName returns the provider name used in error messages.
func (c *Client) DisplayName() string { return providerDisplay }

// Generate performs one generateContent call.
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
	client, err := c.sdkClient(ctx)
	if err != nil {
		return provider.Generation{}, err
	}

	response, err := client.Models.GenerateContent(
		ctx,
		c.cfg.Gemini.Model,
		buildContents(req.Text, req.History),
		c.buildGenerateConfig(req.System),
	)
	if err != nil {
		return provider.Generation{}, mapUpstreamError(err)
	}

	return extractGeneration(response), nil
}

func (c *Client) sdkClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	key := c.cfg.Gemini.APIKey
	if key == "" {
		return nil, &provider.CredentialError{EnvVar: credentialVar}
	}

	timeout := time.Duration(c.cfg.Tutor.TimeoutSeconds) * time.Second
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.client = client
	return client, nil
}

func (c *Client) buildGenerateConfig(system string) *genai.GenerateContentConfig {
	generateConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.cfg.Gemini.Temperature)),
		MaxOutputTokens: int32(c.cfg.Gemini.MaxOutputTokens),
	}
	if system != "" {
		generateConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return generateConfig
}

func buildContents(text string, history []llm.HistoryEntry) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, entry := range history {
		var role genai.Role = genai.RoleUser
		if entry.NormalizedRole() == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(entry.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	return contents
}

func mapUpstreamError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		details := map[string]any{
			"code":    apiErr.Code,
			"status":  apiErr.Status,
			"message": apiErr.Message,
		}
		if len(apiErr.Details) > 0 {
			details["details"] = apiErr.Details
		}
		return &provider.UpstreamError{
			Provider:   providerDisplay,
			StatusCode: apiErr.Code,
			Details:    details,
		}
	}
	return fmt.Errorf("generate content: %w", err)
}

func extractGeneration(response *genai.GenerateContentResponse) provider.Generation {
	generation := provider.Generation{
		Text:       strings.TrimSpace(strings.Join(extractParts(response), "\n")),
		ResponseID: extractResponseID(response),
		Usage:      extractUsage(response),
		Meta:       extractMeta(response),
	}
	return generation
}

// extractParts walks candidates -> content -> parts defensively; any of
// those may be absent on blocked or filtered generations.
func extractParts(response *genai.GenerateContentResponse) []string {
	if response == nil || len(response.Candidates) == 0 {
		return nil
	}
	content := response.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return nil
	}

	texts := make([]string, 0, len(content.Parts))
	for _, part := range content.Parts {
		if part == nil || part.Text == "" || part.Thought {
			continue
		}
		texts = append(texts, part.Text)
	}
	return texts
}

// extractResponseID prefers the provider identifier and synthesizes a
// best-effort correlation token otherwise. Synthesized ids are never
// persisted and carry no uniqueness guarantee.
func extractResponseID(response *genai.GenerateContentResponse) string {
	if response != nil && response.ResponseID != "" {
		return response.ResponseID
	}
	return uuid.NewString()
}

func extractUsage(response *genai.GenerateContentResponse) llm.Usage {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}
	}
	metadata := response.UsageMetadata
	return llm.Usage{
		InputTokens:  int(metadata.PromptTokenCount),
		OutputTokens: int(metadata.CandidatesTokenCount),
		TotalTokens:  int(metadata.TotalTokenCount),
	}
}

func extractMeta(response *genai.GenerateContentResponse) map[string]any {
	if response == nil {
		return nil
	}

	meta := make(map[string]any)
	if len(response.Candidates) > 0 && response.Candidates[0].FinishReason != "" {
		meta["finish_reason"] = string(response.Candidates[0].FinishReason)
	}
	if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
		meta["block_reason"] = string(response.PromptFeedback.BlockReason)
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

var _ provider.Client = (*Client)(nil)
