// Package health reports component readiness for the liveness and
// readiness endpoints.
package health

import (
	"context"
	"time"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/usage"
)

var startTime = time.Now()

// Component is one health component.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response is the health endpoint body.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Collect gathers component status. Shallow checks only inspect
// configuration; deep checks also ping the usage DB when enabled.
// Missing provider keys degrade the report but never fail liveness.
func Collect(ctx context.Context, cfg *config.Config, repo *usage.Repository, deepChecks bool) Response {
	components := map[string]Component{
		"app":      buildAppStatus(),
		"gemini":   buildGeminiStatus(cfg),
		"openai":   buildOpenAIStatus(cfg),
		"usage_db": buildUsageDBStatus(ctx, cfg, repo, deepChecks),
	}

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{
		Status:     overall,
		Components: components,
	}
}

func buildAppStatus() Component {
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		},
	}
}

func buildGeminiStatus(cfg *config.Config) Component {
	apiKeyPresent := false
	model := ""
	if cfg != nil {
		apiKeyPresent = cfg.Gemini.APIKey != ""
		model = cfg.Gemini.Model
	}

	status := "ok"
	if !apiKeyPresent {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"api_key_present": apiKeyPresent,
			"model":           model,
		},
	}
}

func buildOpenAIStatus(cfg *config.Config) Component {
	apiKeyPresent := false
	model := ""
	baseURL := ""
	if cfg != nil {
		apiKeyPresent = cfg.OpenAI.APIKey != ""
		model = cfg.OpenAI.Model
		baseURL = cfg.OpenAI.BaseURL
	}

	status := "ok"
	if !apiKeyPresent {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"api_key_present": apiKeyPresent,
			"model":           model,
			"base_url":        baseURL,
		},
	}
}

func buildUsageDBStatus(ctx context.Context, cfg *config.Config, repo *usage.Repository, deepChecks bool) Component {
	enabled := cfg != nil && cfg.Database.Enabled
	detail := map[string]any{
		"enabled": enabled,
	}

	if !enabled {
		// Accounting is optional; a disabled DB is still healthy.
		return Component{Status: "ok", Detail: detail}
	}

	if !deepChecks || repo == nil {
		detail["reachable"] = "unchecked"
		return Component{Status: "ok", Detail: detail}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := repo.Ping(pingCtx); err != nil {
		detail["reachable"] = false
		detail["error"] = err.Error()
		return Component{Status: "degraded", Detail: detail}
	}

	detail["reachable"] = true
	return Component{Status: "ok", Detail: detail}
}
