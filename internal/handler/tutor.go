package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/handler/shared"
	"github.com/mirelo-app/tutor-server/internal/httperror"
	"github.com/mirelo-app/tutor-server/internal/lang"
	"github.com/mirelo-app/tutor-server/internal/llm"
	"github.com/mirelo-app/tutor-server/internal/prompt"
	"github.com/mirelo-app/tutor-server/internal/provider"
)

// TutorRequest is the chat request body. Parsing is tolerant: a
// malformed body decodes to the zero value and fails text validation
// instead of producing a transport-level 4xx.
type TutorRequest struct {
	Text               string             `json:"text"`
	Lang               string             `json:"lang"`
	History            []llm.HistoryEntry `json:"history"`
	PreviousResponseID string             `json:"previous_response_id"`
}

// TutorReply is the chat success body. ResponseID is null when the
// upstream supplied no continuation token.
type TutorReply struct {
	Text       string  `json:"text"`
	ResponseID *string `json:"response_id"`
}

// TutorHandler serves the tutoring chat endpoints.
type TutorHandler struct {
	cfg       *config.Config
	prompts   *prompt.Library
	providers map[string]provider.Client
	logger    *slog.Logger
}

// NewTutorHandler creates the tutor handler over the given provider
// clients.
func NewTutorHandler(
	cfg *config.Config,
	prompts *prompt.Library,
	logger *slog.Logger,
	clients ...provider.Client,
) *TutorHandler {
	providers := make(map[string]provider.Client, len(clients))
	for _, client := range clients {
		if client == nil {
			continue
		}
		providers[client.Name()] = client
	}

	return &TutorHandler{
		cfg:       cfg,
		prompts:   prompts,
		providers: providers,
		logger:    logger,
	}
}

// RegisterRoutes registers the tutor routes. The bare /tutor route uses
// the configured default provider; the suffixed routes pin one.
func (h *TutorHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/tutor", func(c *gin.Context) {
		h.handleTutor(c, h.cfg.Tutor.DefaultProvider)
	})
	router.POST("/tutor/"+config.ProviderGemini, func(c *gin.Context) {
		h.handleTutor(c, config.ProviderGemini)
	})
	router.POST("/tutor/"+config.ProviderOpenAI, func(c *gin.Context) {
		h.handleTutor(c, config.ProviderOpenAI)
	})
}

func (h *TutorHandler) handleTutor(c *gin.Context, providerName string) {
	req := parseTutorRequest(c)

	text := strings.TrimSpace(norm.NFC.String(req.Text))
	if text == "" {
		shared.WriteError(c, httperror.NewMissingText())
		return
	}
	if utf8.RuneCountInString(text) > h.cfg.Tutor.MaxTextRunes {
		shared.WriteError(c, httperror.NewTextTooLong())
		return
	}

	client, ok := h.providers[providerName]
	if !ok {
		shared.WriteError(c, httperror.NewInternalError("unknown provider: "+providerName))
		return
	}

	language := lang.Normalize(req.Lang)
	system, err := h.prompts.System(language)
	if err != nil {
		h.logError(providerName, err)
		shared.WriteError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(
		c.Request.Context(),
		time.Duration(h.cfg.Tutor.TimeoutSeconds)*time.Second,
	)
	defer cancel()

	generation, err := client.Generate(ctx, provider.Request{
		System:             system,
		Text:               text,
		History:            req.History,
		PreviousResponseID: strings.TrimSpace(req.PreviousResponseID),
	})
	if err != nil {
		h.logError(providerName, err)
		shared.WriteError(c, err)
		return
	}

	replyText := strings.TrimSpace(generation.Text)
	if replyText == "" {
		h.logger.Warn(
			"tutor_empty_generation",
			"provider", providerName,
			"response_id", generation.ResponseID,
		)
		shared.WriteError(c, httperror.NewEmptyGeneration(generation.ResponseID, generation.Meta))
		return
	}

	var responseID *string
	if generation.ResponseID != "" {
		responseID = &generation.ResponseID
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, TutorReply{
		Text:       replyText,
		ResponseID: responseID,
	})
}

// parseTutorRequest decodes the request body without ever failing:
// unreadable or malformed bodies become the zero request, and text
// validation rejects those downstream.
func parseTutorRequest(c *gin.Context) TutorRequest {
	var req TutorRequest

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		return req
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return req
	}

	if err := shared.Decode(raw, &req); err != nil {
		return TutorRequest{}
	}
	return req
}

func (h *TutorHandler) logError(providerName string, err error) {
	if err == nil {
		return
	}
	h.logger.Warn("tutor_request_failed", "provider", providerName, "err", err)
}
