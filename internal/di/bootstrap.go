package di

import (
	"fmt"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/handler"
	"github.com/mirelo-app/tutor-server/internal/logging"
	"github.com/mirelo-app/tutor-server/internal/metrics"
	"github.com/mirelo-app/tutor-server/internal/prompt"
	"github.com/mirelo-app/tutor-server/internal/provider/gemini"
	"github.com/mirelo-app/tutor-server/internal/provider/openai"
	"github.com/mirelo-app/tutor-server/internal/server"
	"github.com/mirelo-app/tutor-server/internal/usage"
)

// InitializeApp builds the dependency graph and returns the App.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	metricsStore := metrics.NewStore()
	usageRepository := usage.NewRepository(cfg, logger)
	usageRecorder := usage.NewRecorder(cfg, usageRepository, logger)

	geminiClient, err := gemini.NewClient(cfg, metricsStore, usageRecorder)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	openaiClient, err := openai.NewClient(cfg, metricsStore, usageRecorder)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}

	prompts, err := prompt.NewLibrary()
	if err != nil {
		return nil, fmt.Errorf("prompts: %w", err)
	}

	tutorHandler := handler.NewTutorHandler(cfg, prompts, logger, geminiClient, openaiClient)
	opsHandler := handler.NewOpsHandler(cfg, metricsStore, usageRepository, logger)

	router := handler.NewRouter(cfg, logger, tutorHandler, opsHandler, usageRepository)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, usageRepository, usageRecorder), nil
}
