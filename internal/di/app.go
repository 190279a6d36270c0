// Package di wires the application together at startup.
package di

import (
	"log/slog"
	"net/http"

	"github.com/mirelo-app/tutor-server/internal/config"
	"github.com/mirelo-app/tutor-server/internal/usage"
)

// App bundles the long-lived application components.
type App struct {
	Server          *http.Server
	Logger          *slog.Logger
	Config          *config.Config
	UsageRepository *usage.Repository
	UsageRecorder   *usage.Recorder
}

// NewApp creates an App instance.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	usageRepository *usage.Repository,
	usageRecorder *usage.Recorder,
) *App {
	return &App{
		Server:          server,
		Logger:          logger,
		Config:          cfg,
		UsageRepository: usageRepository,
		UsageRecorder:   usageRecorder,
	}
}

// Close releases app resources.
func (a *App) Close() {
	if a.UsageRecorder != nil {
		a.UsageRecorder.Close()
	}
	if a.UsageRepository != nil {
		a.UsageRepository.Close()
	}
}
