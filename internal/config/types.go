package config

import (
	"net"
	"net/url"
	"strconv"
)

// Provider names accepted by TutorConfig.DefaultProvider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// TutorConfig holds the tutoring endpoint behavior.
type TutorConfig struct {
	DefaultProvider string `validate:"oneof=gemini openai"`
	MaxTextRunes    int    `validate:"gte=1"`
	TimeoutSeconds  int    `validate:"gte=1"`
}

// GeminiConfig holds the Gemini upstream settings.
type GeminiConfig struct {
	APIKey          string
	Model           string `validate:"required"`
	Temperature     float64
	MaxOutputTokens int `validate:"gte=1"`
}

// OpenAIConfig holds the OpenAI Responses upstream settings.
type OpenAIConfig struct {
	APIKey          string
	Model           string `validate:"required"`
	BaseURL         string `validate:"required,url"`
	Temperature     float64
	MaxOutputTokens int `validate:"gte=1"`
}

// LoggingConfig holds log level and file rotation settings.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig holds the listen address settings.
type HTTPConfig struct {
	Host         string
	Port         int `validate:"gte=1,lte=65535"`
	HTTP2Enabled bool
}

// AuthConfig holds the shared-secret settings. An empty AppToken
// disables request authorization entirely.
type AuthConfig struct {
	AppToken string
}

// DatabaseConfig holds the optional usage DB connection settings.
type DatabaseConfig struct {
	Enabled                        bool
	Host                           string
	Port                           int
	Name                           string
	User                           string
	Password                       string
	MinPool                        int
	MaxPool                        int
	ConnMaxLifetimeMinutes         int
	ConnMaxIdleTimeMinutes         int
	UsageBatchEnabled              bool
	UsageBatchFlushIntervalSeconds int
	UsageBatchMaxPendingRequests   int
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// Config is the full application configuration, built once at startup
// and passed by injection. Handlers never read the environment.
type Config struct {
	Tutor    TutorConfig
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Logging  LoggingConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Database DatabaseConfig
}
