package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config

	validate = validator.New()
)

// Load reads the environment-backed configuration exactly once.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig loads and validates the configuration.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural validity. Missing upstream credentials are
// deliberately not a startup failure: each request reports them as a
// configuration error for that provider.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogEnvStatus logs the effective configuration at startup.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	logger.Debug(
		"env_status",
		"env_file", fileExists(".env"),
		"default_provider", cfg.Tutor.DefaultProvider,
		"upstream_timeout", cfg.Tutor.TimeoutSeconds,
		"app_token_set", cfg.Auth.AppToken != "",
		"gemini_key", maskSecret(cfg.Gemini.APIKey),
		"gemini_model", cfg.Gemini.Model,
		"openai_key", maskSecret(cfg.OpenAI.APIKey),
		"openai_model", cfg.OpenAI.Model,
		"usage_db", cfg.Database.Enabled,
	)

	if cfg.Gemini.APIKey == "" && cfg.OpenAI.APIKey == "" {
		logger.Warn("env_missing_provider_credentials")
	}
}

func buildConfig() *Config {
	return &Config{
		Tutor: TutorConfig{
			DefaultProvider: strings.ToLower(getEnvString("TUTOR_PROVIDER", ProviderGemini)),
			MaxTextRunes:    getEnvInt("TUTOR_MAX_TEXT_CHARS", 1500),
			TimeoutSeconds:  getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 60),
		},
		Gemini: GeminiConfig{
			APIKey:          strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
			Model:           getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature:     getEnvFloat("GEMINI_TEMPERATURE", 0.7),
			MaxOutputTokens: getEnvInt("GEMINI_MAX_TOKENS", 1024),
		},
		OpenAI: OpenAIConfig{
			APIKey:          strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			Model:           getEnvString("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:         getEnvString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature:     getEnvFloat("OPENAI_TEMPERATURE", 0.7),
			MaxOutputTokens: getEnvInt("OPENAI_MAX_TOKENS", 1024),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 8787),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", true),
		},
		Auth: AuthConfig{
			AppToken: strings.TrimSpace(os.Getenv("APP_TOKEN")),
		},
		Database: DatabaseConfig{
			Enabled:                        getEnvBool("USAGE_DB_ENABLED", false),
			Host:                           getEnvString("DB_HOST", "localhost"),
			Port:                           getEnvInt("DB_PORT", 5432),
			Name:                           getEnvString("DB_NAME", "tutor"),
			User:                           getEnvString("DB_USER", "tutor"),
			Password:                       getEnvString("DB_PASSWORD", ""),
			MinPool:                        getEnvInt("DB_MIN_POOL", 1),
			MaxPool:                        getEnvInt("DB_MAX_POOL", 5),
			ConnMaxLifetimeMinutes:         getEnvNonNegativeInt("DB_CONN_MAX_LIFETIME_MINUTES", 60),
			ConnMaxIdleTimeMinutes:         getEnvNonNegativeInt("DB_CONN_MAX_IDLE_TIME_MINUTES", 10),
			UsageBatchEnabled:              getEnvBool("DB_USAGE_BATCH_ENABLED", false),
			UsageBatchFlushIntervalSeconds: max(1, getEnvNonNegativeInt("DB_USAGE_BATCH_FLUSH_INTERVAL_SECONDS", 1)),
			UsageBatchMaxPendingRequests:   max(1, getEnvNonNegativeInt("DB_USAGE_BATCH_MAX_PENDING_REQUESTS", 50)),
		},
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func maskSecret(value string) string {
	if value == "" {
		return "(unset)"
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
