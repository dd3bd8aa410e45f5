// Package config loads service configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported completion providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// defaultLLMTimeout bounds a single completion request.
const defaultLLMTimeout = 30 * time.Second

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port string

	// Completion provider
	LLMProvider     string
	LLMModel        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
	LLMTimeout      time.Duration

	// Resource catalog
	ResourcesFile string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables, honoring a .env
// file in the working directory when one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("LUNA_PORT", "5000"),

		LLMProvider:     getEnv("LUNA_LLM_PROVIDER", ProviderOpenAI),
		LLMModel:        getEnv("LUNA_LLM_MODEL", "gpt-5"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		LLMTimeout:      parseDuration(getEnv("LUNA_LLM_TIMEOUT", "30s"), defaultLLMTimeout),

		ResourcesFile: getEnv("LUNA_RESOURCES_FILE", ""),

		LogFile:  getEnv("LUNA_LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("LUNA_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
