package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultOpenAIModel    = "gpt-3.5-turbo"
)

type Config struct {
	GeminiEndpoint string

	OpenAIBaseURL string
	OpenAIModel   string
	// OpenAIAPIKey overrides the command-line key for the fallback provider.
	OpenAIAPIKey string

	LogLevel string

	SurrealURL  string
	SurrealNS   string
	SurrealDB   string
	SurrealUser string
	SurrealPass string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiEndpoint: os.Getenv("GEMINI_ENDPOINT"),

		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),

		LogLevel: os.Getenv("LOG_LEVEL"),

		SurrealURL:  os.Getenv("SURREAL_URL"),
		SurrealNS:   os.Getenv("SURREAL_NS"),
		SurrealDB:   os.Getenv("SURREAL_DB"),
		SurrealUser: os.Getenv("SURREAL_USER"),
		SurrealPass: os.Getenv("SURREAL_PASS"),
	}

	// The SDK appends /rpc automatically
	cfg.SurrealURL = strings.TrimSuffix(cfg.SurrealURL, "/rpc")
	cfg.SurrealURL = strings.TrimSuffix(cfg.SurrealURL, "/")

	if cfg.GeminiEndpoint == "" {
		cfg.GeminiEndpoint = defaultGeminiEndpoint
	}
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = defaultOpenAIBaseURL
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = defaultOpenAIModel
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg
}

// HistoryEnabled reports whether a SurrealDB endpoint is configured.
func (c *Config) HistoryEnabled() bool {
	return c.SurrealURL != ""
}
