// Package config loads chitti's process configuration from the environment,
// optionally seeded by a .env file. It mirrors the Rust original's
// Config::from_env(): one required variable, three defaulted ones, and a
// plain error for the missing case.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultGeminiModel = "gemini-1.5-flash"
	defaultLogLevel    = "info"
)

// Config holds the settings read once at process start and passed down to
// the brain client, the conductor, and the observability provider.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	DevMode      bool
	LogLevel     string
}

// Load reads a .env file if present (missing file is not an error, matching
// dotenv's best-effort semantics in the original CLI's entrypoint) and then
// builds a Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config directly from the current environment, without
// touching any .env file. Separated from Load so tests can set env vars
// without a filesystem dependency.
func FromEnv() (*Config, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("config: GEMINI_API_KEY must be set in .env or environment")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = defaultLogLevel
	}

	return &Config{
		GeminiAPIKey: apiKey,
		GeminiModel:  model,
		DevMode:      parseBoolDefault(os.Getenv("DEV_MODE"), true),
		LogLevel:     logLevel,
	}, nil
}

// parseBoolDefault parses s case-insensitively as a bool ("true"/"false",
// "1"/"0", "yes"/"no"), returning def when s is empty or unrecognized.
func parseBoolDefault(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}
