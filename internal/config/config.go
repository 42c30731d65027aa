package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Model continuity modes. "provider" reuses only the provider family of the
// session's last turn (its default variant); "full" reuses the exact variant
// when it still resolves.
const (
	ContinuityProvider = "provider"
	ContinuityFull     = "full"
)

type Config struct {
	// Core
	DatabasePath string `env:"DATABASE_PATH" envDefault:"polychat.db"`
	UploadDir    string `env:"UPLOAD_DIR" envDefault:"uploads"`
	Port         int    `env:"PORT" envDefault:"3000"`

	// Provider credentials
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	ClaudeAPIKey string `env:"CLAUDE_API_KEY"`

	// Provider endpoints, overridable for tests and proxies
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ClaudeBaseURL string `env:"CLAUDE_BASE_URL" envDefault:"https://api.anthropic.com/v1"`

	// Behavior
	ModelContinuity string `env:"MODEL_CONTINUITY" envDefault:"provider"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.ModelContinuity != ContinuityProvider && cfg.ModelContinuity != ContinuityFull {
		return nil, fmt.Errorf("invalid MODEL_CONTINUITY %q", cfg.ModelContinuity)
	}
	return cfg, nil
}
