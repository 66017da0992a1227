package llm

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable read by LoadConfig.
const EnvPrefix = "MATHQUEST_"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "offline".
	// Empty means discover from the API keys present.
	Provider string `env:"LLM_PROVIDER"`

	Gemini     GeminiConfig     `envPrefix:"GEMINI_"`
	OpenAI     OpenAIConfig     `envPrefix:"OPENAI_"`
	Anthropic  AnthropicConfig  `envPrefix:"ANTHROPIC_"`
	OpenRouter OpenRouterConfig `envPrefix:"OPENROUTER_"`

	// RequestsPerMinute paces outgoing requests. Zero disables pacing.
	RequestsPerMinute int `env:"LLM_REQUESTS_PER_MINUTE" envDefault:"0"`

	// Timeout bounds a single provider call.
	Timeout time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gemini-flash"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"BASE_URL"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"claude-haiku"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"google/gemini-2.5-flash"`
	BaseURL string `env:"BASE_URL"`
}

// vendorKeys are the API key variables each vendor documents.
type vendorKeys struct {
	Gemini     string `env:"GEMINI_API_KEY"`
	OpenAI     string `env:"OPENAI_API_KEY"`
	Anthropic  string `env:"ANTHROPIC_API_KEY"`
	OpenRouter string `env:"OPENROUTER_API_KEY"`
}

// LoadConfig reads MATHQUEST_* variables. When no provider is selected it
// picks the first of Gemini, OpenAI, Anthropic and OpenRouter that has a key,
// looking at MATHQUEST_<VENDOR>_API_KEY and then the vendor's own variable.
// ok is false if no provider could be chosen.
func LoadConfig() (cfg Config, ok bool, err error) {
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, false, fmt.Errorf("parse LLM env: %w", err)
	}

	var keys vendorKeys
	if err := env.Parse(&keys); err != nil {
		return Config{}, false, fmt.Errorf("parse LLM env: %w", err)
	}
	fillKey(&cfg.Gemini.APIKey, keys.Gemini)
	fillKey(&cfg.OpenAI.APIKey, keys.OpenAI)
	fillKey(&cfg.Anthropic.APIKey, keys.Anthropic)
	fillKey(&cfg.OpenRouter.APIKey, keys.OpenRouter)

	if cfg.Provider != "" {
		return cfg, true, nil
	}

	switch {
	case cfg.Gemini.APIKey != "":
		cfg.Provider = "gemini"
	case cfg.OpenAI.APIKey != "":
		cfg.Provider = "openai"
	case cfg.Anthropic.APIKey != "":
		cfg.Provider = "anthropic"
	case cfg.OpenRouter.APIKey != "":
		cfg.Provider = "openrouter"
	default:
		return cfg, false, nil
	}
	return cfg, true, nil
}

func fillKey(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	missing := func(vendor string) error {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", EnvPrefix, vendor, c.Provider)
	}

	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return missing("GEMINI")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return missing("OPENAI")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return missing("ANTHROPIC")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return missing("OPENROUTER")
		}
	case "offline":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// Model returns the configured model name for the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case "gemini":
		return resolveModel(c.Gemini.Model, geminiModels)
	case "openai":
		return resolveModel(c.OpenAI.Model, openaiModels)
	case "anthropic":
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case "openrouter":
		return c.OpenRouter.Model
	}
	return ""
}
