package llm

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// ErrNotConfigured is returned when no provider is selected and no API key
// can be discovered in the environment.
var ErrNotConfigured = errors.New("no model provider configured: set ELEVATE_LLM_PROVIDER or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")

// Config holds model provider configuration.
type Config struct {
	// Provider is one of the Provider* constants.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one coaching request end to end. Default: 90s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-sonnet"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o"
	BaseURL string // Optional, for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retries of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults. Coaching requests make a single
// attempt; no environment setting raises it.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Anthropic:  AnthropicConfig{Model: "claude-sonnet"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 90 * time.Second,
	}
}

// ConfigFromEnv builds a Config from ELEVATE_* variables over the defaults.
// Malformed numeric or duration values are reported as errors.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Provider, "ELEVATE_LLM_PROVIDER")
	setString(&cfg.Gemini.APIKey, "ELEVATE_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "ELEVATE_GEMINI_MODEL")
	setString(&cfg.Anthropic.APIKey, "ELEVATE_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "ELEVATE_ANTHROPIC_MODEL")
	setString(&cfg.OpenAI.APIKey, "ELEVATE_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "ELEVATE_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "ELEVATE_OPENAI_BASE_URL")
	setString(&cfg.OpenRouter.APIKey, "ELEVATE_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "ELEVATE_OPENROUTER_MODEL")

	if v := os.Getenv("ELEVATE_LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("ELEVATE_LLM_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// DiscoverConfig probes the vendors' conventional API key variables in
// priority order (Gemini, OpenAI, Anthropic, OpenRouter) and selects the
// first provider found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}
	return Config{}, false
}

// LoadConfig resolves the effective configuration: an explicit
// ELEVATE_LLM_PROVIDER wins, otherwise API keys are discovered. The result
// is validated.
func LoadConfig() (Config, error) {
	var cfg Config
	if os.Getenv("ELEVATE_LLM_PROVIDER") != "" {
		var err error
		if cfg, err = ConfigFromEnv(); err != nil {
			return Config{}, err
		}
	} else {
		discovered, ok := DiscoverConfig()
		if !ok {
			return Config{}, ErrNotConfigured
		}
		cfg = discovered
		// Tuning variables still apply to a discovered provider.
		tuned, err := ConfigFromEnv()
		if err != nil {
			return Config{}, err
		}
		cfg.Timeout = tuned.Timeout
		cfg.Retry = tuned.Retry
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected provider has an API key and that the
// timeout and retry budget are usable.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ELEVATE_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("ELEVATE_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("ELEVATE_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("ELEVATE_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown model provider: %q", c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are treated as literal model IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
