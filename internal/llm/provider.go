package llm

import (
	"context"
	"os"
	"strings"

	"github.com/egedemirkapi/entity-scanner/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single-turn prompt and returns the model's reply
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is a single user prompt
type CompletionRequest struct {
	Prompt      string
	Model       string  // overrides Config.Model when set
	MaxTokens   int     // overrides Config.MaxTokens when set
	Temperature float64 // overrides Config.Temperature when non-zero
}

// Completion is the provider's reply
type Completion struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "cohere", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for a single API request
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// Default generation settings
const (
	DefaultProvider    = "cohere"
	DefaultTimeout     = 30
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.3
)

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    DefaultProvider,
		Model:       defaultCohereModel,
		Timeout:     DefaultTimeout,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

// ConfigFromModel converts the application config into provider config
func ConfigFromModel(cfg model.Config) Config {
	return Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Timeout:     cfg.LLM.Timeout,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		HTTPProxy:   cfg.HTTP.HTTPProxy,
		HTTPSProxy:  cfg.HTTP.HTTPSProxy,
		NoProxy:     cfg.HTTP.NoProxy,
	}
}

// APIKeyEnv returns the environment variable holding the provider's credential.
// It is empty for providers that need none.
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "cohere":
		return "COHERE_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// APIKeyFromEnv reads the provider's credential from the environment
func APIKeyFromEnv(provider string) string {
	env := APIKeyEnv(provider)
	if env == "" {
		return ""
	}
	return os.Getenv(env)
}

// resolve fills request fields left empty from the provider config and fallbacks
func (c Config) resolve(req CompletionRequest, fallbackModel string) (model string, maxTokens int, temperature float64) {
	model = req.Model
	if model == "" {
		model = c.Model
	}
	if model == "" {
		model = fallbackModel
	}

	maxTokens = req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	temperature = req.Temperature
	if temperature == 0 {
		temperature = c.Temperature
	}
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return model, maxTokens, temperature
}
