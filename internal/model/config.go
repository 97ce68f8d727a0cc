package model

import "time"

// DefaultUserAgent identifies the scanner to the sites it fetches
const DefaultUserAgent = "EntityScanner/1.0 (Hallucination Detection Bot)"

// Config is the complete application configuration
type Config struct {
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Scoring      ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Log          LogConfig         `yaml:"log" mapstructure:"log"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls how company pages are fetched
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRedirects  int           `yaml:"max_redirects" mapstructure:"max_redirects"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LLMConfig selects and tunes the language model being audited
type LLMConfig struct {
	// Provider is one of cohere, openai, anthropic, ollama
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`

	// APIKey is read from the environment and never written to disk
	APIKey  string `yaml:"-" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout per model call, in seconds
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// ScoringConfig holds the comparison engine's tunables.
// A description token counts as a keyword only when it is longer than KeywordMinLength.
type ScoringConfig struct {
	NameDelimiter        string   `yaml:"name_delimiter" mapstructure:"name_delimiter"`
	NameDeduction        int      `yaml:"name_deduction" mapstructure:"name_deduction"`
	KeywordMinLength     int      `yaml:"keyword_min_length" mapstructure:"keyword_min_length"`
	MaxKeywords          int      `yaml:"max_keywords" mapstructure:"max_keywords"`
	MinOverlapRate       float64  `yaml:"min_overlap_rate" mapstructure:"min_overlap_rate"`
	OverlapDeduction     int      `yaml:"overlap_deduction" mapstructure:"overlap_deduction"`
	UncertaintyPhrases   []string `yaml:"uncertainty_phrases" mapstructure:"uncertainty_phrases"`
	UncertaintyDeduction int      `yaml:"uncertainty_deduction" mapstructure:"uncertainty_deduction"`
	PricingDeduction     int      `yaml:"pricing_deduction" mapstructure:"pricing_deduction"`
	AccurateMin          int      `yaml:"accurate_min" mapstructure:"accurate_min"`
	UncertainMin         int      `yaml:"uncertain_min" mapstructure:"uncertain_min"`
}

// RateLimitConfig bounds how often a single target domain is hit
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeChecks bool `yaml:"include_checks" mapstructure:"include_checks"`
}

// DefaultUncertaintyPhrases are the hedging phrases that mark an unsure answer
var DefaultUncertaintyPhrases = []string{
	"i don't have",
	"i cannot",
	"i'm not sure",
	"i don't know",
	"no information",
	"unable to find",
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:       7 * time.Second,
			UserAgent:     DefaultUserAgent,
			MaxBodyBytes:  2_000_000,
			MaxRedirects:  3,
			RespectRobots: false,
		},
		LLM: LLMConfig{
			Provider:    "cohere",
			Model:       "command-a-03-2025",
			Timeout:     30,
			MaxTokens:   1024,
			Temperature: 0.3,
		},
		Scoring: DefaultScoringConfig(),
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			IncludeChecks: true,
		},
	}
}

// DefaultScoringConfig returns the standard comparison thresholds
func DefaultScoringConfig() ScoringConfig {
	phrases := make([]string, len(DefaultUncertaintyPhrases))
	copy(phrases, DefaultUncertaintyPhrases)

	return ScoringConfig{
		NameDelimiter:        "|",
		NameDeduction:        50,
		KeywordMinLength:     5,
		MaxKeywords:          10,
		MinOverlapRate:       0.2,
		OverlapDeduction:     30,
		UncertaintyPhrases:   phrases,
		UncertaintyDeduction: 20,
		PricingDeduction:     25,
		AccurateMin:          70,
		UncertainMin:         40,
	}
}
