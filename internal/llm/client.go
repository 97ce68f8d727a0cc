package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Client asks a language model the two questions a scan needs
type Client struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithLogger sets the client's logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout bounds every model call
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient wraps a provider
func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		timeout:  DefaultTimeout * time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProviderName returns the wrapped provider's name
func (c *Client) ProviderName() string {
	if c.provider == nil {
		return ""
	}
	return c.provider.Name()
}

// QueryGeneral asks what the model knows about the company
func (c *Client) QueryGeneral(ctx context.Context, companyName string) (string, error) {
	return c.ask(ctx, "general", GeneralPrompt(companyName))
}

// QueryPricing asks about the company's pricing; pricingOnSite selects the prompt variant
func (c *Client) QueryPricing(ctx context.Context, companyName string, pricingOnSite bool) (string, error) {
	return c.ask(ctx, "pricing", PricingPrompt(companyName, pricingOnSite))
}

func (c *Client) ask(ctx context.Context, kind, prompt string) (string, error) {
	if c.provider == nil {
		return "", &QueryError{Err: errors.New("no model provider configured")}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.provider.Complete(ctx, CompletionRequest{Prompt: prompt})
	if err != nil {
		translated := translateError(err)
		c.logger.Warn("model query failed",
			"provider", c.provider.Name(),
			"query", kind,
			"duration", time.Since(start),
			"error", err,
		)
		return "", translated
	}

	c.logger.Debug("model query completed",
		"provider", c.provider.Name(),
		"query", kind,
		"model", resp.Model,
		"tokens", resp.TokensUsed,
		"duration", time.Since(start),
	)

	return strings.TrimSpace(resp.Text), nil
}
