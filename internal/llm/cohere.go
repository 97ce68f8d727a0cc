package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/egedemirkapi/entity-scanner/internal/util"
)

const (
	defaultCohereBaseURL = "https://api.cohere.com"
	defaultCohereModel   = "command-a-03-2025"
)

// CohereProvider implements the Provider interface for Cohere's chat API
type CohereProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Cohere API structures
type cohereRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type cohereResponse struct {
	ResponseID   string `json:"response_id"`
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason"`
	Meta         struct {
		Tokens struct {
			InputTokens  float64 `json:"input_tokens"`
			OutputTokens float64 `json:"output_tokens"`
		} `json:"tokens"`
	} `json:"meta"`
}

type cohereError struct {
	Message string `json:"message"`
}

type cohereCheckResponse struct {
	Valid bool `json:"valid"`
}

// NewCohereProvider creates a new Cohere provider
func NewCohereProvider(config Config) (*CohereProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("cohere: %w (set COHERE_API_KEY)", ErrMissingAPIKey)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultCohereBaseURL
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = DefaultTimeout * time.Second
	}

	return &CohereProvider{
		apiKey:  config.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: util.NewTransport(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *CohereProvider) Name() string {
	return "cohere"
}

// IsAvailable checks the API key against Cohere's key-check endpoint
func (p *CohereProvider) IsAvailable(ctx context.Context) bool {
	var check cohereCheckResponse
	if err := p.do(ctx, "/v1/check-api-key", struct{}{}, &check); err != nil {
		return false
	}
	return check.Valid
}

// Complete sends the prompt to Cohere's chat endpoint
func (p *CohereProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	model, maxTokens, temperature := p.config.resolve(req, defaultCohereModel)

	apiReq := cohereRequest{
		Model:       model,
		Message:     req.Prompt,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var resp cohereResponse
	if err := p.do(ctx, "/v1/chat", apiReq, &resp); err != nil {
		return nil, err
	}

	return &Completion{
		Text:       strings.TrimSpace(resp.Text),
		Model:      model,
		TokensUsed: int(resp.Meta.Tokens.InputTokens + resp.Meta.Tokens.OutputTokens),
	}, nil
}

// do posts a JSON body to the Cohere API and decodes the reply into out
func (p *CohereProvider) do(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		apiErr := &APIError{Provider: "cohere", StatusCode: httpResp.StatusCode, Message: string(respBody)}
		var ce cohereError
		if err := json.Unmarshal(respBody, &ce); err == nil && ce.Message != "" {
			apiErr.Message = ce.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
