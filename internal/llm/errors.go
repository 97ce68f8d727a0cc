package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrRateLimited is returned when the provider rejects a call for exceeding its quota
var ErrRateLimited = errors.New("API rate limit exceeded. Please try again in a few minutes.")

// ErrAuthFailed is returned when the provider rejects the credential
var ErrAuthFailed = errors.New("API authentication failed. Please check configuration.")

// ErrMissingAPIKey is returned at construction when a hosted provider has no credential
var ErrMissingAPIKey = errors.New("API key is required")

// APIError is a non-2xx reply from a provider's HTTP API
type APIError struct {
	Provider   string
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s API error (%d): %s - %s", e.Provider, e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// QueryError wraps any other failure of a model query
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("AI query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// translateError classifies a provider failure into one of the three query error kinds
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrAuthFailed) {
		return err
	}

	switch statusOf(err) {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return ErrRateLimited
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "invalid api key"), strings.Contains(msg, "401"):
		return ErrAuthFailed
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &QueryError{Err: errors.New("model did not respond in time")}
	}

	return &QueryError{Err: err}
}

// statusOf digs the HTTP status out of any provider error type
func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		return oaiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
