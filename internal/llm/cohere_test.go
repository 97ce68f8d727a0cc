package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCohereProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat" {
			t.Errorf("Expected path /v1/chat, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %s", r.Header.Get("Authorization"))
		}

		var req cohereRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Model != "command-a-03-2025" {
			t.Errorf("Expected default model, got %s", req.Model)
		}
		if req.Temperature != 0.3 {
			t.Errorf("Expected temperature 0.3, got %v", req.Temperature)
		}
		if req.MaxTokens != 1024 {
			t.Errorf("Expected max_tokens 1024, got %d", req.MaxTokens)
		}
		if req.Message != "Tell me about Acme" {
			t.Errorf("Unexpected message: %s", req.Message)
		}

		_, _ = w.Write([]byte(`{
			"response_id": "r1",
			"text": "  Acme makes widgets.  ",
			"finish_reason": "COMPLETE",
			"meta": {"tokens": {"input_tokens": 12, "output_tokens": 5}}
		}`))
	}))
	defer server.Close()

	provider, err := NewCohereProvider(Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Timeout:     5,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "Tell me about Acme"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != "Acme makes widgets." {
		t.Errorf("Expected trimmed text, got %q", resp.Text)
	}
	if resp.TokensUsed != 17 {
		t.Errorf("Expected 17 tokens, got %d", resp.TokensUsed)
	}
}

func TestCohereProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message": "You are using a Trial key, which is limited"}`))
	}))
	defer server.Close()

	provider, err := NewCohereProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), CompletionRequest{Prompt: "hi"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "You are using a Trial key, which is limited" {
		t.Errorf("Unexpected message: %s", apiErr.Message)
	}
}

func TestCohereProvider_Complete_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	provider, err := NewCohereProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "hi"}); err == nil {
		t.Fatal("Expected error for malformed JSON, got nil")
	}
}

func TestCohereProvider_MissingKey(t *testing.T) {
	_, err := NewCohereProvider(Config{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestCohereProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/check-api-key" && r.Header.Get("Authorization") == "Bearer good-key" {
			_, _ = w.Write([]byte(`{"valid": true}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "invalid api token"}`))
	}))
	defer server.Close()

	good, _ := NewCohereProvider(Config{APIKey: "good-key", BaseURL: server.URL, Timeout: 5})
	if !good.IsAvailable(context.Background()) {
		t.Error("Expected provider with valid key to be available")
	}

	bad, _ := NewCohereProvider(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: 5})
	if bad.IsAvailable(context.Background()) {
		t.Error("Expected provider with invalid key to be unavailable")
	}
}
