package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsChecker_CanFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hits.Add(1)
		_, _ = fmt.Fprint(w, "User-agent: EntityScanner\nDisallow: /private\n\nUser-agent: *\nDisallow:\n")
	}))
	defer server.Close()

	checker := NewRobotsChecker("EntityScanner/1.0 (Hallucination Detection Bot)", 5*time.Second, nil)
	ctx := context.Background()

	allowed, err := checker.CanFetch(ctx, server.URL+"/about")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("Expected /about to be allowed")
	}

	allowed, err = checker.CanFetch(ctx, server.URL+"/private/pricing")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if allowed {
		t.Error("Expected /private/pricing to be disallowed")
	}

	if hits.Load() != 1 {
		t.Errorf("Expected robots.txt to be fetched once and cached, got %d fetches", hits.Load())
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker("EntityScanner/1.0", 5*time.Second, nil)
	allowed, err := checker.CanFetch(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("Expected missing robots.txt to allow everything")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"EntityScanner/1.0 (Hallucination Detection Bot)": "EntityScanner",
		"curl/8.0":  "curl",
		"plain":     "plain",
		"":          "",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "http://secure-proxy.internal:3128", "skip.example.com")

	tests := []struct {
		target string
		want   string
	}{
		{"http://example.com/", "http://proxy.internal:3128"},
		{"https://example.com/", "http://secure-proxy.internal:3128"},
		{"https://skip.example.com/", ""},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, tt.target, nil)
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("proxy(%s) failed: %v", tt.target, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("proxy(%s) = %q, want %q", tt.target, gotStr, tt.want)
		}
	}
}
