package validate

import (
	"errors"
	"testing"
)

func TestURLValidator_Accepts(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/about?x=1",
		"  https://acme.io  ",
		"https://172.217.0.1",
		"https://10x.dev",
	}

	for _, raw := range valid {
		if _, err := URL(raw); err != nil {
			t.Errorf("Expected %q to be valid, got %v", raw, err)
		}
	}
}

func TestURLValidator_RejectsInvalidFormat(t *testing.T) {
	invalid := []string{
		"",
		"ftp://x.com",
		"example.com",
		"javascript:alert(1)",
		"https://",
		"not a url",
	}

	for _, raw := range invalid {
		_, err := URL(raw)
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Expected ErrInvalidURL for %q, got %v", raw, err)
		}
	}
}

func TestURLValidator_RejectsPrivateHosts(t *testing.T) {
	private := []string{
		"http://localhost",
		"http://localhost:3000/admin",
		"http://127.0.0.1",
		"http://192.168.1.1",
		"http://10.0.0.5",
		"http://172.16.4.2",
		"http://[::1]/",
		"http://172.20.0.1",
		"http://169.254.169.254/latest/meta-data",
		"http://0.0.0.0",
	}

	for _, raw := range private {
		_, err := URL(raw)
		if !errors.Is(err, ErrPrivateHost) {
			t.Errorf("Expected ErrPrivateHost for %q, got %v", raw, err)
		}
	}
}

func TestURLValidator_ValidationErrorCarriesInput(t *testing.T) {
	_, err := URL("ftp://x.com")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if vErr.URL != "ftp://x.com" {
		t.Errorf("Expected URL to be recorded, got %q", vErr.URL)
	}
}

func TestHostPolicy_PrefixOnlyWithoutIPChecks(t *testing.T) {
	policy := NewHostPolicy(DefaultBlockedHosts, DefaultBlockedPrefixes, false)

	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"LOCALHOST", true},
		{"127.0.0.1", true},
		{"192.168.0.10", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"172.20.0.1", false},
		{"localhost.example.com", false},
		{"example.com", false},
	}

	for _, tt := range tests {
		if got := policy.Blocked(tt.host); got != tt.want {
			t.Errorf("Blocked(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
