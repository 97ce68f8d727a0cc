package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidURL is returned when the target is not an absolute http(s) URL
var ErrInvalidURL = errors.New("invalid URL format")

// ErrPrivateHost is returned when the target points at an internal or private network
var ErrPrivateHost = errors.New("private or internal network address")

// ValidationError wraps one of the sentinel errors with the offending input
type ValidationError struct {
	URL string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate %q: %v", e.URL, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// URLValidator checks scan targets before any network call is made
type URLValidator struct {
	validate *validator.Validate
	hosts    *HostPolicy
}

// NewURLValidator creates a validator with the given host policy.
// A nil policy uses DefaultHostPolicy.
func NewURLValidator(hosts *HostPolicy) *URLValidator {
	if hosts == nil {
		hosts = DefaultHostPolicy()
	}
	return &URLValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		hosts:    hosts,
	}
}

// Validate parses raw and rejects anything that is not a public http(s) URL
func (v *URLValidator) Validate(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)

	if err := v.validate.Var(raw, "required,http_url"); err != nil {
		return nil, &ValidationError{URL: raw, Err: ErrInvalidURL}
	}

	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Hostname() == "" {
		return nil, &ValidationError{URL: raw, Err: ErrInvalidURL}
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return nil, &ValidationError{URL: raw, Err: ErrInvalidURL}
	}

	if v.hosts.Blocked(parsed.Hostname()) {
		return nil, &ValidationError{URL: raw, Err: ErrPrivateHost}
	}

	return parsed, nil
}

var defaultValidator = NewURLValidator(nil)

// URL validates raw with the default host policy
func URL(raw string) (*url.URL, error) {
	return defaultValidator.Validate(raw)
}
