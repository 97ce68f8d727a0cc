package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/egedemirkapi/entity-scanner/internal/llm"
	"github.com/egedemirkapi/entity-scanner/internal/validate"
)

// User-facing messages for the failure payload
const (
	MsgInvalidURL  = "Invalid URL format. Must start with http:// or https://"
	MsgPrivateHost = "Cannot scan internal or private network addresses"
	MsgScanFailed  = "Failed to complete scan. Please check the URL and try again."
)

// ErrDisallowedByRobots is returned when robots.txt forbids fetching the page
var ErrDisallowedByRobots = errors.New("disallowed by robots.txt")

// HTTPStatusError reports a non-2xx response from the company site
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d: Failed to fetch website", e.StatusCode)
}

// TimeoutError reports that the company site did not answer in time
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Website took too long to respond (timeout after %s)", e.After)
}

// ScrapeError wraps any other failure while fetching or parsing the page
type ScrapeError struct {
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("Scraping failed: %v", e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// panicError carries a recovered panic out of a scan
type panicError struct {
	value interface{}
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic during scan: %v", e.value)
}

// UserMessage maps a scan error to the message shown to callers.
// Provider and network internals never leak past this point except
// through the extraction messages, which are already phrased for users.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, validate.ErrPrivateHost):
		return MsgPrivateHost
	case errors.Is(err, validate.ErrInvalidURL):
		return MsgInvalidURL
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Error()
	}
	var scrapeErr *ScrapeError
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Error()
	}

	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return llm.ErrRateLimited.Error()
	case errors.Is(err, llm.ErrAuthFailed):
		return llm.ErrAuthFailed.Error()
	}
	var queryErr *llm.QueryError
	if errors.As(err, &queryErr) {
		return queryErr.Error()
	}

	return MsgScanFailed
}

// IsValidationError reports whether err was raised before any network call
func IsValidationError(err error) bool {
	var vErr *validate.ValidationError
	return errors.As(err, &vErr)
}
