package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrDuplicate    = errors.New("duplicate URL")
	ErrIrrelevant   = errors.New("no keyword match")
	ErrMissingField = errors.New("expected field absent")
	ErrBadTime      = errors.New("unparseable time string")
	ErrInvalidURL   = errors.New("invalid URL")
	ErrNoCandidates = errors.New("no candidates on page")
)

// FetchError wraps errors that occur while fetching a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ExtractError wraps errors that occur during field extraction.
type ExtractError struct {
	Source string
	URL    string
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract error for %s (source=%q): %v", e.URL, e.Source, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// StoreError wraps errors that occur while persisting the archive.
type StoreError struct {
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error (%s): %v", e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
