// Package fetcher retrieves listing and article pages over HTTP or through a
// headless browser for JS-rendered sites.
package fetcher

import (
	"context"
	"math/rand"
	"time"
)

// Page is the raw result of fetching one URL.
type Page struct {
	// URL is the requested URL.
	URL string

	// FinalURL is the URL after any redirects.
	FinalURL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is the raw page bytes, decompressed.
	Body []byte

	// FetchedAt is when the response was received.
	FetchedAt time.Time

	// Duration is how long the fetch took.
	Duration time.Duration
}

// Fetcher retrieves a single page. Implementations classify transient
// failures as retryable via types.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
	Close() error
}

// RandomDelay returns a random delay around the base duration (±25%),
// used for politeness gaps and retry backoff jitter.
func RandomDelay(base time.Duration) time.Duration {
	jitter := float64(base) * 0.25
	return base + time.Duration(rand.Float64()*2*jitter-jitter)
}
