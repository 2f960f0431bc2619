// Package source turns seed listing URLs into article candidates. Every site
// is one Adapter configuration (CSS selector or XPath rules), never its own
// pipeline.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"newswatch/internal/config"
	"newswatch/internal/fetcher"
	"newswatch/internal/types"
)

// Adapter is the site-specific capability consumed by the engine.
type Adapter interface {
	// Name identifies the source profile.
	Name() string

	// FetchCandidates fetches a listing page and extracts its candidate
	// fragments. A failed fetch returns the error; a page with no matching
	// fragments returns an empty slice, which the engine logs and skips.
	FetchCandidates(ctx context.Context, pageURL string) ([]types.Candidate, error)

	// FetchDetail fetches the candidate's own article page and fills in
	// fields the listing lacked (time, image, summary). It is a no-op for
	// profiles without detail rules.
	FetchDetail(ctx context.Context, c *types.Candidate) error
}

// New constructs the adapter for a source profile.
func New(cfg config.SourceConfig, f fetcher.Fetcher, logger *slog.Logger) (Adapter, error) {
	switch cfg.Adapter {
	case "", "css":
		return NewSelectorAdapter(cfg, f, logger), nil
	case "xpath":
		return NewXPathAdapter(cfg, f, logger), nil
	default:
		return nil, fmt.Errorf("unknown adapter kind %q for source %q", cfg.Adapter, cfg.Name)
	}
}

// PageURLs expands a source's seeds into the concrete listing URLs to fetch,
// applying the pagination template when configured.
func PageURLs(cfg config.SourceConfig) []string {
	var pages []string
	pages = append(pages, cfg.URLs...)

	if cfg.PageTemplate != "" && cfg.Pages > 0 {
		for p := 1; p <= cfg.Pages; p++ {
			pages = append(pages, fmt.Sprintf(cfg.PageTemplate, p))
		}
	}
	return pages
}

// detailNeeded reports whether a detail fetch can still fill anything in:
// at least one detail rule is configured whose target field is empty.
func detailNeeded(rules config.DetailRules, c *types.Candidate) bool {
	if rules.Time.Selector != "" && c.RawTime == "" {
		return true
	}
	if rules.Summary.Selector != "" && c.Summary == "" {
		return true
	}
	if rules.Img.Selector != "" && c.Img == "" {
		return true
	}
	return false
}

// resolveURL makes href absolute against the listing page URL. Scheme-less
// "//host/path" links get the base scheme. Returns "" for unusable links.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	return base.ResolveReference(ref).String()
}
