package source

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newswatch/internal/config"
	"newswatch/internal/dedup"
	"newswatch/internal/fetcher"
	"newswatch/internal/types"
)

// SelectorAdapter extracts candidates using CSS selector rules via goquery.
type SelectorAdapter struct {
	cfg    config.SourceConfig
	fetch  fetcher.Fetcher
	logger *slog.Logger
}

// NewSelectorAdapter creates a CSS selector adapter for one source profile.
func NewSelectorAdapter(cfg config.SourceConfig, f fetcher.Fetcher, logger *slog.Logger) *SelectorAdapter {
	return &SelectorAdapter{
		cfg:    cfg,
		fetch:  f,
		logger: logger.With("component", "css_adapter", "source", cfg.Name),
	}
}

// Name implements Adapter.
func (a *SelectorAdapter) Name() string { return a.cfg.Name }

// FetchCandidates implements Adapter.
func (a *SelectorAdapter) FetchCandidates(ctx context.Context, pageURL string) ([]types.Candidate, error) {
	page, err := a.fetch.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, &types.ExtractError{Source: a.cfg.Name, URL: pageURL, Err: err}
	}

	base, err := url.Parse(firstNonEmpty(page.FinalURL, pageURL))
	if err != nil {
		base = nil
	}

	rules := a.cfg.List
	var out []types.Candidate
	doc.Find(rules.Item).Each(func(i int, sel *goquery.Selection) {
		title := extractCSS(sel, rules.Title)
		link := extractCSS(sel, rules.Link)
		if title == "" || link == "" {
			return
		}
		abs := resolveURL(base, link)
		if abs == "" {
			return
		}

		out = append(out, types.Candidate{
			Source:       a.cfg.Name,
			Title:        title,
			Link:         dedup.Canonicalize(abs),
			OriginalLink: abs,
			RawTime:      extractCSS(sel, rules.Time),
			Summary:      extractCSS(sel, rules.Summary),
			Img:          resolveURL(base, extractCSS(sel, rules.Img)),
		})
	})

	a.logger.Debug("candidates extracted", "page", pageURL, "count", len(out))
	return out, nil
}

// FetchDetail implements Adapter.
func (a *SelectorAdapter) FetchDetail(ctx context.Context, c *types.Candidate) error {
	if !detailNeeded(a.cfg.Detail, c) {
		return nil
	}

	page, err := a.fetch.Fetch(ctx, c.OriginalLink)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return &types.ExtractError{Source: a.cfg.Name, URL: c.OriginalLink, Err: err}
	}

	base, err := url.Parse(firstNonEmpty(page.FinalURL, c.OriginalLink))
	if err != nil {
		base = nil
	}

	rules := a.cfg.Detail
	if c.RawTime == "" {
		c.RawTime = extractCSS(doc.Selection, rules.Time)
	}
	if c.Summary == "" {
		c.Summary = extractCSS(doc.Selection, rules.Summary)
	}
	if c.Img == "" {
		c.Img = resolveURL(base, extractCSS(doc.Selection, rules.Img))
	}
	return nil
}

// extractCSS applies one field rule within a selection. An empty selector
// targets the selection itself; attr "" reads text, "html" reads inner HTML
// flattened to text with <br> runs as newlines, anything else reads that
// attribute.
func extractCSS(sel *goquery.Selection, rule config.Rule) string {
	if rule.Selector == "" && rule.Attr == "" {
		return ""
	}

	target := sel
	if rule.Selector != "" {
		target = sel.Find(rule.Selector).First()
		if target.Length() == 0 {
			return ""
		}
	}

	switch rule.Attr {
	case "", "text":
		return strings.TrimSpace(target.Text())
	case "html":
		h, err := target.Html()
		if err != nil {
			return ""
		}
		return flattenHTML(h)
	default:
		v, _ := target.Attr(rule.Attr)
		return strings.TrimSpace(v)
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
