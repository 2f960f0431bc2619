package source

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"newswatch/internal/config"
	"newswatch/internal/dedup"
	"newswatch/internal/fetcher"
	"newswatch/internal/types"
)

// XPathAdapter extracts candidates using XPath rules, for sites whose markup
// is easier to address by XPath than by CSS selectors.
type XPathAdapter struct {
	cfg    config.SourceConfig
	fetch  fetcher.Fetcher
	logger *slog.Logger
}

// NewXPathAdapter creates an XPath adapter for one source profile.
func NewXPathAdapter(cfg config.SourceConfig, f fetcher.Fetcher, logger *slog.Logger) *XPathAdapter {
	return &XPathAdapter{
		cfg:    cfg,
		fetch:  f,
		logger: logger.With("component", "xpath_adapter", "source", cfg.Name),
	}
}

// Name implements Adapter.
func (a *XPathAdapter) Name() string { return a.cfg.Name }

// FetchCandidates implements Adapter.
func (a *XPathAdapter) FetchCandidates(ctx context.Context, pageURL string) ([]types.Candidate, error) {
	page, err := a.fetch.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := htmlquery.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil, &types.ExtractError{Source: a.cfg.Name, URL: pageURL, Err: err}
	}

	base, err := url.Parse(firstNonEmpty(page.FinalURL, pageURL))
	if err != nil {
		base = nil
	}

	rules := a.cfg.List
	items, err := htmlquery.QueryAll(doc, rules.Item)
	if err != nil {
		return nil, &types.ExtractError{Source: a.cfg.Name, URL: pageURL, Err: err}
	}

	var out []types.Candidate
	for _, item := range items {
		title := extractXPath(item, rules.Title)
		link := extractXPath(item, rules.Link)
		if title == "" || link == "" {
			continue
		}
		abs := resolveURL(base, link)
		if abs == "" {
			continue
		}

		out = append(out, types.Candidate{
			Source:       a.cfg.Name,
			Title:        title,
			Link:         dedup.Canonicalize(abs),
			OriginalLink: abs,
			RawTime:      extractXPath(item, rules.Time),
			Summary:      extractXPath(item, rules.Summary),
			Img:          resolveURL(base, extractXPath(item, rules.Img)),
		})
	}

	a.logger.Debug("candidates extracted", "page", pageURL, "count", len(out))
	return out, nil
}

// FetchDetail implements Adapter.
func (a *XPathAdapter) FetchDetail(ctx context.Context, c *types.Candidate) error {
	if !detailNeeded(a.cfg.Detail, c) {
		return nil
	}

	page, err := a.fetch.Fetch(ctx, c.OriginalLink)
	if err != nil {
		return err
	}

	doc, err := htmlquery.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return &types.ExtractError{Source: a.cfg.Name, URL: c.OriginalLink, Err: err}
	}

	base, err := url.Parse(firstNonEmpty(page.FinalURL, c.OriginalLink))
	if err != nil {
		base = nil
	}

	rules := a.cfg.Detail
	if c.RawTime == "" {
		c.RawTime = extractXPath(doc, rules.Time)
	}
	if c.Summary == "" {
		c.Summary = extractXPath(doc, rules.Summary)
	}
	if c.Img == "" {
		c.Img = resolveURL(base, extractXPath(doc, rules.Img))
	}
	return nil
}

// extractXPath applies one field rule relative to a node.
func extractXPath(node *html.Node, rule config.Rule) string {
	if rule.Selector == "" {
		return ""
	}

	target, err := htmlquery.Query(node, rule.Selector)
	if err != nil || target == nil {
		return ""
	}

	switch rule.Attr {
	case "", "text":
		return strings.TrimSpace(htmlquery.InnerText(target))
	case "html":
		return flattenHTML(htmlquery.OutputHTML(target, false))
	default:
		return strings.TrimSpace(htmlquery.SelectAttr(target, rule.Attr))
	}
}
