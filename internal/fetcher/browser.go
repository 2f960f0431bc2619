package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"newswatch/internal/config"
	"newswatch/internal/types"
)

// BrowserFetcher implements Fetcher using a headless browser via Rod, for
// sources whose listings only materialize after JavaScript runs.
type BrowserFetcher struct {
	browser  *rod.Browser
	timeout  time.Duration
	logger   *slog.Logger
	pagePool chan *rod.Page
	maxPages int
}

// NewBrowserFetcher launches a headless Chromium and connects to it. The
// page pool is bounded by the worker count so the browser never holds more
// concurrent tabs than the executor has tasks.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger) (*BrowserFetcher, error) {
	launchURL, err := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	bf := &BrowserFetcher{
		browser:  browser,
		timeout:  cfg.Engine.RequestTimeout,
		logger:   logger.With("component", "browser_fetcher"),
		maxPages: cfg.Engine.Workers,
	}
	bf.pagePool = make(chan *rod.Page, bf.maxPages)

	bf.logger.Info("browser fetcher ready", "max_pages", bf.maxPages)
	return bf, nil
}

// Fetch navigates to a URL and returns the rendered page content.
func (bf *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	start := time.Now()

	page, err := bf.getPage()
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}
	defer bf.putPage(page)

	if err := page.Context(ctx).Timeout(bf.timeout).Navigate(rawURL); err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}
	if err := page.Timeout(bf.timeout).WaitStable(300 * time.Millisecond); err != nil {
		bf.logger.Warn("page stability timeout, continuing", "url", rawURL, "error", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}

	finalURL := rawURL
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	bf.logger.Debug("browser fetch complete",
		"url", rawURL,
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return &Page{
		URL:        rawURL,
		FinalURL:   finalURL,
		StatusCode: 200, // Rod does not easily expose status codes
		Body:       []byte(html),
		FetchedAt:  time.Now(),
		Duration:   duration,
	}, nil
}

// Close shuts down the browser and releases resources.
func (bf *BrowserFetcher) Close() error {
	close(bf.pagePool)
	for page := range bf.pagePool {
		_ = page.Close()
	}
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// getPage retrieves a stealth-patched page from the pool or creates one.
func (bf *BrowserFetcher) getPage() (*rod.Page, error) {
	select {
	case page := <-bf.pagePool:
		return page, nil
	default:
		return stealth.Page(bf.browser)
	}
}

// putPage returns a page to the pool.
func (bf *BrowserFetcher) putPage(page *rod.Page) {
	// Navigate to blank to free memory from the last page
	_ = page.Navigate("about:blank")

	select {
	case bf.pagePool <- page:
	default:
		_ = page.Close() // Pool full, close the page
	}
}
