package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"newswatch/internal/config"
	"newswatch/internal/dedup"
	"newswatch/internal/fetcher"
	"newswatch/internal/filter"
	"newswatch/internal/source"
	"newswatch/internal/timeparse"
	"newswatch/internal/types"
)

// result is one accepted article plus the KST day bucket it belongs to.
type result struct {
	article types.Article
	label   string
}

// runBatch processes one listing page's candidates through a bounded worker
// pool. Workers send accepted articles over a channel; the single collector
// goroutine below owns the dedup test-and-set, so two workers holding the
// same URL can never both get through. A failed candidate yields nothing and
// never aborts its siblings. Output order is whatever the pool produced.
func (e *Engine) runBatch(ctx context.Context, adapter source.Adapter, src config.SourceConfig, cands []types.Candidate, dd *dedup.Set) []result {
	workers := e.cfg.Engine.Workers
	if workers > len(cands) {
		workers = len(cands)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan types.Candidate)
	out := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				r, err := e.processCandidate(ctx, adapter, src, &c, dd)
				if err != nil {
					e.recordFailure(adapter.Name(), &c, err)
					continue
				}
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range cands {
			select {
			case jobs <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	var accepted []result
	for r := range out {
		if dd.SeenOrMark(r.article.URL) {
			e.stats.Duplicates.Add(1)
			continue
		}
		e.stats.ArticlesAccepted.Add(1)
		accepted = append(accepted, r)
	}
	return accepted
}

// processCandidate turns one candidate into an article: field validation,
// relevance filter, optional detail fetch, time normalization. The relevance
// check runs on title plus summary; when the summary only arrives with the
// detail page, the exclude list is checked up front (cheap rejection before
// a network round trip) and the full include check runs after the fetch.
func (e *Engine) processCandidate(ctx context.Context, adapter source.Adapter, src config.SourceConfig, c *types.Candidate, dd *dedup.Set) (result, error) {
	if c.Title == "" || c.Link == "" {
		return result{}, types.ErrMissingField
	}

	// Advisory check only. The batch collector owns the authoritative
	// test-and-set; this just avoids detail fetches for known URLs.
	if dd.Seen(c.Link) {
		return result{}, types.ErrDuplicate
	}

	summaryLater := c.Summary == "" && src.Detail.Summary.Selector != ""
	text := matchText(c)
	if summaryLater {
		if !filter.Match(text, nil, e.exclude, 1, e.mode) {
			return result{}, types.ErrIrrelevant
		}
	} else if !filter.Match(text, e.include, e.exclude, e.cfg.Filter.MinMatches, e.mode) {
		return result{}, types.ErrIrrelevant
	}

	if err := e.fetchDetail(ctx, adapter, c); err != nil {
		if ctx.Err() != nil {
			return result{}, ctx.Err()
		}
		// Keep going with the listing fields; the time policy below decides
		// whether the candidate survives without a detail page.
		e.logger.Debug("detail fetch failed", "source", c.Source, "url", c.Link, "error", err)
		e.stats.DetailFailures.Add(1)
	}

	if summaryLater {
		if !filter.Match(matchText(c), e.include, e.exclude, e.cfg.Filter.MinMatches, e.mode) {
			return result{}, types.ErrIrrelevant
		}
	}

	now := e.now().In(timeparse.KST)
	refYear := e.cfg.Engine.ReferenceYear
	if refYear == 0 {
		refYear = now.Year()
	}
	t, ok := timeparse.Parse(c.RawTime, refYear)
	if !ok {
		switch e.cfg.Filter.OnTimeParseFailure {
		case "now":
			t = now
		default:
			return result{}, types.ErrBadTime
		}
	}

	return result{
		article: types.Article{
			Title:       c.Title,
			Time:        timeparse.Format(t),
			Img:         c.Img,
			URL:         c.Link,
			OriginalURL: c.OriginalLink,
			Summary:     strings.TrimSpace(c.Summary),
		},
		label: timeparse.DateLabel(t),
	}, nil
}

// fetchDetail runs the adapter's detail fetch with bounded retries. Only
// retryable fetch errors are retried; Retry-After from the server overrides
// the jittered backoff.
func (e *Engine) fetchDetail(ctx context.Context, adapter source.Adapter, c *types.Candidate) error {
	var lastErr error
	for attempt := 0; attempt <= e.cfg.Engine.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := fetcher.RandomDelay(e.cfg.Engine.RetryDelay)
			var fe *types.FetchError
			if errors.As(lastErr, &fe) && fe.RetryAfter > 0 {
				delay = fe.RetryAfter
			}
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
			e.stats.Retries.Add(1)
		}

		err := adapter.FetchDetail(ctx, c)
		if err == nil {
			return nil
		}
		lastErr = err

		var fe *types.FetchError
		if !errors.As(err, &fe) || !fe.IsRetryable() {
			return err
		}
	}
	return lastErr
}

// recordFailure bumps the right counter and logs at a level matching how
// routine the failure is. Irrelevant and duplicate candidates are the normal
// case on a news listing, not a problem.
func (e *Engine) recordFailure(sourceName string, c *types.Candidate, err error) {
	switch {
	case errors.Is(err, types.ErrIrrelevant):
		e.stats.Irrelevant.Add(1)
	case errors.Is(err, types.ErrDuplicate):
		e.stats.Duplicates.Add(1)
	case errors.Is(err, types.ErrBadTime):
		e.stats.Dropped.Add(1)
		e.logger.Warn("dropping candidate with unparseable time",
			"source", sourceName, "url", c.Link, "raw_time", c.RawTime)
	case errors.Is(err, types.ErrMissingField):
		e.stats.Dropped.Add(1)
		e.logger.Debug("dropping incomplete candidate", "source", sourceName, "title", c.Title)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The run is ending; nothing per-candidate to report.
	default:
		e.stats.Dropped.Add(1)
		e.logger.Warn("candidate failed", "source", sourceName, "url", c.Link, "error", err)
	}
}

func matchText(c *types.Candidate) string {
	if c.Summary == "" {
		return c.Title
	}
	return c.Title + " " + c.Summary
}

