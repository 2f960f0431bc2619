// Package engine drives the crawl: listing fetch, candidate processing in a
// bounded worker pool, date-bucketed merge and persist. One Engine owns its
// fetchers and state; nothing in this package is global.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"newswatch/internal/config"
	"newswatch/internal/dedup"
	"newswatch/internal/fetcher"
	"newswatch/internal/filter"
	"newswatch/internal/keywords"
	"newswatch/internal/source"
	"newswatch/internal/store"
	"newswatch/internal/types"
)

// Engine runs crawls for a set of source profiles.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger

	include []string
	exclude []string
	mode    filter.Mode

	http    fetcher.Fetcher
	browser fetcher.Fetcher
	mirror  *store.MongoMirror

	stats Stats

	// now is swappable in tests.
	now func() time.Time
}

// New builds an Engine from config: keyword lists, the HTTP fetcher, and the
// optional Mongo mirror. The browser fetcher is started lazily on first use
// since most profiles never need it.
func New(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	include, exclude, err := keywords.FromConfig(cfg.Keywords, logger)
	if err != nil {
		return nil, fmt.Errorf("loading keywords: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logger.With("component", "engine"),
		include: include,
		exclude: exclude,
		mode:    filter.ParseMode(cfg.Filter.MatchMode),
		http:    fetcher.NewHTTPFetcher(cfg, logger),
		now:     time.Now,
	}

	if cfg.Store.MongoURI != "" {
		mirror, err := store.NewMongoMirror(cfg.Store.MongoURI, cfg.Store.MongoDatabase, cfg.Store.MongoCollection, logger)
		if err != nil {
			// The JSON archive is the source of truth. Run without the mirror.
			logger.Warn("mongo mirror unavailable, continuing without it", "error", err)
		} else {
			e.mirror = mirror
		}
	}

	return e, nil
}

// Close releases fetchers and the Mongo mirror.
func (e *Engine) Close() error {
	var errs []error
	if err := e.http.Close(); err != nil {
		errs = append(errs, err)
	}
	if e.browser != nil {
		if err := e.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.mirror != nil {
		if err := e.mirror.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stats returns the engine's counters.
func (e *Engine) Stats() *Stats {
	return &e.stats
}

// fetcherFor returns the fetcher for a profile's fetcher kind, starting the
// shared browser on first browser-profile use.
func (e *Engine) fetcherFor(kind string) (fetcher.Fetcher, error) {
	switch kind {
	case "", "http":
		return e.http, nil
	case "browser":
		if e.browser == nil {
			bf, err := fetcher.NewBrowserFetcher(e.cfg, e.logger)
			if err != nil {
				return nil, fmt.Errorf("starting browser fetcher: %w", err)
			}
			e.browser = bf
		}
		return e.browser, nil
	default:
		return nil, fmt.Errorf("unknown fetcher kind %q", kind)
	}
}

// Run crawls each source in turn. A failing source does not stop the others;
// the joined error reports every source that could not complete its
// fetch-merge-persist cycle.
func (e *Engine) Run(ctx context.Context, sources []config.SourceConfig) error {
	start := e.now()
	e.stats.StartTime = start

	var errs []error
	for _, src := range sources {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := e.runSource(ctx, src); err != nil {
			e.logger.Error("source failed", "source", src.Name, "error", err)
			errs = append(errs, fmt.Errorf("source %s: %w", src.Name, err))
		}
	}

	e.logger.Info("run finished",
		"duration", e.now().Sub(start).Round(time.Millisecond),
		"stats", e.stats.Snapshot())
	return errors.Join(errs...)
}

// runSource executes the full cycle for one profile: load its archive, seed
// dedup from it, fetch every listing page, process candidates, merge the
// accepted articles into date buckets and persist.
func (e *Engine) runSource(ctx context.Context, src config.SourceConfig) error {
	log := e.logger.With("source", src.Name)

	f, err := e.fetcherFor(src.Fetcher)
	if err != nil {
		return err
	}
	adapter, err := source.New(src, f, log)
	if err != nil {
		return err
	}

	st := store.Load(e.storePath(src.Name), log)
	dd := dedup.NewSet(st.Len())
	dd.Seed(st.URLs())

	var results []result
	pages := source.PageURLs(src)
	for i, pageURL := range pages {
		if i > 0 {
			if err := e.politenessDelay(ctx); err != nil {
				return err
			}
		}

		cands, err := adapter.FetchCandidates(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("listing fetch failed, skipping page", "url", pageURL, "error", err)
			continue
		}
		e.stats.PagesFetched.Add(1)
		e.stats.CandidatesSeen.Add(int64(len(cands)))
		if len(cands) == 0 {
			log.Warn("no candidates on page, selectors may be stale", "url", pageURL)
			continue
		}

		results = append(results, e.runBatch(ctx, adapter, src, cands, dd)...)
	}

	return e.mergeAndPersist(ctx, src.Name, st, results, log)
}

// mergeAndPersist groups accepted articles by their KST publication day,
// appends them to the archive and writes it out. Articles already present in
// their bucket are dropped by the store. The Mongo mirror, when configured,
// receives exactly the rows the merge actually appended.
func (e *Engine) mergeAndPersist(ctx context.Context, sourceName string, st *store.Store, results []result, log *slog.Logger) error {
	grouped := make(map[string][]types.Article)
	var labels []string
	for _, r := range results {
		if _, ok := grouped[r.label]; !ok {
			labels = append(labels, r.label)
		}
		grouped[r.label] = append(grouped[r.label], r.article)
	}

	added := make(map[string][]types.Article, len(labels))
	total := 0
	for _, label := range labels {
		appended := st.Merge(label, grouped[label])
		if len(appended) > 0 {
			added[label] = appended
			total += len(appended)
		}
	}
	e.stats.ArticlesMerged.Add(int64(total))

	if err := st.Persist(); err != nil {
		return err
	}
	log.Info("archive persisted", "path", st.Path(), "new", total, "total", st.Len())

	if e.mirror != nil && total > 0 {
		mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		for _, label := range labels {
			if len(added[label]) == 0 {
				continue
			}
			if err := e.mirror.Insert(mctx, sourceName, label, added[label]); err != nil {
				log.Warn("mongo mirror insert failed", "date", label, "error", err)
			}
		}
	}
	return nil
}

// politenessDelay sleeps the jittered page delay or returns early when the
// context ends.
func (e *Engine) politenessDelay(ctx context.Context) error {
	d := fetcher.RandomDelay(e.cfg.Engine.PageDelay)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Engine) storePath(name string) string {
	return filepath.Join(e.cfg.Store.Dir, name+"_News.json")
}
