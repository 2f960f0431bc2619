package engine

import (
	"sync/atomic"
	"time"
)

// Stats tracks run counters. All fields are safe for concurrent updates from
// the worker pool.
type Stats struct {
	PagesFetched     atomic.Int64
	CandidatesSeen   atomic.Int64
	ArticlesAccepted atomic.Int64
	ArticlesMerged   atomic.Int64
	Duplicates       atomic.Int64
	Irrelevant       atomic.Int64
	Dropped          atomic.Int64
	DetailFailures   atomic.Int64
	Retries          atomic.Int64
	StartTime        time.Time
}

// Snapshot returns a copy of the counters for logging.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"pages_fetched":     s.PagesFetched.Load(),
		"candidates_seen":   s.CandidatesSeen.Load(),
		"articles_accepted": s.ArticlesAccepted.Load(),
		"articles_merged":   s.ArticlesMerged.Load(),
		"duplicates":        s.Duplicates.Load(),
		"irrelevant":        s.Irrelevant.Load(),
		"dropped":           s.Dropped.Load(),
		"detail_failures":   s.DetailFailures.Load(),
		"retries":           s.Retries.Load(),
	}
}
