// Package store persists the date-bucketed article archive as a single JSON
// document per source.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"newswatch/internal/types"
)

// Store is the loaded archive: an ordered collection of DateBuckets, at most
// one per date label. It is append-only for the lifetime of the system:
// existing buckets are only ever extended, never rewritten or removed.
// A Store has a single writer; concurrent pipeline runs against the same
// file must be serialized externally.
type Store struct {
	path    string
	buckets []types.DateBucket
	logger  *slog.Logger
}

// Load reads the archive at path. It fails open: a missing file yields an
// empty store, and a malformed document yields an empty store with the
// anomaly logged rather than propagated, so one corrupt file never stops
// the whole run.
func Load(path string, logger *slog.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger.With("component", "store", "path", path),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("archive unreadable, starting empty", "error", err)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.buckets); err != nil {
		s.logger.Warn("archive malformed, starting empty", "error", err)
		s.buckets = nil
	}
	return s
}

// Merge appends articles to the bucket for dateLabel, creating the bucket on
// first use. Articles whose URL already exists in that bucket are skipped,
// since the file may hold state newer than the dedup set's seed. Returns the
// articles actually appended.
func (s *Store) Merge(dateLabel string, articles []types.Article) []types.Article {
	var bucket *types.DateBucket
	for i := range s.buckets {
		if s.buckets[i].Date == dateLabel {
			bucket = &s.buckets[i]
			break
		}
	}
	if bucket == nil {
		s.buckets = append(s.buckets, types.DateBucket{Date: dateLabel})
		bucket = &s.buckets[len(s.buckets)-1]
	}

	existing := make(map[string]struct{}, len(bucket.Articles))
	for _, a := range bucket.Articles {
		existing[a.URL] = struct{}{}
	}

	var appended []types.Article
	for _, a := range articles {
		if _, dup := existing[a.URL]; dup {
			continue
		}
		existing[a.URL] = struct{}{}
		bucket.Articles = append(bucket.Articles, a)
		appended = append(appended, a)
	}
	return appended
}

// Persist rewrites the whole archive. The document is written to a temporary
// file in the same directory and renamed into place, so a crash mid-write
// cannot truncate the previous archive. The file exists after every run,
// holding an empty array when nothing has ever been collected.
func (s *Store) Persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &types.StoreError{Path: s.path, Err: fmt.Errorf("create archive dir: %w", err)}
	}

	buckets := s.buckets
	if buckets == nil {
		buckets = []types.DateBucket{}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &types.StoreError{Path: s.path, Err: fmt.Errorf("create temp file: %w", err)}
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(buckets); err != nil {
		tmp.Close()
		return &types.StoreError{Path: s.path, Err: fmt.Errorf("encode archive: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return &types.StoreError{Path: s.path, Err: err}
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &types.StoreError{Path: s.path, Err: fmt.Errorf("replace archive: %w", err)}
	}

	s.logger.Debug("archive persisted", "buckets", len(s.buckets), "articles", s.Len())
	return nil
}

// URLs returns every article URL across all buckets, for dedup seeding.
func (s *Store) URLs() []string {
	var urls []string
	for _, b := range s.buckets {
		for _, a := range b.Articles {
			urls = append(urls, a.URL)
		}
	}
	return urls
}

// Buckets returns the archive contents.
func (s *Store) Buckets() []types.DateBucket {
	return s.buckets
}

// Len returns the total number of archived articles.
func (s *Store) Len() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b.Articles)
	}
	return n
}

// Path returns the archive file path.
func (s *Store) Path() string {
	return s.path
}
