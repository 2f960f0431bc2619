package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"newswatch/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func testArticle(url string) types.Article {
	return types.Article{
		Title:       "테스트 기사",
		Time:        "2025-03-16T09:12:00+09:00",
		URL:         url,
		OriginalURL: url,
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "missing.json"), testLogger)
	if s.Len() != 0 || len(s.Buckets()) != 0 {
		t.Error("missing file should load as an empty store")
	}
}

func TestLoadMalformedFileFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Load(path, testLogger)
	if s.Len() != 0 {
		t.Error("malformed file should reset to an empty store")
	}
	if err := s.Persist(); err != nil {
		t.Fatalf("persist after reset: %v", err)
	}
}

func TestMergeSkipsURLsAlreadyInBucket(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "news.json"), testLogger)
	label := "2025년 03월 16일 일요일"

	if n := len(s.Merge(label, []types.Article{testArticle("https://x/1")})); n != 1 {
		t.Fatalf("first merge appended %d, want 1", n)
	}
	if n := len(s.Merge(label, []types.Article{testArticle("https://x/1"), testArticle("https://x/2")})); n != 1 {
		t.Fatalf("second merge appended %d, want 1", n)
	}

	buckets := s.Buckets()
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	seen := 0
	for _, a := range buckets[0].Articles {
		if a.URL == "https://x/1" {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("bucket holds %d copies of https://x/1, want exactly 1", seen)
	}
}

func TestMergeCreatesBucketPerLabel(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "news.json"), testLogger)
	s.Merge("2025년 03월 16일 일요일", []types.Article{testArticle("https://x/1")})
	s.Merge("2025년 03월 17일 월요일", []types.Article{testArticle("https://x/2")})

	if len(s.Buckets()) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(s.Buckets()))
	}
}

func TestPersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	s := Load(path, testLogger)
	label := "2025년 03월 16일 일요일"
	s.Merge(label, []types.Article{testArticle("https://x/1"), testArticle("https://x/2")})

	if err := s.Persist(); err != nil {
		t.Fatalf("persist: %v", err)
	}

	reloaded := Load(path, testLogger)
	if reloaded.Len() != 2 {
		t.Fatalf("reloaded %d articles, want 2", reloaded.Len())
	}
	if reloaded.Buckets()[0].Date != label {
		t.Errorf("reloaded label %q, want %q", reloaded.Buckets()[0].Date, label)
	}
	if got := reloaded.Buckets()[0].Articles[0].Time; got != "2025-03-16T09:12:00+09:00" {
		t.Errorf("timestamp survived as %q", got)
	}
}

func TestPersistEmptyStoreWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	s := Load(path, testLogger)

	if err := s.Persist(); err != nil {
		t.Fatalf("persist: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("archive file must exist after every run: %v", err)
	}
	var buckets []types.DateBucket
	if err := json.Unmarshal(data, &buckets); err != nil {
		t.Fatalf("archive not valid JSON: %v", err)
	}
	if buckets == nil || len(buckets) != 0 {
		t.Errorf("expected empty array, got %v", buckets)
	}
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news.json")
	s := Load(path, testLogger)
	s.Merge("2025년 03월 16일 일요일", []types.Article{testArticle("https://x/1")})

	if err := s.Persist(); err != nil {
		t.Fatalf("persist: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "news.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only news.json, got %v", names)
	}
}

func TestURLsSpansAllBuckets(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "news.json"), testLogger)
	s.Merge("2025년 03월 16일 일요일", []types.Article{testArticle("https://x/1")})
	s.Merge("2025년 03월 17일 월요일", []types.Article{testArticle("https://x/2")})

	urls := s.URLs()
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
}
