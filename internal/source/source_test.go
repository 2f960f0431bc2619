package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"newswatch/internal/config"
	"newswatch/internal/fetcher"
	"newswatch/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// stubFetcher serves canned bodies from memory and counts fetches.
type stubFetcher struct {
	pages   map[string]string
	fetches int
}

func (s *stubFetcher) Fetch(ctx context.Context, rawURL string) (*fetcher.Page, error) {
	s.fetches++
	body, ok := s.pages[rawURL]
	if !ok {
		return nil, &types.FetchError{URL: rawURL, StatusCode: 404, Err: fmt.Errorf("no stub page")}
	}
	return &fetcher.Page{
		URL:        rawURL,
		FinalURL:   rawURL,
		StatusCode: 200,
		Body:       []byte(body),
		FetchedAt:  time.Now(),
	}, nil
}

func (s *stubFetcher) Close() error { return nil }

const listPage = `<!doctype html>
<html><body>
<ul class="list">
<li class="sa_item">
  <a class="sa_text_title" href="/article/100?utm_source=section"><strong>화산 관측 장비 확충</strong></a>
  <div class="sa_text_lede">기상청이 백두산 주변 관측망을 늘린다</div>
  <span class="sa_text_datetime">2025.03.16 09:12:00</span>
  <img class="thumb" src="//img.example.com/100.jpg">
</li>
<li class="sa_item">
  <a class="sa_text_title" href="javascript:void(0)"><strong>스크립트 링크</strong></a>
</li>
<li class="sa_item">
  <a class="sa_text_title" href="/article/101"><strong></strong></a>
</li>
<li class="sa_item">
  <a class="sa_text_title" href="https://news.example.com/article/102"><strong>지진 발생 보고</strong></a>
</li>
</ul>
</body></html>`

func cssProfile() config.SourceConfig {
	return config.SourceConfig{
		Name:    "example",
		Adapter: "css",
		URLs:    []string{"https://news.example.com/section"},
		List: config.ListRules{
			Item:    "li.sa_item",
			Title:   config.Rule{Selector: "a.sa_text_title strong"},
			Link:    config.Rule{Selector: "a.sa_text_title", Attr: "href"},
			Time:    config.Rule{Selector: ".sa_text_datetime"},
			Summary: config.Rule{Selector: ".sa_text_lede"},
			Img:     config.Rule{Selector: "img.thumb", Attr: "src"},
		},
	}
}

func TestSelectorAdapterFetchCandidates(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"https://news.example.com/section": listPage}}
	a := NewSelectorAdapter(cssProfile(), f, testLogger)

	cands, err := a.FetchCandidates(context.Background(), "https://news.example.com/section")
	if err != nil {
		t.Fatalf("FetchCandidates: %v", err)
	}
	// The javascript: link and the empty title are skipped.
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(cands), cands)
	}

	c := cands[0]
	if c.Title != "화산 관측 장비 확충" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Link != "https://news.example.com/article/100" {
		t.Errorf("canonical link = %q, tracking params should be stripped", c.Link)
	}
	if c.OriginalLink != "https://news.example.com/article/100?utm_source=section" {
		t.Errorf("original link = %q", c.OriginalLink)
	}
	if c.RawTime != "2025.03.16 09:12:00" {
		t.Errorf("raw time = %q", c.RawTime)
	}
	if c.Summary != "기상청이 백두산 주변 관측망을 늘린다" {
		t.Errorf("summary = %q", c.Summary)
	}
	if c.Img != "https://img.example.com/100.jpg" {
		t.Errorf("img = %q, scheme-relative src should resolve", c.Img)
	}

	if cands[1].Link != "https://news.example.com/article/102" {
		t.Errorf("absolute link = %q", cands[1].Link)
	}
}

const detailPage = `<!doctype html>
<html><body>
<span class="article-date" data-date-time="2025-03-16 09:12:00">오전 9:12</span>
<div class="lead">분화 징후가 관측됐다<br><br>당국은 경보를 검토 중이다</div>
<img id="hero" src="/img/hero.jpg">
</body></html>`

func TestSelectorAdapterFetchDetail(t *testing.T) {
	cfg := cssProfile()
	cfg.Detail = config.DetailRules{
		Time:    config.Rule{Selector: ".article-date", Attr: "data-date-time"},
		Summary: config.Rule{Selector: ".lead", Attr: "html"},
		Img:     config.Rule{Selector: "img#hero", Attr: "src"},
	}
	f := &stubFetcher{pages: map[string]string{"https://news.example.com/article/100": detailPage}}
	a := NewSelectorAdapter(cfg, f, testLogger)

	c := types.Candidate{
		Source:       "example",
		Title:        "화산 관측 장비 확충",
		Link:         "https://news.example.com/article/100",
		OriginalLink: "https://news.example.com/article/100",
	}
	if err := a.FetchDetail(context.Background(), &c); err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}
	if c.RawTime != "2025-03-16 09:12:00" {
		t.Errorf("raw time = %q", c.RawTime)
	}
	if c.Summary != "분화 징후가 관측됐다\n당국은 경보를 검토 중이다" {
		t.Errorf("summary = %q, <br> runs should flatten to one newline", c.Summary)
	}
	if c.Img != "https://news.example.com/img/hero.jpg" {
		t.Errorf("img = %q", c.Img)
	}
}

func TestFetchDetailSkipsWhenNothingMissing(t *testing.T) {
	cfg := cssProfile()
	cfg.Detail = config.DetailRules{Time: config.Rule{Selector: ".article-date"}}
	f := &stubFetcher{}
	a := NewSelectorAdapter(cfg, f, testLogger)

	c := types.Candidate{Title: "t", Link: "https://x", OriginalLink: "https://x", RawTime: "2025.03.16"}
	if err := a.FetchDetail(context.Background(), &c); err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}
	if f.fetches != 0 {
		t.Errorf("fetches = %d, want 0 when every configured field is filled", f.fetches)
	}

	// No detail rules at all also means no fetch.
	a2 := NewSelectorAdapter(cssProfile(), f, testLogger)
	c2 := types.Candidate{Title: "t", Link: "https://x", OriginalLink: "https://x"}
	if err := a2.FetchDetail(context.Background(), &c2); err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}
	if f.fetches != 0 {
		t.Errorf("fetches = %d, want 0 without detail rules", f.fetches)
	}
}

func TestXPathAdapterFetchCandidates(t *testing.T) {
	cfg := config.SourceConfig{
		Name:    "xpathwire",
		Adapter: "xpath",
		URLs:    []string{"https://news.example.com/section"},
		List: config.ListRules{
			Item:  `//li[@class="sa_item"]`,
			Title: config.Rule{Selector: `.//a/strong`},
			Link:  config.Rule{Selector: `.//a`, Attr: "href"},
			Time:  config.Rule{Selector: `.//span[@class="sa_text_datetime"]`},
		},
	}
	f := &stubFetcher{pages: map[string]string{"https://news.example.com/section": listPage}}
	a := NewXPathAdapter(cfg, f, testLogger)

	cands, err := a.FetchCandidates(context.Background(), "https://news.example.com/section")
	if err != nil {
		t.Fatalf("FetchCandidates: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	if cands[0].Title != "화산 관측 장비 확충" || cands[0].RawTime != "2025.03.16 09:12:00" {
		t.Errorf("candidate = %+v", cands[0])
	}
}

func TestNewRejectsUnknownAdapter(t *testing.T) {
	_, err := New(config.SourceConfig{Name: "x", Adapter: "regex"}, &stubFetcher{}, testLogger)
	if err == nil {
		t.Fatal("want error for unknown adapter kind")
	}
}

func TestPageURLs(t *testing.T) {
	cfg := config.SourceConfig{
		URLs:         []string{"https://a/list"},
		PageTemplate: "https://a/list?page=%d",
		Pages:        3,
	}
	got := PageURLs(cfg)
	want := []string{"https://a/list", "https://a/list?page=1", "https://a/list?page=2", "https://a/list?page=3"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d = %q, want %q", i, got[i], want[i])
		}
	}

	// No template, no pagination.
	got = PageURLs(config.SourceConfig{URLs: []string{"https://a/list"}})
	if len(got) != 1 {
		t.Errorf("got %v", got)
	}
}

func TestFlattenHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"한 줄 요약", "한 줄 요약"},
		{"첫 줄<br>둘째 줄", "첫 줄\n둘째 줄"},
		{"첫 줄<br><br><br>둘째 줄", "첫 줄\n둘째 줄"},
		{"<p>문단 하나</p><p>문단 둘</p>", "문단 하나\n문단 둘"},
		{"본문<script>alert(1)</script> 끝", "본문 끝"},
	}
	for _, tt := range tests {
		if got := flattenHTML(tt.in); got != tt.want {
			t.Errorf("flattenHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuiltinSourcesAreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range BuiltinSources() {
		if s.Name == "" {
			t.Fatal("built-in source without a name")
		}
		if seen[s.Name] {
			t.Errorf("duplicate built-in source %q", s.Name)
		}
		seen[s.Name] = true
		if len(s.URLs) == 0 {
			t.Errorf("source %q has no seed URLs", s.Name)
		}
		if s.List.Item == "" {
			t.Errorf("source %q has no item selector", s.Name)
		}
		if _, err := New(s, &stubFetcher{}, testLogger); err != nil {
			t.Errorf("source %q: %v", s.Name, err)
		}
	}
	if _, ok := FindSource(BuiltinSources(), "naver"); !ok {
		t.Error("naver profile missing")
	}
}
