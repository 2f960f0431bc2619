// Package dedup tracks the canonical URLs of articles already archived so
// repeated listings are rejected across and within runs.
package dedup

import (
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Set is a mutex-guarded set of canonical article URLs. The zero value is
// not usable; construct with NewSet.
type Set struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSet creates a Set with the given estimated capacity.
func NewSet(estimatedCapacity int) *Set {
	return &Set{
		seen: make(map[string]struct{}, estimatedCapacity),
	}
}

// Seed marks every URL already present in the loaded archive.
func (s *Set) Seed(urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range urls {
		s.seen[Canonicalize(u)] = struct{}{}
	}
}

// Seen reports whether the URL (after canonicalization) was already marked.
func (s *Set) Seen(rawURL string) bool {
	key := Canonicalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[key]
	return ok
}

// MarkSeen records a URL.
func (s *Set) MarkSeen(rawURL string) {
	key := Canonicalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[key] = struct{}{}
}

// SeenOrMark atomically tests and records a URL. It returns true when the
// URL was already present. Membership test and insertion are one critical
// section, so two workers racing on the same URL cannot both pass.
func (s *Set) SeenOrMark(rawURL string) bool {
	key := Canonicalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return true
	}
	s.seen[key] = struct{}{}
	return false
}

// Count returns the number of unique URLs recorded.
func (s *Set) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// trackingParams are volatile query parameters that vary between listings of
// the same article and must never participate in the dedup key.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
	"igshid":       {},
	"nil_profile":  {},
	"nil_src":      {},
}

// Canonicalize normalizes a URL into its deduplication key:
//   - lowercases scheme and host
//   - removes the fragment and default ports
//   - strips tracking query parameters and sorts the rest
//   - removes a trailing slash (except root)
//
// Unparseable input is returned unchanged so it still dedupes against itself.
func Canonicalize(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	host := u.Hostname()
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = host
	}

	if u.RawQuery != "" {
		params := u.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			if _, volatile := trackingParams[k]; volatile {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sorted []string
		for _, k := range keys {
			vals := params[k]
			sort.Strings(vals)
			for _, v := range vals {
				sorted = append(sorted, url.QueryEscape(k)+"="+url.QueryEscape(v))
			}
		}
		u.RawQuery = strings.Join(sorted, "&")
	}

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
