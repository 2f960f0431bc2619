package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for newswatch.
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"   yaml:"engine"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Filter   FilterConfig   `mapstructure:"filter"   yaml:"filter"`
	Keywords KeywordsConfig `mapstructure:"keywords" yaml:"keywords"`
	Store    StoreConfig    `mapstructure:"store"    yaml:"store"`
	Sources  []SourceConfig `mapstructure:"sources"  yaml:"sources"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// EngineConfig controls the crawl loop and worker pool.
type EngineConfig struct {
	Workers        int           `mapstructure:"workers"         yaml:"workers"`
	PageDelay      time.Duration `mapstructure:"page_delay"      yaml:"page_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"     yaml:"max_retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"     yaml:"retry_delay"`

	// ReferenceYear fills in timestamps that omit the year. Zero means the
	// current year at run time.
	ReferenceYear int `mapstructure:"reference_year" yaml:"reference_year"`
}

// FetcherConfig controls the page fetchers.
type FetcherConfig struct {
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
}

// FilterConfig controls relevance and time-normalization policy. The
// observed per-site scripts disagreed on these, so they are explicit knobs
// with fixed defaults rather than implicit behavior.
type FilterConfig struct {
	MinMatches int    `mapstructure:"min_matches" yaml:"min_matches"`
	MatchMode  string `mapstructure:"match_mode"  yaml:"match_mode"` // substring, word

	// OnTimeParseFailure: "drop" discards the candidate, "now" stamps it
	// with the current time. Drop is the default to avoid misdating.
	OnTimeParseFailure string `mapstructure:"on_time_parse_failure" yaml:"on_time_parse_failure"`
}

// KeywordsConfig names the keyword source: a YAML file and/or inline lists.
// File entries and inline entries are concatenated.
type KeywordsConfig struct {
	File    string   `mapstructure:"file"    yaml:"file"`
	Include []string `mapstructure:"include" yaml:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
}

// StoreConfig controls archive persistence.
type StoreConfig struct {
	Dir             string `mapstructure:"dir"              yaml:"dir"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// SourceConfig describes one news source profile. Sites differ only in
// configuration, never in pipeline code.
type SourceConfig struct {
	Name    string `mapstructure:"name"    yaml:"name"`
	Adapter string `mapstructure:"adapter" yaml:"adapter"` // css, xpath
	Fetcher string `mapstructure:"fetcher" yaml:"fetcher"` // http, browser

	// URLs are the seed listing pages.
	URLs []string `mapstructure:"urls" yaml:"urls"`

	// PageTemplate appends pagination, e.g. ".../list?page=%d"; Pages is the
	// number of pages fetched per seed (0 or 1 means no pagination).
	PageTemplate string `mapstructure:"page_template" yaml:"page_template"`
	Pages        int    `mapstructure:"pages"         yaml:"pages"`

	List   ListRules   `mapstructure:"list"   yaml:"list"`
	Detail DetailRules `mapstructure:"detail" yaml:"detail"`
}

// Rule addresses one field inside a candidate fragment. An empty Attr reads
// the element text; "html" reads inner HTML (with <br> runs becoming
// newlines); any other value reads that attribute.
type Rule struct {
	Selector string `mapstructure:"selector" yaml:"selector"`
	Attr     string `mapstructure:"attr"     yaml:"attr"`
}

// ListRules extracts candidates from a listing page. Item selects the
// candidate fragments; the field rules apply within each fragment.
type ListRules struct {
	Item    string `mapstructure:"item"    yaml:"item"`
	Title   Rule   `mapstructure:"title"   yaml:"title"`
	Link    Rule   `mapstructure:"link"    yaml:"link"`
	Time    Rule   `mapstructure:"time"    yaml:"time"`
	Summary Rule   `mapstructure:"summary" yaml:"summary"`
	Img     Rule   `mapstructure:"img"     yaml:"img"`
}

// DetailRules extracts fields from an article's own page, for sources whose
// listings lack a usable timestamp or summary. All-empty rules disable the
// detail fetch.
type DetailRules struct {
	Time    Rule `mapstructure:"time"    yaml:"time"`
	Summary Rule `mapstructure:"summary" yaml:"summary"`
	Img     Rule `mapstructure:"img"     yaml:"img"`
}

// Enabled reports whether any detail rule is set.
func (d DetailRules) Enabled() bool {
	return d.Time.Selector != "" || d.Summary.Selector != "" || d.Img.Selector != ""
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns a Config with sensible defaults. Worker count and
// delays follow the observed per-site crawlers (3–5 workers, 1–2s politeness
// delay, 10–20s fetch timeout).
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Workers:        5,
			PageDelay:      1500 * time.Millisecond,
			RequestTimeout: 15 * time.Second,
			MaxRetries:     2,
			RetryDelay:     2 * time.Second,
		},
		Fetcher: FetcherConfig{
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Filter: FilterConfig{
			MinMatches:         2,
			MatchMode:          "substring",
			OnTimeParseFailure: "drop",
		},
		Store: StoreConfig{
			Dir: "./news_json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
