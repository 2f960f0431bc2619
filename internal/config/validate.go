package config

import (
	"fmt"
)

// Validate checks cross-field consistency after loading.
func (c *Config) Validate() error {
	if c.Engine.Workers <= 0 {
		return fmt.Errorf("engine.workers must be positive, got %d", c.Engine.Workers)
	}
	if c.Engine.RequestTimeout <= 0 {
		return fmt.Errorf("engine.request_timeout must be positive, got %s", c.Engine.RequestTimeout)
	}
	if c.Engine.MaxRetries < 0 {
		return fmt.Errorf("engine.max_retries must not be negative, got %d", c.Engine.MaxRetries)
	}
	if c.Engine.ReferenceYear < 0 {
		return fmt.Errorf("engine.reference_year must not be negative, got %d", c.Engine.ReferenceYear)
	}
	if c.Filter.MinMatches < 1 {
		return fmt.Errorf("filter.min_matches must be at least 1, got %d", c.Filter.MinMatches)
	}

	switch c.Filter.MatchMode {
	case "", "substring", "word":
	default:
		return fmt.Errorf("filter.match_mode must be substring or word, got %q", c.Filter.MatchMode)
	}
	switch c.Filter.OnTimeParseFailure {
	case "", "drop", "now":
	default:
		return fmt.Errorf("filter.on_time_parse_failure must be drop or now, got %q", c.Filter.OnTimeParseFailure)
	}

	names := make(map[string]struct{}, len(c.Sources))
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("sources[%d]: name is required", i)
		}
		if _, dup := names[src.Name]; dup {
			return fmt.Errorf("sources[%d]: duplicate source name %q", i, src.Name)
		}
		names[src.Name] = struct{}{}

		switch src.Adapter {
		case "", "css", "xpath":
		default:
			return fmt.Errorf("source %q: adapter must be css or xpath, got %q", src.Name, src.Adapter)
		}
		switch src.Fetcher {
		case "", "http", "browser":
		default:
			return fmt.Errorf("source %q: fetcher must be http or browser, got %q", src.Name, src.Fetcher)
		}
		if len(src.URLs) == 0 && src.PageTemplate == "" {
			return fmt.Errorf("source %q: at least one seed URL is required", src.Name)
		}
		if src.List.Item == "" {
			return fmt.Errorf("source %q: list.item selector is required", src.Name)
		}
		if src.List.Title.Selector == "" && src.List.Link.Selector == "" {
			return fmt.Errorf("source %q: a title or link rule is required", src.Name)
		}
	}

	return nil
}
