// Package keywords supplies the include/exclude keyword lists the relevance
// filter runs against.
package keywords

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"newswatch/internal/config"
)

// Provider returns typed include/exclude keyword lists.
type Provider interface {
	Keywords() (include, exclude []string, err error)
}

// Static is a fixed keyword list, for inline config and tests.
type Static struct {
	Include []string
	Exclude []string
}

// Keywords implements Provider.
func (s Static) Keywords() ([]string, []string, error) {
	return s.Include, s.Exclude, nil
}

// fileFormat is the YAML shape of a keyword file.
type fileFormat struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// File reads keyword lists from a YAML file. A missing file yields empty
// lists (fail-open: the filter then accepts everything rather than silently
// dropping every article), logged as a warning.
type File struct {
	Path   string
	Logger *slog.Logger
}

// Keywords implements Provider.
func (f File) Keywords() ([]string, []string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			f.Logger.Warn("keyword file missing, filter will accept everything", "path", f.Path)
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read keyword file: %w", err)
	}

	var parsed fileFormat
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, nil, fmt.Errorf("parse keyword file %s: %w", f.Path, err)
	}
	return parsed.Include, parsed.Exclude, nil
}

// FromConfig builds the effective keyword lists: file entries (when a file
// is configured) concatenated with inline config entries.
func FromConfig(cfg config.KeywordsConfig, logger *slog.Logger) ([]string, []string, error) {
	include := append([]string(nil), cfg.Include...)
	exclude := append([]string(nil), cfg.Exclude...)

	if cfg.File != "" {
		fi, fe, err := (File{Path: cfg.File, Logger: logger}).Keywords()
		if err != nil {
			return nil, nil, err
		}
		include = append(include, fi...)
		exclude = append(exclude, fe...)
	}
	return include, exclude, nil
}
