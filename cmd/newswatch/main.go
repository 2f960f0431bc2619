package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"newswatch/internal/config"
	"newswatch/internal/engine"
	"newswatch/internal/source"
)

var (
	cfgFile      string
	verbose      bool
	workers      int
	pageDelay    string
	storeDir     string
	keywordsFile string
	minMatches   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newswatch",
		Short: "newswatch is a keyword-driven Korean news archiver",
		Long: `newswatch crawls configured news sources, keeps only articles matching a
keyword list, normalizes publication times to KST, and appends the results to
per-source, date-bucketed JSON archives.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(crawlCmd())
	rootCmd.AddCommand(sourcesCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// crawlCmd creates the "crawl" subcommand.
func crawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [source...]",
		Short: "Crawl news sources and update the archives",
		Long: `Crawl the named sources, or every configured source when none are named.
Each source's archive under the store directory is loaded, extended with
newly discovered matching articles, and rewritten atomically.`,
		RunE: runCrawl,
	}

	cmd.Flags().IntVarP(&workers, "workers", "n", 0, "worker pool size (0 = config default)")
	cmd.Flags().StringVar(&pageDelay, "delay", "", "politeness delay between listing pages, e.g. 1500ms")
	cmd.Flags().StringVarP(&storeDir, "store-dir", "o", "", "archive directory")
	cmd.Flags().StringVarP(&keywordsFile, "keywords", "k", "", "keywords YAML file")
	cmd.Flags().IntVar(&minMatches, "min-matches", 0, "keyword hits required per article (0 = config default)")

	return cmd
}

// runCrawl executes the crawl command.
func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging)

	sources, err := selectSources(cfg, args)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn("shutdown cleanup failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	logger.Info("starting crawl",
		"sources", strings.Join(names, ","),
		"workers", cfg.Engine.Workers,
		"store_dir", cfg.Store.Dir,
	)

	start := time.Now()
	runErr := eng.Run(ctx, sources)

	stats := eng.Stats().Snapshot()
	fmt.Printf("\nCrawl finished in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("   Pages:     %v fetched\n", stats["pages_fetched"])
	fmt.Printf("   Articles:  %v new (%v candidates, %v duplicates, %v off-topic)\n",
		stats["articles_merged"], stats["candidates_seen"], stats["duplicates"], stats["irrelevant"])
	fmt.Printf("   Archives:  %s\n", cfg.Store.Dir)

	if runErr != nil {
		return fmt.Errorf("crawl: %w", runErr)
	}
	return nil
}

// sourcesCmd creates the "sources" subcommand.
func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List available source profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			for _, s := range effectiveSources(cfg) {
				fetcherKind := s.Fetcher
				if fetcherKind == "" {
					fetcherKind = "http"
				}
				adapterKind := s.Adapter
				if adapterKind == "" {
					adapterKind = "css"
				}
				fmt.Printf("%-12s %-6s %-8s %d seed(s)\n", s.Name, adapterKind, fetcherKind, len(source.PageURLs(s)))
			}
			return nil
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Engine:\n")
			fmt.Printf("  Workers:          %d\n", cfg.Engine.Workers)
			fmt.Printf("  Page Delay:       %s\n", cfg.Engine.PageDelay)
			fmt.Printf("  Request Timeout:  %s\n", cfg.Engine.RequestTimeout)
			fmt.Printf("  Max Retries:      %d\n", cfg.Engine.MaxRetries)
			fmt.Printf("\nFilter:\n")
			fmt.Printf("  Min Matches:      %d\n", cfg.Filter.MinMatches)
			fmt.Printf("  Match Mode:       %s\n", cfg.Filter.MatchMode)
			fmt.Printf("  On Bad Time:      %s\n", cfg.Filter.OnTimeParseFailure)
			fmt.Printf("\nKeywords:\n")
			fmt.Printf("  File:             %s\n", cfg.Keywords.File)
			fmt.Printf("  Inline Include:   %d\n", len(cfg.Keywords.Include))
			fmt.Printf("  Inline Exclude:   %d\n", len(cfg.Keywords.Exclude))
			fmt.Printf("\nStore:\n")
			fmt.Printf("  Directory:        %s\n", cfg.Store.Dir)
			fmt.Printf("  Mongo Mirror:     %v\n", cfg.Store.MongoURI != "")
			fmt.Printf("\nSources:           %d configured\n", len(effectiveSources(cfg)))
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newswatch %s\n", config.Version)
		},
	}
}

// loadConfig loads the config file and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if workers > 0 {
		cfg.Engine.Workers = workers
	}
	if pageDelay != "" {
		d, err := time.ParseDuration(pageDelay)
		if err != nil {
			return nil, fmt.Errorf("invalid --delay: %w", err)
		}
		cfg.Engine.PageDelay = d
	}
	if storeDir != "" {
		cfg.Store.Dir = storeDir
	}
	if keywordsFile != "" {
		cfg.Keywords.File = keywordsFile
	}
	if minMatches > 0 {
		cfg.Filter.MinMatches = minMatches
	}
	return cfg, nil
}

// effectiveSources returns the configured profiles, falling back to the
// built-in ones when the config names none.
func effectiveSources(cfg *config.Config) []config.SourceConfig {
	if len(cfg.Sources) > 0 {
		return cfg.Sources
	}
	return source.BuiltinSources()
}

// selectSources resolves the crawl arguments against the available profiles.
// No arguments means every profile.
func selectSources(cfg *config.Config, names []string) ([]config.SourceConfig, error) {
	available := effectiveSources(cfg)
	if len(names) == 0 {
		return available, nil
	}
	var picked []config.SourceConfig
	for _, name := range names {
		src, ok := source.FindSource(available, name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q (try \"newswatch sources\")", name)
		}
		picked = append(picked, src)
	}
	return picked, nil
}

// setupLogger builds the slog logger from config; --verbose forces debug.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	out := os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}
