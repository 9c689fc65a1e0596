package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ziadkadry99/docnav/internal/cache"
	"github.com/ziadkadry99/docnav/internal/config"
	"github.com/ziadkadry99/docnav/internal/docsindex"
	"github.com/ziadkadry99/docnav/internal/progress"
	"github.com/ziadkadry99/docnav/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docnav init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openCache opens the toc cache named in the config. A cache that cannot
// be opened only costs speed, so the failure is reported and nil returned.
func openCache(cfg *config.Config) *cache.DB {
	if cfg.CacheFile == "" {
		return nil
	}
	db, err := cache.Open(cfg.CacheFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cache disabled: %v\n", err)
		return nil
	}
	return db
}

// loadIndex builds the docs index from index_file when set, otherwise by
// scanning docs_dir.
func loadIndex(ctx context.Context, cfg *config.Config, db *cache.DB) (*docsindex.Index, error) {
	if cfg.IndexFile != "" {
		return docsindex.LoadFile(cfg.IndexFile)
	}
	if _, err := os.Stat(cfg.DocsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("docs directory not found at %s", cfg.DocsDir)
	}
	loader := docsindex.NewLoader(cfg.DocsDir, cfg.Include, cfg.Exclude)
	loader.Cache = db
	loader.Verbose = verbose
	return loader.Load(ctx)
}

// newGenerator creates a site generator for cfg writing to outputDir.
func newGenerator(cfg *config.Config, outputDir string, db *cache.DB) *site.SiteGenerator {
	gen := site.NewSiteGenerator(cfg.DocsDir, outputDir, cfg.Title, cfg.NavOptions())
	gen.HighlightStyle = cfg.HighlightStyle
	gen.Cache = db
	gen.Reporter = progress.NewReporter()
	gen.Verbose = verbose
	return gen
}

// buildSite loads the index and generates the site, printing a summary.
func buildSite(ctx context.Context, cfg *config.Config, gen *site.SiteGenerator, db *cache.DB) (*docsindex.Index, error) {
	ix, err := loadIndex(ctx, cfg, db)
	if err != nil {
		return nil, fmt.Errorf("loading docs: %w", err)
	}
	count, err := gen.Generate(ctx, ix)
	if err != nil {
		return nil, fmt.Errorf("generating site: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Static site generated: %s (%d pages in %d sections)\n", gen.OutputDir, count, len(ix.Docs))
	return ix, nil
}
