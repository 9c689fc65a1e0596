package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/config"
	"github.com/ziadkadry99/docnav/internal/docsindex"
	"github.com/ziadkadry99/docnav/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it with live reload",
	Long: `Builds the site, serves it locally and rebuilds whenever a page in the docs
directory changes. Open pages reload automatically after each rebuild.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runDevServer(cmd, cfg, true)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port for the dev server (defaults to server.port)")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	rootCmd.AddCommand(serveCmd)
}

// runDevServer builds the site once and serves it until interrupted. With
// watch set, changes below docs_dir trigger a rebuild and a browser reload.
func runDevServer(cmd *cobra.Command, cfg *config.Config, watch bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := cfg.Server.Port
	if p, _ := cmd.Flags().GetInt("port"); p != 0 {
		port = p
	}
	open, _ := cmd.Flags().GetBool("open")

	db := openCache(cfg)
	if db != nil {
		defer db.Close()
	}

	gen := newGenerator(cfg, cfg.OutputDir, db)
	gen.LiveReload = watch
	build := func(ctx context.Context) (*docsindex.Index, error) {
		return buildSite(ctx, cfg, gen, db)
	}

	var ignore []string
	if dir := filepath.Dir(cfg.CacheFile); cfg.CacheFile != "" && dir != "." {
		ignore = append(ignore, dir)
	}
	srv := site.NewServer(site.ServerConfig{
		Port:       port,
		OutputDir:  cfg.OutputDir,
		AllowAll:   cfg.Server.AllowAllOrigins,
		IgnoreDirs: ignore,
	}, build, gen.Nav, db)
	if err := srv.Rebuild(ctx); err != nil {
		return err
	}

	if watch && cfg.IndexFile == "" {
		go func() {
			if err := srv.Watch(ctx, cfg.DocsDir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: not watching %s: %v\n", cfg.DocsDir, err)
			}
		}()
	}

	url := fmt.Sprintf("http://localhost:%d", port)
	fmt.Fprintf(os.Stderr, "Serving at %s, press Ctrl+C to stop\n", url)
	if open {
		site.OpenBrowser(url)
	}
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}
