package cmd

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static documentation site",
	Long: `Scans the docs directory (or reads the configured index file), renders every
page with its navigation sidebar and writes the static site to the output directory.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory")
	buildCmd.Flags().Bool("serve", false, "start a local HTTP server after generating")
	buildCmd.Flags().Int("port", 0, "port for the local server (defaults to server.port)")
	buildCmd.Flags().Bool("open", false, "open browser automatically when serving")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputDir, _ := cmd.Flags().GetString("output"); outputDir != "" {
		cfg.OutputDir = outputDir
	}

	serve, _ := cmd.Flags().GetBool("serve")
	if serve {
		return runDevServer(cmd, cfg, false)
	}

	db := openCache(cfg)
	if db != nil {
		defer db.Close()
	}
	_, err = buildSite(cmd.Context(), cfg, newGenerator(cfg, cfg.OutputDir, db), db)
	return err
}
