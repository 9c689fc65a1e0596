package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docnav",
	Short: "Static documentation sites with a collapsible navigation sidebar",
	Long: `docnav turns a directory of markdown pages, grouped into sections, into a
static documentation site. Every page embeds a navigation sidebar listing the
sections, their pages and each page's headings, opened at the current page.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
