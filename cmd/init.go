package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docnav configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure docnav for your project and generates a .docnav.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("Run `docnav build` to generate the site from %s.\n", cfg.DocsDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
