package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/nav"
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Print the navigation sidebar markup",
	Long: `Loads the docs index and prints the navigation sidebar as HTML, opened at the
given page and section. Without --doc and --section every entry is collapsed.`,
	RunE: runNav,
}

func init() {
	navCmd.Flags().String("doc", "", "key of the current page")
	navCmd.Flags().String("section", "", "key of the current section")
	navCmd.Flags().Bool("json", false, "print the docs index as JSON instead")
	rootCmd.AddCommand(navCmd)
}

func runNav(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db := openCache(cfg)
	if db != nil {
		defer db.Close()
	}
	ix, err := loadIndex(cmd.Context(), cfg, db)
	if err != nil {
		return fmt.Errorf("loading docs: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := ix.Docs.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	doc, _ := cmd.Flags().GetString("doc")
	section, _ := cmd.Flags().GetString("section")
	if _, ok := ix.Docs.Section(section); section != "" && !ok {
		fmt.Fprintf(os.Stderr, "Warning: no section %q; every section will be collapsed\n", section)
	}

	out, err := nav.RenderString(nav.NewRenderer(cfg.NavOptions()).Navigation(ix.Docs, doc, section))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
