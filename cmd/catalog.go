package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/trailmark/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the learning catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a catalog file (default: the configured catalog)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			cat *catalog.Catalog
			err error
		)
		if len(args) == 1 {
			cat, err = catalog.LoadFile(args[0])
		} else {
			cat, err = loadCatalog()
		}
		if err != nil {
			return err
		}

		steps := 0
		for _, m := range cat.Modules() {
			steps += len(m.Steps)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "catalog %s OK: %d tracks, %d modules, %d steps\n",
			cat.Version(), len(cat.Tracks()), len(cat.Modules()), steps)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
}
