package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/trailmark/internal/catalog"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List modules (optionally filtered by track)",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		trackID, _ := cmd.Flags().GetString("track")

		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := b.Close(); err == nil {
				err = cerr
			}
		}()

		eng := b.engine
		var modules []catalog.Module
		if trackID != "" {
			if modules, err = eng.ModulesByTrack(trackID); err != nil {
				return err
			}
		} else {
			for _, t := range eng.Catalog().Tracks() {
				mods, err := eng.ModulesByTrack(t.ID)
				if err != nil {
					return err
				}
				modules = append(modules, mods...)
			}
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-22s  %-14s  %-32s  %5s  %6s  %s\n",
			"ID", "Track", "Title", "XP", "Steps", "Done")
		fmt.Fprintln(w, strings.Repeat("─", 96))

		for _, m := range modules {
			stats, err := eng.ModuleProgressSummary(m.ID)
			if err != nil {
				return err
			}
			done := fmt.Sprintf("%d%%", stats.Percentage)
			if eng.IsModuleCompleted(m.ID) {
				done = "✓"
			}
			fmt.Fprintf(w, "%-22s  %-14s  %-32s  %5d  %2d/%-3d  %s\n",
				m.ID, m.TrackID, truncate(m.Title, 32), m.XPReward,
				stats.Completed, stats.Total, done)
		}

		fmt.Fprintf(w, "\n%d modules\n", len(modules))
		return nil
	},
}

func init() {
	modulesCmd.Flags().String("track", "", "Filter by track ID (e.g. novice)")
}
