package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List tracks with unlock thresholds and completion",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := b.Close(); err == nil {
				err = cerr
			}
		}()

		w := cmd.OutOrStdout()
		eng := b.engine

		fmt.Fprintf(w, "%-16s  %-14s  %-30s  %7s  %-9s  %s\n",
			"ID", "Level", "Title", "XP req", "Status", "Modules")
		fmt.Fprintln(w, strings.Repeat("─", 96))

		for _, t := range eng.Catalog().Tracks() {
			stats, err := eng.TrackProgressSummary(t.ID)
			if err != nil {
				return err
			}
			status := "locked"
			switch {
			case eng.IsTrackCompleted(t.ID):
				status = "completed"
			case eng.IsTrackUnlocked(t.ID):
				status = "unlocked"
			}
			fmt.Fprintf(w, "%-16s  %-14s  %-30s  %7d  %-9s  %d/%d\n",
				t.ID, t.Level.DisplayName(), truncate(t.Title, 30), t.XPRequired,
				status, stats.Completed, stats.Total)
		}

		if next, ok := eng.NextUnlockThreshold(); ok {
			fmt.Fprintf(w, "\nNext unlock at %d XP (you have %d)\n", next, eng.TotalXP())
		} else {
			fmt.Fprintln(w, "\nAll tracks unlocked")
		}
		return nil
	},
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
