package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/trailmark/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent progression events",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		track, _ := cmd.Flags().GetString("track")
		since, _ := cmd.Flags().GetDuration("since")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := store.QueryOpts{Limit: limit, Kind: kind, TrackID: track}
		if since > 0 {
			opts.From = time.Now().UTC().Add(-since)
		}
		events, err := st.EventRepo().QueryProgressEvents(cmd.Context(), opts)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(w, "No events recorded yet")
			return nil
		}

		fmt.Fprintf(w, "%5s  %-19s  %-16s  %s\n", "Seq", "When", "Kind", "Detail")
		fmt.Fprintln(w, strings.Repeat("─", 80))
		for _, e := range events {
			fmt.Fprintf(w, "%5d  %-19s  %-16s  %s\n",
				e.Sequence, e.Timestamp.Local().Format(time.DateTime), e.Kind, eventDetail(e))
		}
		return nil
	},
}

// eventDetail summarizes the identifying fields of an event.
func eventDetail(e store.ProgressEventRecord) string {
	switch e.Kind {
	case "step-completed":
		return e.ModuleID + "/" + e.StepID
	case "module-completed":
		return fmt.Sprintf("%s (+%d XP)", e.ModuleID, e.XP)
	case "track-unlocked":
		return e.TrackID
	case "badge-earned":
		return e.BadgeID
	default:
		return ""
	}
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of events (0 = all)")
	historyCmd.Flags().String("kind", "", "Filter by event kind (e.g. module-completed)")
	historyCmd.Flags().String("track", "", "Filter by track ID")
	historyCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 24h)")
}
