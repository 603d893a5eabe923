package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/trailmark/internal/ui/components"
	"github.com/abhisek/trailmark/internal/ui/theme"
)

var progressCmd = &cobra.Command{
	Use:   "progress [module-id]",
	Short: "Show progress for every track, or step detail for one module",
	Args:  cobra.MaximumNArgs(1),
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

		if len(args) == 1 {
			mod, err := eng.Module(args[0])
			if err != nil {
				return err
			}
			stats, err := eng.ModuleProgressSummary(mod.ID)
			if err != nil {
				return err
			}
			lipgloss.Fprintln(w, theme.Title.Render(mod.Title))
			lipgloss.Fprintln(w, components.NewProgressBar("", stats.Percentage, true, 40).View())

			mp := eng.ModuleProgress(mod.ID)
			for _, s := range mod.Steps {
				mark := theme.Locked.Render("○")
				if mp != nil && mp.StepCompleted(s.ID) {
					mark = theme.Completed.Render("●")
				}
				lipgloss.Fprintf(w, "  %s %s %-28s %s\n", mark, s.Type.Icon(), s.Title, theme.Hint.Render(s.ID))
			}
			return nil
		}

		for _, t := range eng.Catalog().Tracks() {
			stats, err := eng.TrackProgressSummary(t.ID)
			if err != nil {
				return err
			}
			title := t.Title
			switch {
			case eng.IsTrackCompleted(t.ID):
				title = theme.Completed.Render(title + " ✓")
			case eng.IsTrackUnlocked(t.ID):
				title = theme.Unlocked.Render(title)
			default:
				title = theme.Locked.Render(fmt.Sprintf("%s (locked, %d XP)", title, t.XPRequired))
			}
			lipgloss.Fprintln(w, title)
			lipgloss.Fprintln(w, components.NewProgressBar(
				fmt.Sprintf("%2d/%-2d modules", stats.Completed, stats.Total),
				stats.Percentage, true, 50).View())
		}
		return nil
	},
}
