package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/trailmark/internal/ui/components"
	"github.com/abhisek/trailmark/internal/ui/theme"
)

var completeCmd = &cobra.Command{
	Use:   "complete <module-id> <step-id>",
	Short: "Mark a step completed",
	Args:  cobra.ExactArgs(2),
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

		moduleID, stepID := args[0], args[1]
		out, err := b.engine.CompleteStep(cmd.Context(), moduleID, stepID)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		step, _ := b.engine.Catalog().Step(moduleID, stepID)
		if out.StepNewlyCompleted {
			lipgloss.Fprintln(w, theme.Completed.Render("✓ "+step.Title))
		} else {
			lipgloss.Fprintln(w, theme.Hint.Render(step.Title+" was already completed"))
		}

		stats, err := b.engine.ModuleProgressSummary(moduleID)
		if err != nil {
			return err
		}
		mod, _ := b.engine.Module(moduleID)
		lipgloss.Fprintln(w, components.NewProgressBar(mod.Title, stats.Percentage, true, 50).View())

		if out.ModuleCompleted {
			lipgloss.Fprintln(w, theme.Completed.Render(fmt.Sprintf("Module complete! +%d XP", out.XPAwarded)))
			if mod.Badge != nil {
				lipgloss.Fprintln(w, components.BadgeLine(mod.Badge.Icon, mod.Badge.Name, mod.Badge.Description, true))
			}
		}
		if out.LevelUp {
			lipgloss.Fprintln(w, theme.Unlocked.Render(fmt.Sprintf("Level up! You are now level %d", out.Level)))
		}
		for _, id := range out.UnlockedTracks {
			t, _ := b.engine.Catalog().Track(id)
			lipgloss.Fprintln(w, theme.Unlocked.Render("Unlocked track: "+t.Title))
		}
		for _, id := range out.EarnedBadges {
			for _, badge := range b.engine.Catalog().Badges() {
				if badge.ID == id {
					lipgloss.Fprintln(w, components.BadgeLine(badge.Icon, badge.Name, badge.Description, true))
				}
			}
		}
		if out.PersistErr != nil {
			lipgloss.Fprintln(cmd.ErrOrStderr(), theme.Warning.Render("warning: "+out.PersistErr.Error()))
		}
		return nil
	},
}
