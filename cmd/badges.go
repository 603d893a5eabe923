package cmd

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/trailmark/internal/ui/components"
	"github.com/abhisek/trailmark/internal/ui/theme"
)

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show track badges and module keepsakes",
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

		lipgloss.Fprintln(w, theme.Title.Render("Track badges"))
		for _, badge := range eng.Catalog().Badges() {
			lipgloss.Fprintln(w, "  "+components.BadgeLine(badge.Icon, badge.Name, badge.Description, eng.HasBadge(badge.ID)))
		}

		// Module badges are display-only: shown once their module is done.
		var keepsakes []string
		for _, m := range eng.Catalog().Modules() {
			if m.Badge == nil || !eng.IsModuleCompleted(m.ID) {
				continue
			}
			keepsakes = append(keepsakes, "  "+components.BadgeLine(m.Badge.Icon, m.Badge.Name, m.Badge.Description, true))
		}
		if len(keepsakes) > 0 {
			lipgloss.Fprintln(w)
			lipgloss.Fprintln(w, theme.Title.Render("Module keepsakes"))
			for _, k := range keepsakes {
				lipgloss.Fprintln(w, k)
			}
		}
		return nil
	},
}
