package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/trailmark/internal/progress"
	"github.com/abhisek/trailmark/internal/ui/components"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, level, and progression statistics",
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

		eng := b.engine
		user := eng.User()
		cat := eng.Catalog()

		next := "all tracks unlocked"
		if xp, ok := eng.NextUnlockThreshold(); ok {
			next = fmt.Sprintf("%d XP (%d to go)", xp, xp-user.TotalXP)
		}

		const kw = 18
		lines := []string{
			components.KeyValue("Total XP", strconv.Itoa(user.TotalXP), kw),
			components.KeyValue("Level", strconv.Itoa(user.CurrentLevel), kw),
			components.KeyValue("Next level in", fmt.Sprintf("%d XP", progress.XPToNextLevel(user.TotalXP)), kw),
			components.KeyValue("Next unlock", next, kw),
			components.KeyValue("Modules", fmt.Sprintf("%d/%d", len(user.CompletedModules), len(cat.Modules())), kw),
			components.KeyValue("Tracks unlocked", fmt.Sprintf("%d/%d", len(user.UnlockedTracks), len(cat.Tracks())), kw),
			components.KeyValue("Badges", fmt.Sprintf("%d/%d", len(user.EarnedBadges), len(cat.Badges())), kw),
		}

		counts, total, err := b.store.EventRepo().ProgressEventCounts(cmd.Context())
		if err != nil {
			return err
		}
		lines = append(lines, components.KeyValue("Events logged", strconv.Itoa(total), kw))
		for _, kind := range []progress.EventKind{
			progress.EventStepCompleted,
			progress.EventModuleCompleted,
			progress.EventTrackUnlocked,
			progress.EventBadgeEarned,
		} {
			lines = append(lines, components.KeyValue("  "+string(kind), strconv.Itoa(counts[string(kind)]), kw))
		}

		lipgloss.Fprintln(cmd.OutOrStdout(), components.Card("Trail stats", lines, 48))
		return nil
	},
}
