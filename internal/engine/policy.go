package engine

import "github.com/abhisek/trailmark/internal/catalog"

// unlockTracks adds every track whose threshold the current XP meets and
// returns the newly unlocked IDs in unlock order. Unlocks are sticky.
func (e *Engine) unlockTracks() []string {
	var unlocked []string
	for _, t := range e.catalog.Tracks() {
		if e.user.TotalXP < t.XPRequired {
			continue
		}
		if e.user.UnlockedTracks.Add(t.ID) {
			unlocked = append(unlocked, t.ID)
		}
	}
	return unlocked
}

// awardTrackBadge grants the track's badge once all its modules are
// completed. It reports whether the badge was newly earned.
func (e *Engine) awardTrackBadge(trackID string) (catalog.Badge, bool) {
	t, err := e.catalog.Track(trackID)
	if err != nil {
		return catalog.Badge{}, false
	}
	if !e.trackCompletedLocked(t) {
		return catalog.Badge{}, false
	}
	if !e.user.EarnedBadges.Add(t.Badge.ID) {
		return catalog.Badge{}, false
	}
	return t.Badge, true
}

func (e *Engine) trackCompletedLocked(t catalog.Track) bool {
	if len(t.ModuleIDs) == 0 {
		return false
	}
	for _, id := range t.ModuleIDs {
		if !e.user.CompletedModules.Has(id) {
			return false
		}
	}
	return true
}
