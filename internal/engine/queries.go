package engine

import (
	"github.com/abhisek/trailmark/internal/catalog"
	"github.com/abhisek/trailmark/internal/progress"
)

// ModuleStats summarizes step completion for one module.
type ModuleStats struct {
	Completed  int
	Total      int
	Percentage int
}

// TrackStats summarizes module completion and XP for one track.
type TrackStats struct {
	Completed  int
	Total      int
	Percentage int
	XPEarned   int
	XPTotal    int
}

// Module returns a catalog module by ID.
func (e *Engine) Module(id string) (catalog.Module, error) {
	return e.catalog.Module(id)
}

// ModulesByTrack returns a track's modules in the track's order.
func (e *Engine) ModulesByTrack(trackID string) ([]catalog.Module, error) {
	return e.catalog.ModulesByTrack(trackID)
}

// ModuleProgress returns a copy of the module's progress record, or nil if
// the module has never been started.
func (e *Engine) ModuleProgress(moduleID string) *progress.ModuleProgress {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modules[moduleID].Clone()
}

// ModuleProgressSummary counts completed steps against the catalog's step
// list. A module with no record reports zero completed.
func (e *Engine) ModuleProgressSummary(moduleID string) (ModuleStats, error) {
	mod, err := e.catalog.Module(moduleID)
	if err != nil {
		return ModuleStats{}, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.moduleStatsLocked(mod), nil
}

func (e *Engine) moduleStatsLocked(mod catalog.Module) ModuleStats {
	ids := mod.StepIDs()
	completed := 0
	if mp := e.modules[mod.ID]; mp != nil {
		completed = mp.CountCompleted(ids)
	}
	return ModuleStats{
		Completed:  completed,
		Total:      len(ids),
		Percentage: progress.Percentage(completed, len(ids)),
	}
}

// TrackProgressSummary counts completed modules and earned XP for a track.
func (e *Engine) TrackProgressSummary(trackID string) (TrackStats, error) {
	mods, err := e.catalog.ModulesByTrack(trackID)
	if err != nil {
		return TrackStats{}, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := TrackStats{Total: len(mods)}
	for _, m := range mods {
		stats.XPTotal += m.XPReward
		if e.user.CompletedModules.Has(m.ID) {
			stats.Completed++
			stats.XPEarned += m.XPReward
		}
	}
	stats.Percentage = progress.Percentage(stats.Completed, stats.Total)
	return stats, nil
}

// IsModuleCompleted reports whether the module has been completed.
func (e *Engine) IsModuleCompleted(moduleID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user.CompletedModules.Has(moduleID)
}

// IsTrackUnlocked reports whether the track is accessible.
func (e *Engine) IsTrackUnlocked(trackID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user.UnlockedTracks.Has(trackID)
}

// IsTrackCompleted reports whether every module of the track is completed.
// Unknown tracks are never completed.
func (e *Engine) IsTrackCompleted(trackID string) bool {
	t, err := e.catalog.Track(trackID)
	if err != nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trackCompletedLocked(t)
}

// CompletedModules returns the completed module IDs, sorted.
func (e *Engine) CompletedModules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user.CompletedModules.Sorted()
}

// UnlockedTracks returns the unlocked track IDs, sorted.
func (e *Engine) UnlockedTracks() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user.UnlockedTracks.Sorted()
}

// TotalXP returns the user's cumulative XP.
func (e *Engine) TotalXP() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user.TotalXP
}

// CurrentLevel returns the user's level.
func (e *Engine) CurrentLevel() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user.CurrentLevel
}

// EarnedBadges returns the earned badges in catalog track order.
func (e *Engine) EarnedBadges() []catalog.Badge {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var badges []catalog.Badge
	for _, b := range e.catalog.Badges() {
		if e.user.EarnedBadges.Has(b.ID) {
			badges = append(badges, b)
		}
	}
	return badges
}

// HasBadge reports whether the badge has been earned.
func (e *Engine) HasBadge(badgeID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user.EarnedBadges.Has(badgeID)
}

// NextUnlockThreshold returns the lowest XP threshold among tracks that are
// still locked. ok is false when every track is unlocked.
func (e *Engine) NextUnlockThreshold() (xp int, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, t := range e.catalog.Tracks() {
		if !e.user.UnlockedTracks.Has(t.ID) {
			return t.XPRequired, true
		}
	}
	return 0, false
}

// User returns a copy of the user aggregate.
func (e *Engine) User() progress.UserProgress {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.user.Clone()
}

// Snapshot returns a deep copy of the full progression state.
func (e *Engine) Snapshot() *progress.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() *progress.Snapshot {
	snap := &progress.Snapshot{
		Version:        progress.SnapshotVersion,
		CatalogVersion: e.catalog.Version(),
		Sequence:       e.seq,
		SavedAt:        e.savedAt,
		Progress:       make(map[string]*progress.ModuleProgress, len(e.modules)),
		User:           e.user.Clone(),
	}
	for id, mp := range e.modules {
		snap.Progress[id] = mp.Clone()
	}
	return snap
}
