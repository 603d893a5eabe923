package engine

import (
	"github.com/abhisek/trailmark/internal/catalog"
	"github.com/abhisek/trailmark/internal/progress"
)

// restore installs a loaded snapshot, repairing derived fields that may
// have drifted. A nil snapshot starts fresh.
func (e *Engine) restore(snap *progress.Snapshot) {
	if snap == nil {
		snap = progress.NewSnapshot(e.catalog.Version())
	} else {
		snap = snap.Clone()
		snap.Normalize()
	}

	if snap.CatalogVersion != "" && !catalog.SameMajor(snap.CatalogVersion, e.catalog.Version()) {
		e.log.Warn("saved progress was recorded against a different catalog",
			"saved", snap.CatalogVersion, "current", e.catalog.Version())
	}

	e.modules = snap.Progress
	e.user = snap.User
	e.seq = snap.Sequence
	e.savedAt = snap.SavedAt

	if lvl := progress.LevelForXP(e.user.TotalXP); lvl != e.user.CurrentLevel {
		e.log.Warn("repaired stored level", "stored", e.user.CurrentLevel, "derived", lvl)
		e.user.CurrentLevel = lvl
	}

	for id, mp := range e.modules {
		if mp.IsCompleted() && e.user.CompletedModules.Add(id) {
			e.log.Warn("repaired completed module set", "module", id)
		}
	}
	// The reward for a module in the completed set was already granted, so
	// its record must be completed too or the next step would pay again.
	for _, id := range e.user.CompletedModules.Sorted() {
		if mp := e.modules[id]; mp == nil || !mp.IsCompleted() {
			e.completeRecord(id)
			e.log.Warn("repaired module record", "module", id)
		}
	}

	for _, t := range e.catalog.EntryTracks() {
		e.user.UnlockedTracks.Add(t.ID)
	}
	// Thresholds may have moved since the snapshot was written.
	for _, id := range e.unlockTracks() {
		e.log.Debug("track unlocked on load", "track", id)
	}

	for _, t := range e.catalog.Tracks() {
		if badge, ok := e.awardTrackBadge(t.ID); ok {
			e.log.Warn("repaired earned badge", "badge", badge.ID, "track", t.ID)
		}
	}

	for id := range e.modules {
		if _, err := e.catalog.Module(id); err != nil {
			e.log.Debug("keeping progress for module missing from catalog", "module", id)
		}
	}
}

// completeRecord marks a module record and all of its catalog steps
// completed, creating the record if needed.
func (e *Engine) completeRecord(moduleID string) {
	at := e.savedAt
	if at.IsZero() {
		at = e.now().UTC()
	}
	mp := e.modules[moduleID]
	if mp == nil {
		mp = progress.NewModuleProgress(moduleID, at)
		e.modules[moduleID] = mp
	}
	if mod, err := e.catalog.Module(moduleID); err == nil {
		for _, id := range mod.StepIDs() {
			mp.CompleteStep(id, at)
		}
	}
	mp.MarkCompleted(at)
}
