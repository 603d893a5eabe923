package progress

import "time"

// EventKind identifies a progression event.
type EventKind string

const (
	EventStepCompleted   EventKind = "step-completed"
	EventModuleCompleted EventKind = "module-completed"
	EventTrackUnlocked   EventKind = "track-unlocked"
	EventBadgeEarned     EventKind = "badge-earned"
)

// Event records one progression change produced by a step completion.
type Event struct {
	Kind     EventKind
	ModuleID string
	StepID   string
	TrackID  string
	BadgeID  string
	XP       int // XP awarded, set on module-completed
	At       time.Time
}

// Commit is the unit written to durable storage after a step completion:
// the resulting snapshot and the events that produced it.
type Commit struct {
	Snapshot *Snapshot
	Events   []Event
}
