package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Kind    string    // exact event kind, empty for all
	TrackID string    // exact track, empty for all
}

// SnapshotRecord is a stored snapshot row. Data is the JSON-encoded
// progression state.
type SnapshotRecord struct {
	ID             int
	Sequence       int64
	Timestamp      time.Time
	CatalogVersion string
	Data           []byte
}

// SnapshotRepo manages progression state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *SnapshotRecord) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*SnapshotRecord, error)

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// ProgressEventData captures one progression event to append.
type ProgressEventData struct {
	Kind           string
	ModuleID       string
	StepID         string
	TrackID        string
	BadgeID        string
	XP             int
	CommitSequence int64
	Timestamp      time.Time
}

// ProgressEventRecord is a stored progression event.
type ProgressEventRecord struct {
	EventID        string
	Sequence       int64
	Timestamp      time.Time
	CommitSequence int64
	Kind           string
	ModuleID       string
	StepID         string
	TrackID        string
	BadgeID        string
	XP             int
}

// EventRepo provides append and query access to progression events.
type EventRepo interface {
	// AppendProgressEvent records one event under the next global sequence.
	AppendProgressEvent(ctx context.Context, data ProgressEventData) error

	// QueryProgressEvents returns events newest first.
	QueryProgressEvents(ctx context.Context, opts QueryOpts) ([]ProgressEventRecord, error)

	// ProgressEventCounts returns the number of events per kind and in total.
	ProgressEventCounts(ctx context.Context) (map[string]int, int, error)
}
