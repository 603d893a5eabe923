package store

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"

	"github.com/abhisek/trailmark/internal/progress"
)

// DefaultSnapshotKeep is the number of snapshots kept after each save.
const DefaultSnapshotKeep = 20

// ProgressStore persists engine commits: one snapshot row plus the
// commit's events, written in a single transaction.
type ProgressStore struct {
	store *Store
	keep  int
}

// ProgressStore returns the engine persistence adapter for this store.
// keep bounds the snapshot history; zero or less keeps everything.
func (s *Store) ProgressStore(keep int) *ProgressStore {
	return &ProgressStore{store: s, keep: keep}
}

// Load returns the most recent snapshot, or nil if none has been saved.
func (p *ProgressStore) Load(ctx context.Context) (*progress.Snapshot, error) {
	rec, err := p.store.SnapshotRepo().Latest(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	var snap progress.Snapshot
	if err := json.Unmarshal(rec.Data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %d: %w", rec.ID, err)
	}
	if snap.Version > progress.SnapshotVersion {
		return nil, fmt.Errorf("snapshot format %d is newer than supported %d", snap.Version, progress.SnapshotVersion)
	}
	return &snap, nil
}

// Save writes the commit's snapshot and events atomically, then prunes old
// snapshots in the same transaction.
func (p *ProgressStore) Save(ctx context.Context, commit progress.Commit) error {
	if commit.Snapshot == nil {
		return fmt.Errorf("commit has no snapshot")
	}
	data, err := json.Marshal(commit.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return p.store.withTx(ctx, func(tx dialect.Tx) error {
		snaps := &snapshotRepo{conn: tx}
		err := snaps.Save(ctx, &SnapshotRecord{
			Sequence:       commit.Snapshot.Sequence,
			Timestamp:      commit.Snapshot.SavedAt.UTC(),
			CatalogVersion: commit.Snapshot.CatalogVersion,
			Data:           data,
		})
		if err != nil {
			return err
		}

		events := &eventRepo{conn: tx}
		for _, ev := range commit.Events {
			err := events.AppendProgressEvent(ctx, ProgressEventData{
				Kind:           string(ev.Kind),
				ModuleID:       ev.ModuleID,
				StepID:         ev.StepID,
				TrackID:        ev.TrackID,
				BadgeID:        ev.BadgeID,
				XP:             ev.XP,
				CommitSequence: commit.Snapshot.Sequence,
				Timestamp:      ev.At.UTC(),
			})
			if err != nil {
				return err
			}
		}

		return snaps.Prune(ctx, p.keep)
	})
}
