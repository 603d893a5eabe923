package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo with the ent SQL builder.
type snapshotRepo struct {
	conn dialect.ExecQuerier
}

func (r *snapshotRepo) Save(ctx context.Context, snap *SnapshotRecord) error {
	query, args := sqlite().Insert(snapshotsTable.Name).
		Columns("sequence", "timestamp", "catalog_version", "data").
		Values(snap.Sequence, snap.Timestamp, snap.CatalogVersion, string(snap.Data)).
		Query()
	if err := r.conn.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*SnapshotRecord, error) {
	query, args := sqlite().
		Select("id", "sequence", "timestamp", "catalog_version", "data").
		From(entsql.Table(snapshotsTable.Name)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest snapshot: %w", err)
		}
		return nil, nil
	}
	var s SnapshotRecord
	if err := rows.Scan(&s.ID, &s.Sequence, &s.Timestamp, &s.CatalogVersion, &s.Data); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	return &s, nil
}

func (r *snapshotRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.conn, snapshotsTable.Name)
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	// Find the ID threshold: the newest snapshot beyond the ones to keep.
	query, args := sqlite().
		Select("id").
		From(entsql.Table(snapshotsTable.Name)).
		OrderBy(entsql.Desc("id")).
		Offset(keep).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var threshold int
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if !found {
		return nil // fewer than keep snapshots exist
	}

	query, args = sqlite().Delete(snapshotsTable.Name).
		Where(entsql.LTE("id", threshold)).
		Query()
	if err := r.conn.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// countRows returns SELECT COUNT(*) for a table.
func countRows(ctx context.Context, conn dialect.ExecQuerier, table string) (int, error) {
	query, args := sqlite().
		Select(entsql.Count("*")).
		From(entsql.Table(table)).
		Query()

	var rows entsql.Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("count %s: %w", table, err)
		}
	}
	return n, rows.Err()
}
