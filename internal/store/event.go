package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// The global sequence orders progression events across commits. It lives
// in its own single-row table and is advanced inside the same transaction
// that appends the events, so a failed save never burns numbers.
//
// Uses raw SQL outside the ent builder because the builder has no atomic
// increment-and-return.

// createSequenceTable ensures the tracking table exists and is seeded.
func createSequenceTable(ctx context.Context, conn dialect.ExecQuerier) error {
	err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`, []any{}, nil)
	if err != nil {
		return fmt.Errorf("create sequence table: %w", err)
	}

	err = conn.Exec(ctx, `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`, []any{}, nil)
	if err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

// nextSequence atomically returns the next sequence number and increments
// the counter.
func nextSequence(ctx context.Context, conn dialect.ExecQuerier) (int64, error) {
	var rows entsql.Rows
	err := conn.Query(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
		[]any{}, &rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	var seq int64
	if err := rows.Scan(&seq); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// resetSequence restarts the counter at 1.
func resetSequence(ctx context.Context, conn dialect.ExecQuerier) error {
	query, args := sqlite().Update("global_sequence").
		Set("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Query()
	if err := conn.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("reset sequence: %w", err)
	}
	return nil
}
