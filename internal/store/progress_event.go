package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// eventRepo implements EventRepo with the ent SQL builder.
type eventRepo struct {
	conn dialect.ExecQuerier
}

func (r *eventRepo) AppendProgressEvent(ctx context.Context, data ProgressEventData) error {
	seqNum, err := nextSequence(ctx, r.conn)
	if err != nil {
		return err
	}

	query, args := sqlite().Insert(progressEventsTable.Name).
		Columns("event_id", "sequence", "timestamp", "commit_sequence",
			"kind", "module_id", "step_id", "track_id", "badge_id", "xp").
		Values(uuid.NewString(), seqNum, data.Timestamp, data.CommitSequence,
			data.Kind, data.ModuleID, data.StepID, data.TrackID, data.BadgeID, data.XP).
		Query()
	if err := r.conn.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save progress event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryProgressEvents(ctx context.Context, opts QueryOpts) ([]ProgressEventRecord, error) {
	t := entsql.Table(progressEventsTable.Name)
	sel := sqlite().
		Select(
			t.C("event_id"), t.C("sequence"), t.C("timestamp"), t.C("commit_sequence"),
			t.C("kind"), t.C("module_id"), t.C("step_id"), t.C("track_id"), t.C("badge_id"), t.C("xp"),
		).
		From(t).
		OrderBy(entsql.Desc(t.C("sequence")))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("timestamp"), opts.From))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("timestamp"), opts.To))
	}
	if opts.Kind != "" {
		preds = append(preds, entsql.EQ(t.C("kind"), opts.Kind))
	}
	if opts.TrackID != "" {
		preds = append(preds, entsql.EQ(t.C("track_id"), opts.TrackID))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query progress events: %w", err)
	}
	defer rows.Close()

	var records []ProgressEventRecord
	for rows.Next() {
		var e ProgressEventRecord
		if err := rows.Scan(&e.EventID, &e.Sequence, &e.Timestamp, &e.CommitSequence,
			&e.Kind, &e.ModuleID, &e.StepID, &e.TrackID, &e.BadgeID, &e.XP); err != nil {
			return nil, fmt.Errorf("scan progress event: %w", err)
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query progress events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) ProgressEventCounts(ctx context.Context) (map[string]int, int, error) {
	query, args := sqlite().
		Select("kind", entsql.Count("*")).
		From(entsql.Table(progressEventsTable.Name)).
		GroupBy("kind").
		Query()

	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, 0, fmt.Errorf("count progress events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	total := 0
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, 0, fmt.Errorf("scan event count: %w", err)
		}
		counts[kind] = n
		total += n
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("count progress events: %w", err)
	}
	return counts, total, nil
}
