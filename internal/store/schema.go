package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	snapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "catalog_version", Type: field.TypeString, Default: ""},
		{Name: "data", Type: field.TypeJSON},
	}
	// snapshotsTable holds full progression state, newest row last.
	snapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    snapshotsColumns,
		PrimaryKey: []*schema.Column{snapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshot_sequence", Columns: []*schema.Column{snapshotsColumns[1]}},
			{Name: "snapshot_timestamp", Columns: []*schema.Column{snapshotsColumns[2]}},
		},
	}

	progressEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "event_id", Type: field.TypeString, Size: 36, Unique: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "commit_sequence", Type: field.TypeInt64},
		{Name: "kind", Type: field.TypeString},
		{Name: "module_id", Type: field.TypeString, Default: ""},
		{Name: "step_id", Type: field.TypeString, Default: ""},
		{Name: "track_id", Type: field.TypeString, Default: ""},
		{Name: "badge_id", Type: field.TypeString, Default: ""},
		{Name: "xp", Type: field.TypeInt, Default: 0},
	}
	// progressEventsTable is the append-only progression history.
	progressEventsTable = &schema.Table{
		Name:       "progress_events",
		Columns:    progressEventsColumns,
		PrimaryKey: []*schema.Column{progressEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "progressevent_timestamp", Columns: []*schema.Column{progressEventsColumns[3]}},
			{Name: "progressevent_kind", Columns: []*schema.Column{progressEventsColumns[5]}},
			{Name: "progressevent_track_id", Columns: []*schema.Column{progressEventsColumns[8]}},
		},
	}

	tables = []*schema.Table{snapshotsTable, progressEventsTable}
)

// migrate creates or updates the ent-managed tables and the global
// sequence table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return err
	}
	return createSequenceTable(ctx, drv)
}

// sqlite returns a statement builder for the SQLite dialect.
func sqlite() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
