// Package migrations provides embedded SQL migration files.
package migrations

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed sql/001_initial.sql
var InitialSQL string

//go:embed sql/002_preferences_events.sql
var Migration002PreferencesEvents string

//go:embed sql/003_downloads.sql
var Migration003Downloads string

// All lists the migrations in the order they must run.
// Every statement is idempotent.
var All = []string{InitialSQL, Migration002PreferencesEvents, Migration003Downloads}

// Apply runs every migration against db.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, m := range All {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %03d: %w", i+1, err)
		}
	}
	return nil
}
