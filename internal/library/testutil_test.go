// internal/library/testutil_test.go
package library

import (
	"context"
	"database/sql"
	"testing"

	"github.com/vmunix/animelib/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every in-memory connection is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Apply(context.Background(), db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func newTestAnime(title string) *Anime {
	a := NewAnime()
	a.Source = 2
	a.URL = "/anime/" + title
	a.OgTitle = title
	return a
}

func addTestAnime(t *testing.T, s *Store, title string) *Anime {
	t.Helper()
	a := newTestAnime(title)
	if err := s.AddAnime(context.Background(), a); err != nil {
		t.Fatalf("AddAnime: %v", err)
	}
	return a
}
