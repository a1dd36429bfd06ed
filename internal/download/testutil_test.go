// internal/download/testutil_test.go
package download

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/vmunix/animelib/internal/library"
	"github.com/vmunix/animelib/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Apply(context.Background(), db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// insertTestEpisodes adds one entry with n episodes and returns their IDs.
// Downloads reference episodes via foreign key.
func insertTestEpisodes(t *testing.T, db *sql.DB, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	lib := library.NewStore(db)

	a := library.NewAnime()
	a.Source = 2
	a.URL = "/anime/test"
	a.OgTitle = "Test"
	if err := lib.AddAnime(ctx, a); err != nil {
		t.Fatalf("add anime: %v", err)
	}

	ids := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		ep := &library.Episode{AnimeID: a.ID, URL: fmt.Sprintf("/ep/%d", i), EpisodeNumber: float64(i)}
		if err := lib.AddEpisode(ctx, ep); err != nil {
			t.Fatalf("add episode: %v", err)
		}
		ids = append(ids, ep.ID)
	}
	return ids
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
