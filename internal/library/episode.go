package library

import (
	"context"
	"fmt"
	"strings"
)

const episodeColumns = `id, anime_id, seen, bookmark, fillermark, last_second_seen, total_seconds,
	date_fetch, source_order, url, name, date_upload, episode_number, scanlator, last_modified_at`

func scanEpisode(row rowScanner) (*Episode, error) {
	e := &Episode{}
	err := row.Scan(&e.ID, &e.AnimeID, &e.Seen, &e.Bookmark, &e.Fillermark, &e.LastSecondSeen, &e.TotalSeconds,
		&e.DateFetch, &e.SourceOrder, &e.URL, &e.Name, &e.DateUpload, &e.EpisodeNumber, &e.Scanlator, &e.LastModifiedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

const insertEpisodeSQL = `
	INSERT INTO episodes (anime_id, seen, bookmark, fillermark, last_second_seen, total_seconds,
		date_fetch, source_order, url, name, date_upload, episode_number, scanlator, last_modified_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func episodeArgs(e *Episode, now int64) []any {
	return []any{e.AnimeID, e.Seen, e.Bookmark, e.Fillermark, e.LastSecondSeen, e.TotalSeconds,
		e.DateFetch, e.SourceOrder, e.URL, e.Name, e.DateUpload, e.EpisodeNumber, e.Scanlator, now}
}

func addEpisode(ctx context.Context, q querier, e *Episode) error {
	now := nowMillis()
	result, err := q.ExecContext(ctx, insertEpisodeSQL, episodeArgs(e, now)...)
	if err != nil {
		return fmt.Errorf("insert episode: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	e.LastModifiedAt = now
	return nil
}

// AddEpisode inserts a new episode into the database.
// Sets ID on the struct.
func (s *Store) AddEpisode(ctx context.Context, e *Episode) error { return addEpisode(ctx, s.db, e) }

// AddEpisode inserts a new episode within a transaction.
func (t *Tx) AddEpisode(ctx context.Context, e *Episode) error { return addEpisode(ctx, t.tx, e) }

func getEpisode(ctx context.Context, q querier, id int64) (*Episode, error) {
	e, err := scanEpisode(q.QueryRowContext(ctx, "SELECT "+episodeColumns+" FROM episodes WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, mapSQLiteError(err))
	}
	return e, nil
}

// GetEpisode retrieves an episode by ID.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) GetEpisode(ctx context.Context, id int64) (*Episode, error) {
	return getEpisode(ctx, s.db, id)
}

// GetEpisode retrieves an episode by ID within a transaction.
func (t *Tx) GetEpisode(ctx context.Context, id int64) (*Episode, error) {
	return getEpisode(ctx, t.tx, id)
}

func listEpisodes(ctx context.Context, q querier, f EpisodeFilter) ([]*Episode, int, error) {
	var conditions []string
	var args []any

	if f.AnimeID != nil {
		conditions = append(conditions, "anime_id = ?")
		args = append(args, *f.AnimeID)
	}
	if f.Seen != nil {
		conditions = append(conditions, "seen = ?")
		args = append(args, *f.Seen)
	}
	if f.Bookmark != nil {
		conditions = append(conditions, "bookmark = ?")
		args = append(args, *f.Bookmark)
	}
	if f.Fillermark != nil {
		conditions = append(conditions, "fillermark = ?")
		args = append(args, *f.Fillermark)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM episodes "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count episodes: %w", err)
	}

	query := "SELECT " + episodeColumns + " FROM episodes " + whereClause + " ORDER BY anime_id, source_order"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate episodes: %w", err)
	}

	return results, total, nil
}

// ListEpisodes returns episodes matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListEpisodes(ctx context.Context, f EpisodeFilter) ([]*Episode, int, error) {
	return listEpisodes(ctx, s.db, f)
}

// ListEpisodes returns episodes matching the filter within a transaction.
func (t *Tx) ListEpisodes(ctx context.Context, f EpisodeFilter) ([]*Episode, int, error) {
	return listEpisodes(ctx, t.tx, f)
}

func updateEpisode(ctx context.Context, q querier, u EpisodeUpdate) error {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if u.AnimeID != nil {
		set("anime_id", *u.AnimeID)
	}
	if u.Seen != nil {
		set("seen", *u.Seen)
	}
	if u.Bookmark != nil {
		set("bookmark", *u.Bookmark)
	}
	if u.Fillermark != nil {
		set("fillermark", *u.Fillermark)
	}
	if u.LastSecondSeen != nil {
		set("last_second_seen", *u.LastSecondSeen)
	}
	if u.TotalSeconds != nil {
		set("total_seconds", *u.TotalSeconds)
	}
	if u.DateFetch != nil {
		set("date_fetch", *u.DateFetch)
	}
	if u.SourceOrder != nil {
		set("source_order", *u.SourceOrder)
	}
	if u.URL != nil {
		set("url", *u.URL)
	}
	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.DateUpload != nil {
		set("date_upload", *u.DateUpload)
	}
	if u.EpisodeNumber != nil {
		set("episode_number", *u.EpisodeNumber)
	}
	if u.Scanlator != nil {
		set("scanlator", *u.Scanlator)
	}
	set("last_modified_at", nowMillis())
	args = append(args, u.ID)

	result, err := q.ExecContext(ctx, "UPDATE episodes SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update episode %d: %w", u.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update episode %d: %w", u.ID, ErrNotFound)
	}
	return nil
}

// UpdateEpisode applies a partial update to an episode.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) UpdateEpisode(ctx context.Context, u EpisodeUpdate) error {
	return updateEpisode(ctx, s.db, u)
}

// UpdateEpisode applies a partial update within a transaction.
func (t *Tx) UpdateEpisode(ctx context.Context, u EpisodeUpdate) error {
	return updateEpisode(ctx, t.tx, u)
}

// UpdateAllEpisodes applies every update in one transaction.
func (s *Store) UpdateAllEpisodes(ctx context.Context, us []EpisodeUpdate) error {
	if len(us) == 0 {
		return nil
	}
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range us {
		if err := tx.UpdateEpisode(ctx, u); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func deleteEpisode(ctx context.Context, q querier, id int64) error {
	_, err := q.ExecContext(ctx, "DELETE FROM episodes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete episode %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteEpisode removes an episode by ID.
// This operation is idempotent - no error is returned if the episode does not exist.
func (s *Store) DeleteEpisode(ctx context.Context, id int64) error { return deleteEpisode(ctx, s.db, id) }

// DeleteEpisode removes an episode by ID within a transaction.
func (t *Tx) DeleteEpisode(ctx context.Context, id int64) error { return deleteEpisode(ctx, t.tx, id) }

// EpisodeStats summarizes the episodes of an entry.
type EpisodeStats struct {
	Total      int
	Unseen     int
	Bookmarked int
	// LatestUpload is the newest upload date in epoch millis, 0 without episodes.
	LatestUpload int64
}

// GetEpisodeStats returns episode statistics for an entry.
func (s *Store) GetEpisodeStats(ctx context.Context, animeID int64) (*EpisodeStats, error) {
	stats := &EpisodeStats{}

	// COALESCE handles entries without episodes
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN seen = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN bookmark = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(MAX(date_upload), 0)
		FROM episodes
		WHERE anime_id = ?`, animeID,
	).Scan(&stats.Total, &stats.Unseen, &stats.Bookmarked, &stats.LatestUpload)
	if err != nil {
		return nil, fmt.Errorf("get episode stats: %w", err)
	}

	return stats, nil
}

// BulkAddEpisodes inserts multiple episodes efficiently.
// Skips episodes that already exist (by anime_id, url).
// Returns the count of newly inserted episodes.
func (s *Store) BulkAddEpisodes(ctx context.Context, episodes []*Episode) (int, error) {
	if len(episodes) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, strings.Replace(insertEpisodeSQL, "INSERT INTO", "INSERT OR IGNORE INTO", 1))
	if err != nil {
		return 0, fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := nowMillis()
	inserted := 0
	for _, e := range episodes {
		result, err := stmt.ExecContext(ctx, episodeArgs(e, now)...)
		if err != nil {
			return inserted, fmt.Errorf("insert episode %q: %w", e.URL, mapSQLiteError(err))
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			inserted++
			if id, err := result.LastInsertId(); err == nil {
				e.ID = id
				e.LastModifiedAt = now
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}
