package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

func nowMillis() int64 { return time.Now().UnixMilli() }

const animeColumns = `a.id, a.source, a.favorite, a.last_update, a.next_update, a.fetch_interval,
	a.date_added, a.viewer_flags, a.episode_flags, a.cover_last_modified, a.url, a.title,
	a.artist, a.author, a.description, a.genre, a.status, a.thumbnail_url, a.update_strategy,
	a.initialized, a.last_modified_at, a.favorite_modified_at,
	c.anime_id, c.title, c.author, c.artist, c.description, c.genre, c.status`

const animeFrom = ` FROM anime a LEFT JOIN custom_anime_info c ON c.anime_id = a.id `

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnime(row rowScanner) (*Anime, error) {
	a := &Anime{}
	var (
		viewer, episode int64
		genre           *string
		customID        *int64
		ci              CustomInfo
		customGenre     *string
	)
	err := row.Scan(&a.ID, &a.Source, &a.Favorite, &a.LastUpdate, &a.NextUpdate, &a.FetchInterval,
		&a.DateAdded, &viewer, &episode, &a.CoverLastModified, &a.URL, &a.OgTitle,
		&a.OgArtist, &a.OgAuthor, &a.OgDescription, &genre, &a.OgStatus, &a.ThumbnailURL, &a.UpdateStrategy,
		&a.Initialized, &a.LastModifiedAt, &a.FavoriteModifiedAt,
		&customID, &ci.Title, &ci.Author, &ci.Artist, &ci.Description, &customGenre, &ci.Status)
	if err != nil {
		return nil, err
	}
	a.ViewerFlags = uint64(viewer)
	a.EpisodeFlags = uint64(episode)
	a.OgGenre = splitGenre(genre)
	if customID != nil {
		ci.AnimeID = *customID
		ci.Genre = splitGenre(customGenre)
		a.Custom = &ci
	}
	return a, nil
}

func addAnime(ctx context.Context, q querier, a *Anime) error {
	now := nowMillis()
	result, err := q.ExecContext(ctx, `
		INSERT INTO anime (source, url, favorite, last_update, next_update, fetch_interval, date_added,
			viewer_flags, episode_flags, cover_last_modified, title, artist, author, description, genre,
			status, thumbnail_url, update_strategy, initialized, last_modified_at, favorite_modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Source, a.URL, a.Favorite, a.LastUpdate, a.NextUpdate, a.FetchInterval, a.DateAdded,
		int64(a.ViewerFlags), int64(a.EpisodeFlags), a.CoverLastModified, a.OgTitle, a.OgArtist, a.OgAuthor,
		a.OgDescription, joinGenre(a.OgGenre), a.OgStatus, a.ThumbnailURL, int64(a.UpdateStrategy),
		a.Initialized, now, a.FavoriteModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("insert anime: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.ID = id
	a.LastModifiedAt = now
	return nil
}

// AddAnime inserts a new entry. Sets ID and LastModifiedAt on the struct.
func (s *Store) AddAnime(ctx context.Context, a *Anime) error { return addAnime(ctx, s.db, a) }

// AddAnime inserts a new entry within a transaction.
func (t *Tx) AddAnime(ctx context.Context, a *Anime) error { return addAnime(ctx, t.tx, a) }

func getAnime(ctx context.Context, q querier, id int64) (*Anime, error) {
	a, err := scanAnime(q.QueryRowContext(ctx, "SELECT "+animeColumns+animeFrom+"WHERE a.id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get anime %d: %w", id, mapSQLiteError(err))
	}
	return a, nil
}

// GetAnime retrieves an entry by ID.
// Returns ErrNotFound if the entry does not exist.
func (s *Store) GetAnime(ctx context.Context, id int64) (*Anime, error) {
	return getAnime(ctx, s.db, id)
}

// GetAnime retrieves an entry by ID within a transaction.
func (t *Tx) GetAnime(ctx context.Context, id int64) (*Anime, error) {
	return getAnime(ctx, t.tx, id)
}

// GetAnimeByURL finds an entry by source and URL.
// Returns nil, nil if not found.
func (s *Store) GetAnimeByURL(ctx context.Context, source int64, url string) (*Anime, error) {
	items, _, err := s.ListAnime(ctx, AnimeFilter{Source: &source, URL: &url, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func listAnime(ctx context.Context, q querier, f AnimeFilter) ([]*Anime, int, error) {
	var conditions []string
	var args []any

	if f.Favorite != nil {
		conditions = append(conditions, "a.favorite = ?")
		args = append(args, *f.Favorite)
	}
	if f.Source != nil {
		conditions = append(conditions, "a.source = ?")
		args = append(args, *f.Source)
	}
	if f.URL != nil {
		conditions = append(conditions, "a.url = ?")
		args = append(args, *f.URL)
	}
	if f.TitleContains != nil {
		conditions = append(conditions, "LOWER(a.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(*f.TitleContains)+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Fuzzy queries are ranked in memory, so pagination happens afterwards.
	fuzzy := f.Query != nil && strings.TrimSpace(*f.Query) != ""

	var total int
	if !fuzzy {
		if err := q.QueryRowContext(ctx, "SELECT COUNT(*)"+animeFrom+whereClause, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count anime: %w", err)
		}
	}

	query := "SELECT " + animeColumns + animeFrom + whereClause + " ORDER BY a.id"
	if f.Limit > 0 && !fuzzy {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list anime: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Anime
	for rows.Next() {
		a, err := scanAnime(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan anime: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate anime: %w", err)
	}

	if fuzzy {
		results = rankByTitle(results, *f.Query)
		total = len(results)
		results = paginate(results, f.Limit, f.Offset)
	}

	return results, total, nil
}

func paginate(items []*Anime, limit, offset int) []*Anime {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func rankByTitle(items []*Anime, query string) []*Anime {
	type scored struct {
		anime *Anime
		score float64
	}
	var matches []scored
	for _, a := range items {
		if score := TitleSimilarity(query, a.Title()); score >= MinTitleSimilarity {
			matches = append(matches, scored{a, score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	out := make([]*Anime, len(matches))
	for i, m := range matches {
		out[i] = m.anime
	}
	return out
}

// ListAnime returns entries matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListAnime(ctx context.Context, f AnimeFilter) ([]*Anime, int, error) {
	return listAnime(ctx, s.db, f)
}

// ListAnime returns entries matching the filter within a transaction.
func (t *Tx) ListAnime(ctx context.Context, f AnimeFilter) ([]*Anime, int, error) {
	return listAnime(ctx, t.tx, f)
}

func updateAnime(ctx context.Context, q querier, u AnimeUpdate) error {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	now := nowMillis()
	if u.Source != nil {
		set("source", *u.Source)
	}
	if u.Favorite != nil {
		set("favorite", *u.Favorite)
		set("favorite_modified_at", now)
	}
	if u.LastUpdate != nil {
		set("last_update", *u.LastUpdate)
	}
	if u.NextUpdate != nil {
		set("next_update", *u.NextUpdate)
	}
	if u.FetchInterval != nil {
		set("fetch_interval", *u.FetchInterval)
	}
	if u.DateAdded != nil {
		set("date_added", *u.DateAdded)
	}
	if u.ViewerFlags != nil {
		set("viewer_flags", int64(*u.ViewerFlags))
	}
	if u.EpisodeFlags != nil {
		set("episode_flags", int64(*u.EpisodeFlags))
	}
	if u.CoverLastModified != nil {
		set("cover_last_modified", *u.CoverLastModified)
	}
	if u.URL != nil {
		set("url", *u.URL)
	}
	if u.Title != nil {
		set("title", *u.Title)
	}
	if u.Artist != nil {
		set("artist", *u.Artist)
	}
	if u.Author != nil {
		set("author", *u.Author)
	}
	if u.Description != nil {
		set("description", *u.Description)
	}
	if u.Genre != nil {
		set("genre", joinGenre(u.Genre))
	}
	if u.Status != nil {
		set("status", *u.Status)
	}
	if u.ThumbnailURL != nil {
		set("thumbnail_url", *u.ThumbnailURL)
	}
	if u.UpdateStrategy != nil {
		set("update_strategy", int64(*u.UpdateStrategy))
	}
	if u.Initialized != nil {
		set("initialized", *u.Initialized)
	}
	if u.FavoriteModifiedAt != nil && u.Favorite == nil {
		set("favorite_modified_at", *u.FavoriteModifiedAt)
	}
	set("last_modified_at", now)
	args = append(args, u.ID)

	result, err := q.ExecContext(ctx, "UPDATE anime SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update anime %d: %w", u.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update anime %d: %w", u.ID, ErrNotFound)
	}
	return nil
}

// UpdateAnime applies a partial update. Only non-nil fields are written.
// Returns ErrNotFound if the entry does not exist.
func (s *Store) UpdateAnime(ctx context.Context, u AnimeUpdate) error { return updateAnime(ctx, s.db, u) }

// UpdateAnime applies a partial update within a transaction.
func (t *Tx) UpdateAnime(ctx context.Context, u AnimeUpdate) error { return updateAnime(ctx, t.tx, u) }

// UpdateAllAnime applies every update in one transaction.
// Either all updates are applied or none are.
func (s *Store) UpdateAllAnime(ctx context.Context, us []AnimeUpdate) error {
	if len(us) == 0 {
		return nil
	}
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range us {
		if err := tx.UpdateAnime(ctx, u); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func deleteAnime(ctx context.Context, q querier, id int64) error {
	_, err := q.ExecContext(ctx, "DELETE FROM anime WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete anime %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteAnime removes an entry by ID.
// This operation is idempotent - no error is returned if the entry does not exist.
func (s *Store) DeleteAnime(ctx context.Context, id int64) error { return deleteAnime(ctx, s.db, id) }

// DeleteAnime removes an entry by ID within a transaction.
func (t *Tx) DeleteAnime(ctx context.Context, id int64) error { return deleteAnime(ctx, t.tx, id) }

// SetCustomInfo stores user overrides for an entry, replacing earlier ones.
func (s *Store) SetCustomInfo(ctx context.Context, ci CustomInfo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_anime_info (anime_id, title, author, artist, description, genre, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(anime_id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			artist = excluded.artist,
			description = excluded.description,
			genre = excluded.genre,
			status = excluded.status`,
		ci.AnimeID, ci.Title, ci.Author, ci.Artist, ci.Description, joinGenre(ci.Genre), ci.Status,
	)
	if err != nil {
		return fmt.Errorf("set custom info %d: %w", ci.AnimeID, mapSQLiteError(err))
	}
	return nil
}

// DeleteCustomInfo drops the overrides of an entry. Idempotent.
func (s *Store) DeleteCustomInfo(ctx context.Context, animeID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM custom_anime_info WHERE anime_id = ?", animeID); err != nil {
		return fmt.Errorf("delete custom info %d: %w", animeID, mapSQLiteError(err))
	}
	return nil
}
