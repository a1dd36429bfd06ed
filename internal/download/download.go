// Package download tracks the download state of episodes and derives what
// a download indicator shows and offers.
package download

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Download is the download record of one episode.
// SizeBytes is set once the file is complete.
type Download struct {
	EpisodeID        int64
	State            State
	Progress         int // 0-100
	SizeBytes        *int64
	QueuePosition    int64
	AddedAt          time.Time
	LastTransitionAt time.Time
}

// notDownloaded is the record of an episode without a row.
func notDownloaded(episodeID int64) *Download {
	return &Download{EpisodeID: episodeID, State: StateNotDownloaded}
}

// Indicator is the display model of a download indicator.
type Indicator struct {
	State         State   `json:"state"`
	Indeterminate bool    `json:"indeterminate"`
	Progress      float64 `json:"progress"` // 0-1
	SizeLabel     string  `json:"size_label,omitempty"`
	Actions       Actions `json:"actions"`
}

// Indicator derives the display model of d.
func (d *Download) Indicator() Indicator {
	ind := Indicator{
		State:         d.State,
		Indeterminate: Indeterminate(d.State, d.Progress),
		Actions:       ActionsFor(d.State),
	}
	if d.State == StateDownloading && !ind.Indeterminate {
		ind.Progress = float64(d.Progress) / 100
	}
	if d.State == StateDownloaded {
		ind.Progress = 1
		if d.SizeBytes != nil {
			ind.SizeLabel = FileSizeLabel(*d.SizeBytes)
		}
	}
	return ind
}

// FileSizeLabel formats a file size for display, e.g. "350 MiB".
func FileSizeLabel(bytes int64) string {
	if bytes < 0 {
		return ""
	}
	return humanize.IBytes(uint64(bytes))
}

// Filter specifies criteria for listing downloads.
type Filter struct {
	State  *State
	Active bool // only QUEUE and DOWNLOADING
}

// Store persists download records.
type Store struct {
	db *sql.DB
}

// NewStore creates a download store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const downloadColumns = `episode_id, state, progress, size_bytes, queue_position, added_at, last_transition_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDownload(row rowScanner) (*Download, error) {
	d := &Download{}
	var state string
	var added, transitioned int64
	if err := row.Scan(&d.EpisodeID, &state, &d.Progress, &d.SizeBytes, &d.QueuePosition, &added, &transitioned); err != nil {
		return nil, err
	}
	d.State = State(state)
	d.AddedAt = time.UnixMilli(added)
	d.LastTransitionAt = time.UnixMilli(transitioned)
	return d, nil
}

// Get returns the record of an episode. Episodes without a row are
// reported as not downloaded rather than as an error.
func (s *Store) Get(ctx context.Context, episodeID int64) (*Download, error) {
	d, err := scanDownload(s.db.QueryRowContext(ctx,
		`SELECT `+downloadColumns+` FROM episode_downloads WHERE episode_id = ?`, episodeID))
	if errors.Is(err, sql.ErrNoRows) {
		return notDownloaded(episodeID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get download %d: %w", episodeID, err)
	}
	return d, nil
}

// Enqueue inserts a QUEUE record at the end of the queue, or at the front
// when front is set.
func (s *Store) Enqueue(ctx context.Context, episodeID int64, front bool) (*Download, error) {
	agg := "COALESCE(MAX(queue_position), 0) + 1"
	if front {
		agg = "COALESCE(MIN(queue_position), 0) - 1"
	}
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO episode_downloads (episode_id, state, progress, queue_position, added_at, last_transition_at)
		VALUES (?, ?, 0, (SELECT `+agg+` FROM episode_downloads), ?, ?)
		ON CONFLICT (episode_id) DO UPDATE SET
			state = excluded.state,
			progress = 0,
			size_bytes = NULL,
			queue_position = excluded.queue_position,
			last_transition_at = excluded.last_transition_at`,
		episodeID, string(StateQueue), now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("enqueue episode %d: %w", episodeID, err)
	}
	return s.Get(ctx, episodeID)
}

// MoveToFront puts a queued episode ahead of every other.
func (s *Store) MoveToFront(ctx context.Context, episodeID int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE episode_downloads
		SET queue_position = (SELECT COALESCE(MIN(queue_position), 0) - 1 FROM episode_downloads)
		WHERE episode_id = ?`, episodeID)
	if err != nil {
		return fmt.Errorf("move episode %d to front: %w", episodeID, err)
	}
	return requireRow(result, episodeID)
}

// Update writes state, progress and size of d.
func (s *Store) Update(ctx context.Context, d *Download) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE episode_downloads SET state = ?, progress = ?, size_bytes = ?, last_transition_at = ?
		WHERE episode_id = ?`,
		string(d.State), d.Progress, d.SizeBytes, d.LastTransitionAt.UnixMilli(), d.EpisodeID)
	if err != nil {
		return fmt.Errorf("update download %d: %w", d.EpisodeID, err)
	}
	return requireRow(result, d.EpisodeID)
}

// List returns downloads matching f in queue order.
func (s *Store) List(ctx context.Context, f Filter) ([]*Download, error) {
	var conditions []string
	var args []any

	if f.State != nil {
		conditions = append(conditions, "state = ?")
		args = append(args, string(*f.State))
	}
	if f.Active {
		conditions = append(conditions, "state IN (?, ?)")
		args = append(args, string(StateQueue), string(StateDownloading))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+downloadColumns+" FROM episode_downloads "+whereClause+" ORDER BY queue_position, episode_id", args...)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Download
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate downloads: %w", err)
	}
	return results, nil
}

// Delete removes the record of an episode.
// This operation is idempotent.
func (s *Store) Delete(ctx context.Context, episodeID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM episode_downloads WHERE episode_id = ?", episodeID); err != nil {
		return fmt.Errorf("delete download %d: %w", episodeID, err)
	}
	return nil
}

func requireRow(result sql.Result, episodeID int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("download %d: %w", episodeID, ErrNotFound)
	}
	return nil
}
