// Package preference provides typed access to key/value settings.
//
// Values are stored as strings. Preference[T] handles encoding, defaults
// and fallback when a stored value cannot be decoded.
package preference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/vmunix/animelib/internal/events"
)

// Store persists raw preference values.
type Store interface {
	// Get returns the stored value and whether the key is set.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys, app-state keys excluded.
	Keys(ctx context.Context) ([]string, error)
}

const appStatePrefix = "__APP_STATE_"

// AppStateKey marks key as internal app state. App-state keys are hidden
// from listings and backups.
func AppStateKey(key string) string {
	return appStatePrefix + key
}

// IsAppStateKey reports whether key was built by AppStateKey.
func IsAppStateKey(key string) bool {
	return strings.HasPrefix(key, appStatePrefix)
}

// SQLStore keeps preferences in the preferences table.
type SQLStore struct {
	db     *sql.DB
	bus    events.Publisher // may be nil
	logger *slog.Logger
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a store backed by db. bus may be nil.
func NewSQLStore(db *sql.DB, bus events.Publisher, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{db: db, bus: bus, logger: logger.With("component", "preference")}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	s.publish(ctx, key, false)
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		s.publish(ctx, key, true)
	}
	return nil
}

func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM preferences ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan preference key: %w", err)
		}
		if !IsAppStateKey(k) {
			keys = append(keys, k)
		}
	}
	return keys, rows.Err()
}

func (s *SQLStore) publish(ctx context.Context, key string, deleted bool) {
	if s.bus == nil || IsAppStateKey(key) {
		return
	}
	e := &events.PreferenceChanged{
		BaseEvent: events.NewBaseEvent(events.EventPreferenceChanged, events.EntityPreference, 0),
		Key:       key,
		Deleted:   deleted,
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.logger.Warn("publish preference change", "key", key, "error", err)
	}
}

// MemoryStore is an in-process Store. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store pre-populated with values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	m := &MemoryStore{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		if !IsAppStateKey(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
