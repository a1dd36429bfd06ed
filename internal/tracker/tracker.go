// Package tracker registers the tracking services a library entry can be
// linked to. Only login state is kept here; the service protocols live
// elsewhere.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/vmunix/animelib/internal/preference"
)

// Tracker IDs. They are persisted with track records and must not change.
const (
	MyAnimeListID int64 = 1
	AniListID     int64 = 2
	KitsuID       int64 = 3
	ShikimoriID   int64 = 4
	BangumiID     int64 = 5
	SimklID       int64 = 101
)

// ErrUnknownTracker is returned when no tracker has the requested ID.
var ErrUnknownTracker = errors.New("unknown tracker")

// Tracker is one tracking service.
type Tracker struct {
	ID        int64
	Name      string
	LogoColor uint32 // 0xRRGGBB

	prefs *preference.TrackPreferences
}

// IsLoggedIn reports whether both a username and a password are stored.
func (t *Tracker) IsLoggedIn(ctx context.Context) (bool, error) {
	user, err := t.prefs.Username(t.ID).Get(ctx)
	if err != nil {
		return false, fmt.Errorf("%s username: %w", t.Name, err)
	}
	pass, err := t.prefs.Password(t.ID).Get(ctx)
	if err != nil {
		return false, fmt.Errorf("%s password: %w", t.Name, err)
	}
	return user != "" && pass != "", nil
}

// Login stores credentials. The service itself is not contacted.
func (t *Tracker) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%s: username and password are required", t.Name)
	}
	return t.prefs.SetCredentials(ctx, t.ID, username, password)
}

func (t *Tracker) Logout(ctx context.Context) error {
	return t.prefs.ClearCredentials(ctx, t.ID)
}

// Manager is the static tracker registry.
type Manager struct {
	trackers []*Tracker
}

// NewManager registers every known tracker against prefs.
func NewManager(prefs *preference.TrackPreferences) *Manager {
	newTracker := func(id int64, name string, color uint32) *Tracker {
		return &Tracker{ID: id, Name: name, LogoColor: color, prefs: prefs}
	}
	return &Manager{trackers: []*Tracker{
		newTracker(MyAnimeListID, "MyAnimeList", 0x2E51A2),
		newTracker(AniListID, "AniList", 0x121923),
		newTracker(KitsuID, "Kitsu", 0x332532),
		newTracker(ShikimoriID, "Shikimori", 0x282828),
		newTracker(BangumiID, "Bangumi", 0xF09199),
		newTracker(SimklID, "Simkl", 0x000000),
	}}
}

// All returns every tracker in registration order.
func (m *Manager) All() []*Tracker {
	return append([]*Tracker(nil), m.trackers...)
}

// Get returns the tracker with id.
func (m *Manager) Get(id int64) (*Tracker, error) {
	t, ok := lo.Find(m.trackers, func(t *Tracker) bool { return t.ID == id })
	if !ok {
		return nil, fmt.Errorf("tracker %d: %w", id, ErrUnknownTracker)
	}
	return t, nil
}

// LoggedIn returns the trackers with stored credentials.
func (m *Manager) LoggedIn(ctx context.Context) ([]*Tracker, error) {
	var out []*Tracker
	for _, t := range m.trackers {
		ok, err := t.IsLoggedIn(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}
