package v1

import (
	"context"
	"errors"

	"github.com/vmunix/animelib/internal/connections"
	"github.com/vmunix/animelib/internal/download"
	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/interactor"
	"github.com/vmunix/animelib/internal/library"
	"github.com/vmunix/animelib/internal/preference"
	"github.com/vmunix/animelib/internal/tracker"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// DownloadManager drives episode downloads.
type DownloadManager interface {
	Get(ctx context.Context, episodeID int64) (*download.Download, error)
	Queue(ctx context.Context) ([]*download.Download, error)
	Apply(ctx context.Context, episodeID int64, action download.Action) (*download.Download, error)
}

// CrashDumper writes a diagnostics file and returns its path.
type CrashDumper interface {
	Dump(ctx context.Context) (string, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Library      *library.Store
	Preferences  preference.Store
	LibraryPrefs *preference.LibraryPreferences
	BasePrefs    *preference.BasePreferences
	EpisodeFlags *interactor.SetEpisodeFlags
	ViewerFlags  *interactor.SetViewerFlags
	UpdateAnime  *interactor.UpdateAnime
	SortMode     *interactor.SetSortModeForCategory
	Trackers     *tracker.Manager
	Connections  *connections.Manager

	// Optional dependencies (nil if not configured)
	Downloads DownloadManager
	EventLog  *events.EventLog
	CrashLogs CrashDumper
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	required := []struct {
		name string
		ok   bool
	}{
		{"library store", d.Library != nil},
		{"preference store", d.Preferences != nil},
		{"library preferences", d.LibraryPrefs != nil},
		{"base preferences", d.BasePrefs != nil},
		{"episode flags interactor", d.EpisodeFlags != nil},
		{"viewer flags interactor", d.ViewerFlags != nil},
		{"update anime interactor", d.UpdateAnime != nil},
		{"sort mode interactor", d.SortMode != nil},
		{"tracker manager", d.Trackers != nil},
		{"connection manager", d.Connections != nil},
	}
	for _, r := range required {
		if !r.ok {
			return errors.New(r.name + " is required")
		}
	}
	return nil
}
