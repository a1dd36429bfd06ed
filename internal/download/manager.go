package download

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/animelib/internal/events"
)

// Manager applies indicator actions and downloader reports to the store.
type Manager struct {
	store *Store
	bus   events.Publisher // nil if not configured
	log   *slog.Logger
}

// NewManager creates a new download manager.
func NewManager(store *Store, bus events.Publisher, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store: store,
		bus:   bus,
		log:   log.With("component", "download"),
	}
}

// Get returns the download record of an episode.
func (m *Manager) Get(ctx context.Context, episodeID int64) (*Download, error) {
	return m.store.Get(ctx, episodeID)
}

// Queue returns active downloads in the order they will run.
func (m *Manager) Queue(ctx context.Context) ([]*Download, error) {
	return m.store.List(ctx, Filter{Active: true})
}

// Apply performs a user action. Actions the indicator does not offer in
// the current state fail with ErrActionNotAllowed. SHOW_QUALITIES changes
// nothing here; picking a quality is up to the caller.
func (m *Manager) Apply(ctx context.Context, episodeID int64, action Action) (*Download, error) {
	d, err := m.store.Get(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	if !ActionsFor(d.State).Allows(action) {
		return nil, fmt.Errorf("%w: %s in state %s", ErrActionNotAllowed, action, d.State)
	}

	switch action {
	case ActionStart:
		return m.enqueue(ctx, d, false)
	case ActionStartNow:
		if d.State == StateDownloading {
			return d, nil
		}
		if err := m.store.MoveToFront(ctx, episodeID); err != nil {
			return nil, err
		}
		return m.store.Get(ctx, episodeID)
	case ActionCancel, ActionDelete:
		if err := m.store.Delete(ctx, episodeID); err != nil {
			return nil, err
		}
		m.published(ctx, episodeID, d.State, StateNotDownloaded, 0)
		m.log.Info("download removed", "episode_id", episodeID, "action", action)
		return notDownloaded(episodeID), nil
	}
	return d, nil
}

func (m *Manager) enqueue(ctx context.Context, d *Download, front bool) (*Download, error) {
	if !d.State.CanTransitionTo(StateQueue) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.State, StateQueue)
	}
	queued, err := m.store.Enqueue(ctx, d.EpisodeID, front)
	if err != nil {
		return nil, err
	}
	m.published(ctx, d.EpisodeID, d.State, StateQueue, 0)
	m.log.Info("download queued", "episode_id", d.EpisodeID, "position", queued.QueuePosition)
	return queued, nil
}

// Report records progress from a downloader. A change of state must be a
// valid transition; a report in the same state only updates progress.
func (m *Manager) Report(ctx context.Context, episodeID int64, to State, progress int, sizeBytes *int64) (*Download, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("progress %d out of range", progress)
	}
	d, err := m.store.Get(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	if d.State == StateNotDownloaded {
		return nil, fmt.Errorf("report for episode %d: %w", episodeID, ErrNotFound)
	}
	from := d.State
	if to != from && !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if to == StateNotDownloaded {
		if err := m.store.Delete(ctx, episodeID); err != nil {
			return nil, err
		}
		m.published(ctx, episodeID, from, to, 0)
		return notDownloaded(episodeID), nil
	}

	d.State = to
	d.Progress = progress
	if to == StateDownloaded {
		d.Progress = 100
		d.SizeBytes = sizeBytes
	}
	if to != from {
		d.LastTransitionAt = time.Now()
	}
	if err := m.store.Update(ctx, d); err != nil {
		return nil, err
	}
	if to != from {
		m.published(ctx, episodeID, from, to, d.Progress)
		m.log.Info("download state changed", "episode_id", episodeID, "state", to, "prev", from)
	}
	return d, nil
}

func (m *Manager) published(ctx context.Context, episodeID int64, from, to State, progress int) {
	if m.bus == nil {
		return
	}
	e := &events.DownloadStateChanged{
		BaseEvent: events.NewBaseEvent(events.EventDownloadStateChanged, events.EntityEpisode, episodeID),
		EpisodeID: episodeID,
		From:      string(from),
		To:        string(to),
		Progress:  progress,
	}
	if err := m.bus.Publish(ctx, e); err != nil {
		m.log.Warn("publish download change", "episode_id", episodeID, "error", err)
	}
}
