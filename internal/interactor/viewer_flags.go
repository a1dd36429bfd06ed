package interactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/library"
)

var errNegative = errors.New("negative value")

// SetViewerFlags changes the player settings packed into ViewerFlags.
type SetViewerFlags struct {
	base
	repo library.AnimeRepository
}

// NewSetViewerFlags creates the player settings interactor. bus may be nil.
func NewSetViewerFlags(repo library.AnimeRepository, bus events.Publisher, log *slog.Logger) *SetViewerFlags {
	return &SetViewerFlags{base: newBase(bus, log, "viewer-flags"), repo: repo}
}

// SetSkipIntroLength stores the intro skip length in seconds (0-255).
func (s *SetViewerFlags) SetSkipIntroLength(ctx context.Context, a *library.Anime, seconds int) bool {
	if seconds < 0 {
		s.log.Error("set skip intro length", "anime_id", a.ID, "seconds", seconds, "error", errNegative)
		return false
	}
	flags, err := library.ViewerFlagLayout.SetScaled(a.ViewerFlags, library.FieldIntro, uint64(seconds))
	if err != nil {
		s.log.Error("set skip intro length", "anime_id", a.ID, "error", err)
		return false
	}
	return s.update(ctx, a.ID, flags, library.FieldIntro, uint64(seconds))
}

// SetNextEpisodeAiring stores the next episode number and its airing
// time in epoch seconds.
func (s *SetViewerFlags) SetNextEpisodeAiring(ctx context.Context, a *library.Anime, episode int, airingAt int64) bool {
	if episode < 0 || airingAt < 0 {
		s.log.Error("set next episode airing", "anime_id", a.ID, "error", errNegative)
		return false
	}
	flags, err := library.ViewerFlagLayout.SetScaled(a.ViewerFlags, library.FieldAiringEpisode, uint64(episode))
	if err == nil {
		flags, err = library.ViewerFlagLayout.SetScaled(flags, library.FieldAiringTime, uint64(airingAt))
	}
	if err != nil {
		s.log.Error("set next episode airing", "anime_id", a.ID, "error", fmt.Errorf("pack airing: %w", err))
		return false
	}
	return s.update(ctx, a.ID, flags, library.FieldAiringEpisode, uint64(episode))
}

func (s *SetViewerFlags) update(ctx context.Context, animeID int64, flags uint64, field string, value uint64) bool {
	if err := s.repo.UpdateAnime(ctx, library.AnimeUpdate{ID: animeID, ViewerFlags: &flags}); err != nil {
		s.log.Error("update viewer flags", "anime_id", animeID, "error", err)
		return false
	}
	s.publish(ctx, &events.ViewerFlagsChanged{
		BaseEvent: events.NewBaseEvent(events.EventViewerFlagsChanged, events.EntityAnime, animeID),
		AnimeID:   animeID,
		Field:     field,
		Value:     value,
	})
	return true
}
