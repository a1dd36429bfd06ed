package interactor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/library"
	"github.com/vmunix/animelib/internal/preference"
	"github.com/vmunix/animelib/pkg/flagword"
)

// SetEpisodeFlags changes the episode list settings of an entry.
// Flag values are the pre-shifted constants of package library; anything
// else is rejected before the repository is called.
type SetEpisodeFlags struct {
	base
	repo library.AnimeRepository
}

// NewSetEpisodeFlags creates the episode settings interactor. bus may be nil.
func NewSetEpisodeFlags(repo library.AnimeRepository, bus events.Publisher, log *slog.Logger) *SetEpisodeFlags {
	return &SetEpisodeFlags{base: newBase(bus, log, "episode-flags"), repo: repo}
}

// SetDownloadedFilter and the setters below replace one field of a's word.
// flag must be one of the field's named values.
func (s *SetEpisodeFlags) SetDownloadedFilter(ctx context.Context, a *library.Anime, flag uint64) bool {
	return s.setField(ctx, a, flag, library.EpisodeDownloadedMask)
}

func (s *SetEpisodeFlags) SetUnseenFilter(ctx context.Context, a *library.Anime, flag uint64) bool {
	return s.setField(ctx, a, flag, library.EpisodeUnseenMask)
}

func (s *SetEpisodeFlags) SetBookmarkFilter(ctx context.Context, a *library.Anime, flag uint64) bool {
	return s.setField(ctx, a, flag, library.EpisodeBookmarkedMask)
}

func (s *SetEpisodeFlags) SetFillermarkFilter(ctx context.Context, a *library.Anime, flag uint64) bool {
	return s.setField(ctx, a, flag, library.EpisodeFillermarkedMask)
}

func (s *SetEpisodeFlags) SetDisplayMode(ctx context.Context, a *library.Anime, flag uint64) bool {
	return s.setField(ctx, a, flag, library.EpisodeDisplayMask)
}

// SetSortingModeOrFlipOrder flips the sort direction when flag is the
// current sorting, otherwise switches to flag sorted ascending.
func (s *SetEpisodeFlags) SetSortingModeOrFlipOrder(ctx context.Context, a *library.Anime, flag uint64) bool {
	if err := checkFlag(flag, library.EpisodeSortingMask); err != nil {
		s.log.Error("set sorting", "anime_id", a.ID, "error", err)
		return false
	}
	return s.update(ctx, a.ID, a.EpisodeFlags, ToggleSort(a.EpisodeFlags, flag))
}

// ToggleSort applies the sort toggle to an episode flag word.
func ToggleSort(flags, sorting uint64) uint64 {
	if flags&library.EpisodeSortingMask == sorting {
		dir := library.EpisodeSortDesc
		if flags&library.EpisodeSortDirMask == library.EpisodeSortDesc {
			dir = library.EpisodeSortAsc
		}
		return flagword.Set(flags, dir, library.EpisodeSortDirMask)
	}
	flags = flagword.Set(flags, sorting, library.EpisodeSortingMask)
	return flagword.Set(flags, library.EpisodeSortAsc, library.EpisodeSortDirMask)
}

// EpisodeSettings is a complete set of episode list settings.
type EpisodeSettings struct {
	Unseen       uint64
	Downloaded   uint64
	Bookmarked   uint64
	Fillermarked uint64
	Sorting      uint64
	Direction    uint64
	Display      uint64
}

// Flags packs the settings into a fresh episode flag word.
func (e EpisodeSettings) Flags() (uint64, error) {
	var flags uint64
	for _, f := range []struct{ v, mask uint64 }{
		{e.Unseen, library.EpisodeUnseenMask},
		{e.Downloaded, library.EpisodeDownloadedMask},
		{e.Bookmarked, library.EpisodeBookmarkedMask},
		{e.Fillermarked, library.EpisodeFillermarkedMask},
		{e.Sorting, library.EpisodeSortingMask},
		{e.Direction, library.EpisodeSortDirMask},
		{e.Display, library.EpisodeDisplayMask},
	} {
		if err := checkFlag(f.v, f.mask); err != nil {
			return 0, err
		}
		flags = flagword.Set(flags, f.v, f.mask)
	}
	return flags, nil
}

// SetAllFlags replaces the whole episode flag word of an entry.
// The previous word is not read, so the published event reports Old as 0;
// use ReplaceFlags when the entry is already loaded.
func (s *SetEpisodeFlags) SetAllFlags(ctx context.Context, animeID int64, settings EpisodeSettings) bool {
	return s.replace(ctx, animeID, 0, settings)
}

// ReplaceFlags is SetAllFlags for a loaded entry. The event carries a's
// current word as Old.
func (s *SetEpisodeFlags) ReplaceFlags(ctx context.Context, a *library.Anime, settings EpisodeSettings) bool {
	return s.replace(ctx, a.ID, a.EpisodeFlags, settings)
}

func (s *SetEpisodeFlags) replace(ctx context.Context, animeID int64, old uint64, settings EpisodeSettings) bool {
	flags, err := settings.Flags()
	if err != nil {
		s.log.Error("set all flags", "anime_id", animeID, "error", err)
		return false
	}
	return s.update(ctx, animeID, old, flags)
}

// SetDefaultFlags applies the library's default episode settings to a.
func (s *SetEpisodeFlags) SetDefaultFlags(ctx context.Context, a *library.Anime, prefs *preference.LibraryPreferences) bool {
	defaults, err := prefs.EpisodeDefaults(ctx)
	if err != nil {
		s.log.Error("read episode defaults", "anime_id", a.ID, "error", err)
		return false
	}
	settings := EpisodeSettings{
		Unseen:       defaults & library.EpisodeUnseenMask,
		Downloaded:   defaults & library.EpisodeDownloadedMask,
		Bookmarked:   defaults & library.EpisodeBookmarkedMask,
		Fillermarked: defaults & library.EpisodeFillermarkedMask,
		Sorting:      defaults & library.EpisodeSortingMask,
		Direction:    defaults & library.EpisodeSortDirMask,
		Display:      defaults & library.EpisodeDisplayMask,
	}
	flags, err := settings.Flags()
	if err != nil {
		s.log.Error("apply episode defaults", "anime_id", a.ID, "error", err)
		return false
	}
	return s.update(ctx, a.ID, a.EpisodeFlags, flags)
}

func (s *SetEpisodeFlags) setField(ctx context.Context, a *library.Anime, flag, mask uint64) bool {
	if err := checkFlag(flag, mask); err != nil {
		s.log.Error("set episode flag", "anime_id", a.ID, "error", err)
		return false
	}
	return s.update(ctx, a.ID, a.EpisodeFlags, flagword.Set(a.EpisodeFlags, flag, mask))
}

func (s *SetEpisodeFlags) update(ctx context.Context, animeID int64, old, flags uint64) bool {
	if err := s.repo.UpdateAnime(ctx, library.AnimeUpdate{ID: animeID, EpisodeFlags: &flags}); err != nil {
		s.log.Error("update episode flags", "anime_id", animeID, "error", err)
		return false
	}
	s.publish(ctx, &events.EpisodeFlagsChanged{
		BaseEvent: events.NewBaseEvent(events.EventEpisodeFlagsChanged, events.EntityAnime, animeID),
		AnimeID:   animeID,
		Old:       old,
		New:       flags,
	})
	return true
}

func checkFlag(flag, mask uint64) error {
	if !library.ValidEpisodeFlag(flag, mask) {
		return fmt.Errorf("%w: %#x for mask %#x", library.ErrInvalidFlag, flag, mask)
	}
	return nil
}
