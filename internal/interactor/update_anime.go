package interactor

import (
	"context"
	"log/slog"

	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/library"
)

// SourceAnime is entry metadata as a source reports it.
type SourceAnime struct {
	Title          string
	Author         *string
	Artist         *string
	Description    *string
	Genre          []string
	Status         int64
	ThumbnailURL   *string
	UpdateStrategy library.UpdateStrategy
}

// CoverCache is the on-disk cover store.
type CoverCache interface {
	// HasCustomCover reports whether the user replaced the cover of a.
	HasCustomCover(a *library.Anime) bool
	// DeleteFromCache removes the cached source cover of a, and the
	// custom cover too when withCustom is set.
	DeleteFromCache(a *library.Anime, withCustom bool) (int, error)
}

// UpdateAnime applies partial updates to library entries.
type UpdateAnime struct {
	base
	repo   library.AnimeRepository
	covers CoverCache // nil if covers are not cached
}

// NewUpdateAnime creates the entry update interactor. covers and bus may be nil.
func NewUpdateAnime(repo library.AnimeRepository, covers CoverCache, bus events.Publisher, log *slog.Logger) *UpdateAnime {
	return &UpdateAnime{base: newBase(bus, log, "update-anime"), repo: repo, covers: covers}
}

// Update applies upd and publishes the changed fields.
func (u *UpdateAnime) Update(ctx context.Context, upd library.AnimeUpdate) bool {
	if err := u.repo.UpdateAnime(ctx, upd); err != nil {
		u.log.Error("update anime", "anime_id", upd.ID, "error", err)
		return false
	}
	u.published(ctx, upd)
	return true
}

// UpdateAll applies every update or none of them.
func (u *UpdateAnime) UpdateAll(ctx context.Context, upds []library.AnimeUpdate) bool {
	if err := u.repo.UpdateAllAnime(ctx, upds); err != nil {
		u.log.Error("update all anime", "count", len(upds), "error", err)
		return false
	}
	for _, upd := range upds {
		u.published(ctx, upd)
	}
	return true
}

// UpdateFromSource refreshes local with metadata fetched from its source.
// Favorites keep their title. An empty remote thumbnail never replaces
// the stored one, and the cover timestamp only moves when the cover
// actually changed or the fetch was manual.
func (u *UpdateAnime) UpdateFromSource(ctx context.Context, local *library.Anime, remote SourceAnime, manualFetch bool) bool {
	var title *string
	if remote.Title != "" && !local.Favorite {
		title = &remote.Title
	}

	var thumbnail *string
	if remote.ThumbnailURL != nil && *remote.ThumbnailURL != "" {
		thumbnail = remote.ThumbnailURL
	}

	var coverLastModified *int64
	switch {
	case thumbnail == nil:
	case !manualFetch && local.ThumbnailURL != nil && *local.ThumbnailURL == *thumbnail:
	case local.IsLocal():
		now := u.nowMillis()
		coverLastModified = &now
	case u.covers != nil && u.covers.HasCustomCover(local):
		u.dropCover(local)
	default:
		u.dropCover(local)
		now := u.nowMillis()
		coverLastModified = &now
	}

	status := remote.Status
	strategy := remote.UpdateStrategy
	initialized := true
	return u.Update(ctx, library.AnimeUpdate{
		ID:                local.ID,
		Title:             title,
		CoverLastModified: coverLastModified,
		Author:            remote.Author,
		Artist:            remote.Artist,
		Description:       remote.Description,
		Genre:             remote.Genre,
		ThumbnailURL:      thumbnail,
		Status:            &status,
		UpdateStrategy:    &strategy,
		Initialized:       &initialized,
	})
}

func (u *UpdateAnime) dropCover(a *library.Anime) {
	if u.covers == nil {
		return
	}
	if _, err := u.covers.DeleteFromCache(a, false); err != nil {
		u.log.Warn("delete cached cover", "anime_id", a.ID, "error", err)
	}
}

// UpdateLastUpdate stamps the entry's last update time with now.
func (u *UpdateAnime) UpdateLastUpdate(ctx context.Context, animeID int64) bool {
	now := u.nowMillis()
	return u.Update(ctx, library.AnimeUpdate{ID: animeID, LastUpdate: &now})
}

// UpdateCoverLastModified stamps the cover modification time with now.
func (u *UpdateAnime) UpdateCoverLastModified(ctx context.Context, animeID int64) bool {
	now := u.nowMillis()
	return u.Update(ctx, library.AnimeUpdate{ID: animeID, CoverLastModified: &now})
}

// UpdateFavorite adds or removes an entry from the library. DateAdded
// is stamped when favoriting and cleared otherwise.
func (u *UpdateAnime) UpdateFavorite(ctx context.Context, animeID int64, favorite bool) bool {
	var dateAdded int64
	if favorite {
		dateAdded = u.nowMillis()
	}
	return u.Update(ctx, library.AnimeUpdate{ID: animeID, Favorite: &favorite, DateAdded: &dateAdded})
}

func (u *UpdateAnime) published(ctx context.Context, upd library.AnimeUpdate) {
	u.publish(ctx, &events.AnimeUpdated{
		BaseEvent: events.NewBaseEvent(events.EventAnimeUpdated, events.EntityAnime, upd.ID),
		AnimeID:   upd.ID,
		Fields:    upd.Fields(),
	})
}
