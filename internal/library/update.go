package library

// AnimeUpdate describes a partial update of an entry.
// Nil fields are left unchanged.
type AnimeUpdate struct {
	ID                 int64
	Source             *int64
	Favorite           *bool
	LastUpdate         *int64
	NextUpdate         *int64
	FetchInterval      *int
	DateAdded          *int64
	ViewerFlags        *uint64
	EpisodeFlags       *uint64
	CoverLastModified  *int64
	URL                *string
	Title              *string
	Artist             *string
	Author             *string
	Description        *string
	Genre              []string
	Status             *int64
	ThumbnailURL       *string
	UpdateStrategy     *UpdateStrategy
	Initialized        *bool
	FavoriteModifiedAt *int64
}

// IsEmpty reports whether the update changes nothing.
func (u AnimeUpdate) IsEmpty() bool {
	return u.Source == nil && u.Favorite == nil && u.LastUpdate == nil &&
		u.NextUpdate == nil && u.FetchInterval == nil && u.DateAdded == nil &&
		u.ViewerFlags == nil && u.EpisodeFlags == nil && u.CoverLastModified == nil &&
		u.URL == nil && u.Title == nil && u.Artist == nil && u.Author == nil &&
		u.Description == nil && u.Genre == nil && u.Status == nil &&
		u.ThumbnailURL == nil && u.UpdateStrategy == nil && u.Initialized == nil &&
		u.FavoriteModifiedAt == nil
}

// Fields names the columns the update changes, in column order.
func (u AnimeUpdate) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(u.Source != nil, "source")
	add(u.Favorite != nil, "favorite")
	add(u.LastUpdate != nil, "last_update")
	add(u.NextUpdate != nil, "next_update")
	add(u.FetchInterval != nil, "fetch_interval")
	add(u.DateAdded != nil, "date_added")
	add(u.ViewerFlags != nil, "viewer_flags")
	add(u.EpisodeFlags != nil, "episode_flags")
	add(u.CoverLastModified != nil, "cover_last_modified")
	add(u.URL != nil, "url")
	add(u.Title != nil, "title")
	add(u.Artist != nil, "artist")
	add(u.Author != nil, "author")
	add(u.Description != nil, "description")
	add(u.Genre != nil, "genre")
	add(u.Status != nil, "status")
	add(u.ThumbnailURL != nil, "thumbnail_url")
	add(u.UpdateStrategy != nil, "update_strategy")
	add(u.Initialized != nil, "initialized")
	add(u.FavoriteModifiedAt != nil, "favorite_modified_at")
	return fields
}

// ToUpdate returns an update that rewrites every column of the entry.
// Custom overrides are resolved, matching what the user sees.
func (a *Anime) ToUpdate() AnimeUpdate {
	title := a.Title()
	status := a.Status()
	strategy := a.UpdateStrategy
	return AnimeUpdate{
		ID:                a.ID,
		Source:            &a.Source,
		Favorite:          &a.Favorite,
		LastUpdate:        &a.LastUpdate,
		NextUpdate:        &a.NextUpdate,
		FetchInterval:     &a.FetchInterval,
		DateAdded:         &a.DateAdded,
		ViewerFlags:       &a.ViewerFlags,
		EpisodeFlags:      &a.EpisodeFlags,
		CoverLastModified: &a.CoverLastModified,
		URL:               &a.URL,
		Title:             &title,
		Artist:            a.Artist(),
		Author:            a.Author(),
		Description:       a.Description(),
		Genre:             a.Genre(),
		Status:            &status,
		ThumbnailURL:      a.ThumbnailURL,
		UpdateStrategy:    &strategy,
		Initialized:       &a.Initialized,
	}
}

// EpisodeUpdate describes a partial update of an episode.
type EpisodeUpdate struct {
	ID             int64
	AnimeID        *int64
	Seen           *bool
	Bookmark       *bool
	Fillermark     *bool
	LastSecondSeen *int64
	TotalSeconds   *int64
	DateFetch      *int64
	SourceOrder    *int64
	URL            *string
	Name           *string
	DateUpload     *int64
	EpisodeNumber  *float64
	Scanlator      *string
}

// ToUpdate returns an update that rewrites every column of the episode.
func (e *Episode) ToUpdate() EpisodeUpdate {
	return EpisodeUpdate{
		ID:             e.ID,
		AnimeID:        &e.AnimeID,
		Seen:           &e.Seen,
		Bookmark:       &e.Bookmark,
		Fillermark:     &e.Fillermark,
		LastSecondSeen: &e.LastSecondSeen,
		TotalSeconds:   &e.TotalSeconds,
		DateFetch:      &e.DateFetch,
		SourceOrder:    &e.SourceOrder,
		URL:            &e.URL,
		Name:           &e.Name,
		DateUpload:     &e.DateUpload,
		EpisodeNumber:  &e.EpisodeNumber,
		Scanlator:      e.Scanlator,
	}
}
