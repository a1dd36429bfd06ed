// internal/events/library.go
package events

// Entity types
const (
	EntityAnime      = "anime"
	EntityCategory   = "category"
	EntityEpisode    = "episode"
	EntityPreference = "preference"
	EntityConnection = "connection"
)

// Event type constants
const (
	EventAnimeUpdated         = "anime.updated"
	EventEpisodeFlagsChanged  = "anime.episode_flags.changed"
	EventViewerFlagsChanged   = "anime.viewer_flags.changed"
	EventCategorySortChanged  = "category.sort.changed"
	EventPreferenceChanged    = "preference.changed"
	EventDownloadStateChanged = "episode.download_state.changed"
	EventConnectionLoggedIn   = "connection.logged_in"
	EventConnectionLoggedOut  = "connection.logged_out"
)

// AnimeUpdated is emitted after a partial update of a library entry is stored.
type AnimeUpdated struct {
	BaseEvent
	AnimeID int64    `json:"anime_id"`
	Fields  []string `json:"fields"`
}

// EpisodeFlagsChanged is emitted when an entry's episode list settings change.
type EpisodeFlagsChanged struct {
	BaseEvent
	AnimeID int64  `json:"anime_id"`
	Old     uint64 `json:"old"`
	New     uint64 `json:"new"`
}

// ViewerFlagsChanged is emitted when an entry's player settings change.
type ViewerFlagsChanged struct {
	BaseEvent
	AnimeID int64  `json:"anime_id"`
	Field   string `json:"field"`
	Value   uint64 `json:"value"`
}

// CategorySortChanged is emitted when a library sort is stored.
// CategoryID is nil when the sort was applied to every category.
type CategorySortChanged struct {
	BaseEvent
	CategoryID *int64 `json:"category_id,omitempty"`
	Sort       string `json:"sort"`
	Flags      uint64 `json:"flags"`
}

// PreferenceChanged is emitted when a preference is written or deleted.
type PreferenceChanged struct {
	BaseEvent
	Key     string `json:"key"`
	Deleted bool   `json:"deleted,omitempty"`
}

// DownloadStateChanged is emitted when an episode download moves between states.
type DownloadStateChanged struct {
	BaseEvent
	EpisodeID int64  `json:"episode_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Progress  int    `json:"progress"`
}

// ConnectionChanged is emitted when a third-party connection logs in or out.
type ConnectionChanged struct {
	BaseEvent
	ServiceID int64  `json:"service_id"`
	Service   string `json:"service"`
}
