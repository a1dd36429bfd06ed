// internal/api/v1/types.go
package v1

import (
	"fmt"

	"github.com/vmunix/animelib/internal/library"
)

// animeResponse is the API representation of a library entry.
type animeResponse struct {
	ID             int64           `json:"id"`
	Source         int64           `json:"source"`
	URL            string          `json:"url"`
	Title          string          `json:"title"`
	Author         *string         `json:"author,omitempty"`
	Artist         *string         `json:"artist,omitempty"`
	Description    *string         `json:"description,omitempty"`
	Genre          []string        `json:"genre,omitempty"`
	Status         int64           `json:"status"`
	ThumbnailURL   *string         `json:"thumbnail_url,omitempty"`
	Favorite       bool            `json:"favorite"`
	DateAdded      int64           `json:"date_added"`
	LastUpdate     int64           `json:"last_update"`
	UpdateStrategy string          `json:"update_strategy"`
	Initialized    bool            `json:"initialized"`
	EpisodeFlags   uint64          `json:"episode_flags"`
	ViewerFlags    uint64          `json:"viewer_flags"`
	Episodes       episodeSettings `json:"episode_settings"`
	Viewer         viewerSettings  `json:"viewer_settings"`
}

// episodeSettings is the decoded form of an episode flag word.
type episodeSettings struct {
	Unseen       string `json:"unseen"`
	Downloaded   string `json:"downloaded"`
	Bookmarked   string `json:"bookmarked"`
	Fillermarked string `json:"fillermarked"`
	Sorting      string `json:"sorting"`
	Direction    string `json:"direction"`
	Display      string `json:"display"`
}

type viewerSettings struct {
	SkipIntroLength     int   `json:"skip_intro_length"`
	NextEpisodeToAir    int   `json:"next_episode_to_air"`
	NextEpisodeAiringAt int64 `json:"next_episode_airing_at"`
}

type listAnimeResponse struct {
	Items  []animeResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type episodeResponse struct {
	ID             int64   `json:"id"`
	AnimeID        int64   `json:"anime_id"`
	Name           string  `json:"name"`
	URL            string  `json:"url"`
	EpisodeNumber  float64 `json:"episode_number"`
	Seen           bool    `json:"seen"`
	Bookmark       bool    `json:"bookmark"`
	Fillermark     bool    `json:"fillermark"`
	LastSecondSeen int64   `json:"last_second_seen"`
	TotalSeconds   int64   `json:"total_seconds"`
	DateUpload     int64   `json:"date_upload"`
	Scanlator      *string `json:"scanlator,omitempty"`
}

type listEpisodesResponse struct {
	Items  []episodeResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type updateAnimeRequest struct {
	Favorite    *bool    `json:"favorite"`
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Artist      *string  `json:"artist"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre"`
	Status      *int64   `json:"status"`
}

type updateEpisodeRequest struct {
	Seen           *bool  `json:"seen"`
	Bookmark       *bool  `json:"bookmark"`
	Fillermark     *bool  `json:"fillermark"`
	LastSecondSeen *int64 `json:"last_second_seen"`
}

type filterRequest struct {
	State string `json:"state"`
}

type sortingRequest struct {
	Sorting string `json:"sorting"`
}

type displayRequest struct {
	Mode string `json:"mode"`
}

type skipIntroRequest struct {
	Seconds int `json:"seconds"`
}

type airingRequest struct {
	Episode  int   `json:"episode"`
	AiringAt int64 `json:"airing_at"`
}

type librarySortRequest struct {
	CategoryID *int64 `json:"category_id"`
	Sort       string `json:"sort"`
}

type preferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type setPreferenceRequest struct {
	Value string `json:"value"`
}

type serviceResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LogoColor string `json:"logo_color"`
	LoggedIn  bool   `json:"logged_in"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type downloadResponse struct {
	EpisodeID     int64         `json:"episode_id"`
	State         string        `json:"state"`
	Progress      int           `json:"progress"`
	QueuePosition int64         `json:"queue_position,omitempty"`
	Indicator     indicatorJSON `json:"indicator"`
}

type indicatorJSON struct {
	Indeterminate bool     `json:"indeterminate"`
	Progress      float64  `json:"progress"`
	SizeLabel     string   `json:"size_label,omitempty"`
	Click         string   `json:"click,omitempty"`
	LongPress     string   `json:"long_press,omitempty"`
	Menu          []string `json:"menu,omitempty"`
}

type downloadActionRequest struct {
	Action string `json:"action"`
}

// EventResponse is the API representation of a logged event.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}

type listEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type crashLogResponse struct {
	Path string `json:"path"`
}

var sortingNames = map[string]uint64{
	"SOURCE":      library.EpisodeSortingSource,
	"NUMBER":      library.EpisodeSortingNumber,
	"UPLOAD_DATE": library.EpisodeSortingUploadDate,
	"ALPHABET":    library.EpisodeSortingAlphabet,
}

var displayNames = map[string]uint64{
	"NAME":   library.EpisodeDisplayName,
	"NUMBER": library.EpisodeDisplayNumber,
}

var directionNames = map[string]uint64{
	"ASC":  library.EpisodeSortAsc,
	"DESC": library.EpisodeSortDesc,
}

// episode filter fields by URL name: mask, "is" value, "not" value.
var filterFields = map[string][3]uint64{
	"unseen":       {library.EpisodeUnseenMask, library.EpisodeShowUnseen, library.EpisodeShowSeen},
	"downloaded":   {library.EpisodeDownloadedMask, library.EpisodeShowDownloaded, library.EpisodeShowNotDownloaded},
	"bookmarked":   {library.EpisodeBookmarkedMask, library.EpisodeShowBookmarked, library.EpisodeShowNotBookmarked},
	"fillermarked": {library.EpisodeFillermarkedMask, library.EpisodeShowFillermarked, library.EpisodeShowNotFillermarked},
}

func nameOf(names map[string]uint64, v uint64) string {
	for name, flag := range names {
		if flag == v {
			return name
		}
	}
	return ""
}

func parseTriState(s string) (library.TriState, error) {
	for _, ts := range library.TriStates() {
		if ts.String() == s {
			return ts, nil
		}
	}
	return 0, fmt.Errorf("unknown filter state %q", s)
}

func toAnimeResponse(a *library.Anime, downloadedOnly bool) animeResponse {
	return animeResponse{
		ID:             a.ID,
		Source:         a.Source,
		URL:            a.URL,
		Title:          a.Title(),
		Author:         a.Author(),
		Artist:         a.Artist(),
		Description:    a.Description(),
		Genre:          a.Genre(),
		Status:         a.Status(),
		ThumbnailURL:   a.ThumbnailURL,
		Favorite:       a.Favorite,
		DateAdded:      a.DateAdded,
		LastUpdate:     a.LastUpdate,
		UpdateStrategy: a.UpdateStrategy.String(),
		Initialized:    a.Initialized,
		EpisodeFlags:   a.EpisodeFlags,
		ViewerFlags:    a.ViewerFlags,
		Episodes: episodeSettings{
			Unseen:       a.UnseenFilter().String(),
			Downloaded:   a.DownloadedFilter(downloadedOnly).String(),
			Bookmarked:   a.BookmarkedFilter().String(),
			Fillermarked: a.FillermarkedFilter().String(),
			Sorting:      nameOf(sortingNames, a.Sorting()),
			Direction:    nameOf(directionNames, a.EpisodeFlags&library.EpisodeSortDirMask),
			Display:      nameOf(displayNames, a.DisplayMode()),
		},
		Viewer: viewerSettings{
			SkipIntroLength:     a.SkipIntroLength(),
			NextEpisodeToAir:    a.NextEpisodeToAir(),
			NextEpisodeAiringAt: a.NextEpisodeAiringAt(),
		},
	}
}

func toEpisodeResponse(e *library.Episode) episodeResponse {
	return episodeResponse{
		ID:             e.ID,
		AnimeID:        e.AnimeID,
		Name:           e.Name,
		URL:            e.URL,
		EpisodeNumber:  e.EpisodeNumber,
		Seen:           e.Seen,
		Bookmark:       e.Bookmark,
		Fillermark:     e.Fillermark,
		LastSecondSeen: e.LastSecondSeen,
		TotalSeconds:   e.TotalSeconds,
		DateUpload:     e.DateUpload,
		Scanlator:      e.Scanlator,
	}
}
