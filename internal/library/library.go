// Package library manages the anime library (entries, episodes, categories).
package library

import "strings"

// LocalSourceID identifies entries imported from local storage.
const LocalSourceID int64 = 0

// UpdateStrategy controls whether a library refresh re-fetches an entry.
type UpdateStrategy int

const (
	UpdateAlways UpdateStrategy = iota
	UpdateOnlyFetchOnce
)

func (s UpdateStrategy) String() string {
	if s == UpdateOnlyFetchOnce {
		return "only_fetch_once"
	}
	return "always_update"
}

// CustomInfo holds user overrides of source metadata.
// Nil fields fall back to the source value.
type CustomInfo struct {
	AnimeID     int64
	Title       *string
	Author      *string
	Artist      *string
	Description *string
	Genre       []string
	Status      *int64
}

// Anime is a library entry. Epoch timestamps are milliseconds.
type Anime struct {
	ID                 int64
	Source             int64
	Favorite           bool
	LastUpdate         int64
	NextUpdate         int64
	FetchInterval      int
	DateAdded          int64
	ViewerFlags        uint64
	EpisodeFlags       uint64
	CoverLastModified  int64
	URL                string
	OgTitle            string
	OgArtist           *string
	OgAuthor           *string
	OgDescription      *string
	OgGenre            []string
	OgStatus           int64
	ThumbnailURL       *string
	UpdateStrategy     UpdateStrategy
	Initialized        bool
	LastModifiedAt     int64
	FavoriteModifiedAt *int64

	// Custom is only honoured while the entry is a favorite.
	Custom *CustomInfo
}

// NewAnime returns an empty, unsaved entry.
func NewAnime() *Anime {
	return &Anime{
		ID:             -1,
		Source:         -1,
		UpdateStrategy: UpdateAlways,
	}
}

func (a *Anime) custom() *CustomInfo {
	if !a.Favorite {
		return nil
	}
	return a.Custom
}

// Title and the metadata accessors below prefer the user's custom info,
// which only applies to favorites.
func (a *Anime) Title() string {
	if c := a.custom(); c != nil && c.Title != nil {
		return *c.Title
	}
	return a.OgTitle
}

func (a *Anime) Author() *string {
	if c := a.custom(); c != nil && c.Author != nil {
		return c.Author
	}
	return a.OgAuthor
}

func (a *Anime) Artist() *string {
	if c := a.custom(); c != nil && c.Artist != nil {
		return c.Artist
	}
	return a.OgArtist
}

func (a *Anime) Description() *string {
	if c := a.custom(); c != nil && c.Description != nil {
		return c.Description
	}
	return a.OgDescription
}

func (a *Anime) Genre() []string {
	if c := a.custom(); c != nil && c.Genre != nil {
		return c.Genre
	}
	return a.OgGenre
}

func (a *Anime) Status() int64 {
	if c := a.custom(); c != nil && c.Status != nil {
		return *c.Status
	}
	return a.OgStatus
}

// IsLocal reports whether the entry comes from the local source.
func (a *Anime) IsLocal() bool {
	return a.Source == LocalSourceID
}

// Episode is a single episode of an entry.
type Episode struct {
	ID             int64
	AnimeID        int64
	Seen           bool
	Bookmark       bool
	Fillermark     bool
	LastSecondSeen int64
	TotalSeconds   int64
	DateFetch      int64
	SourceOrder    int64
	URL            string
	Name           string
	DateUpload     int64
	EpisodeNumber  float64
	Scanlator      *string
	LastModifiedAt int64
}

// Category groups entries; Flags packs the category's library sort.
type Category struct {
	ID    int64
	Name  string
	Order int64
	Flags uint64
}

// joinGenre and splitGenre store genre lists as a comma separated column.
func joinGenre(g []string) *string {
	if g == nil {
		return nil
	}
	s := strings.Join(g, ", ")
	return &s
}

func splitGenre(s *string) []string {
	if s == nil {
		return nil
	}
	if *s == "" {
		return []string{}
	}
	parts := strings.Split(*s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
