package library

// AnimeFilter specifies criteria for listing entries.
type AnimeFilter struct {
	Favorite *bool
	Source   *int64
	URL      *string
	// TitleContains matches a case-insensitive substring of the source title.
	TitleContains *string
	// Query ranks results by fuzzy title similarity and drops poor matches.
	Query  *string
	Limit  int // 0 = no limit
	Offset int
}

// EpisodeFilter specifies criteria for listing episodes.
type EpisodeFilter struct {
	AnimeID    *int64
	Seen       *bool
	Bookmark   *bool
	Fillermark *bool
	Limit      int
	Offset     int
}
