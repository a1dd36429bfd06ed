package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/animelib/pkg/flagword"
)

func TestEpisodeFlagLayout_FieldsDisjoint(t *testing.T) {
	// The layout constructor rejects overlaps; reaching here means it accepted them.
	assert.Equal(t, EpisodeSortDirMask|EpisodeUnseenMask|EpisodeDownloadedMask|EpisodeBookmarkedMask|
		EpisodeFillermarkedMask|EpisodeSortingMask|EpisodeDisplayMask, EpisodeFlagLayout.Mask())
	assert.Equal(t, AnimeIntroMask|AnimeAiringEpisodeMask|AnimeAiringTimeMask, ViewerFlagLayout.Mask())
}

func TestValidEpisodeFlag(t *testing.T) {
	for mask, values := range episodeFlagValues {
		for _, v := range values {
			assert.True(t, ValidEpisodeFlag(v, mask), "value %#x mask %#x", v, mask)
			assert.Zero(t, v&^mask, "value %#x spills outside mask %#x", v, mask)
		}
	}
	assert.False(t, ValidEpisodeFlag(EpisodeUnseenMask, EpisodeUnseenMask), "both bits set is not a named value")
	assert.False(t, ValidEpisodeFlag(EpisodeShowBookmarked, EpisodeUnseenMask))
	assert.False(t, ValidEpisodeFlag(0, 0x8000))
}

func TestAnime_FilterAccessors(t *testing.T) {
	a := &Anime{EpisodeFlags: flagword.Set(0, EpisodeShowBookmarked, EpisodeBookmarkedMask)}
	assert.Equal(t, uint64(0x20), a.EpisodeFlags)
	assert.Equal(t, EpisodeShowBookmarked, a.BookmarkedFilterRaw())
	assert.Equal(t, TriStateEnabledIs, a.BookmarkedFilter())
	assert.Equal(t, TriStateDisabled, a.UnseenFilter())
	assert.True(t, a.EpisodesFiltered(false))

	a.EpisodeFlags = EpisodeShowSeen | EpisodeShowNotFillermarked | EpisodeSortingUploadDate | EpisodeDisplayNumber | EpisodeSortAsc
	assert.Equal(t, TriStateEnabledNot, a.UnseenFilter())
	assert.Equal(t, TriStateEnabledNot, a.FillermarkedFilter())
	assert.Equal(t, EpisodeSortingUploadDate, a.Sorting())
	assert.Equal(t, EpisodeDisplayNumber, a.DisplayMode())
	assert.False(t, a.SortDescending())
}

func TestAnime_DownloadedFilter_DownloadedOnly(t *testing.T) {
	a := &Anime{EpisodeFlags: EpisodeShowNotDownloaded}
	assert.Equal(t, TriStateEnabledNot, a.DownloadedFilter(true), "non-favorites keep their own filter")

	a.Favorite = true
	assert.Equal(t, TriStateEnabledIs, a.DownloadedFilter(true))
	assert.Equal(t, TriStateEnabledNot, a.DownloadedFilter(false))

	a.EpisodeFlags = 0
	assert.False(t, a.EpisodesFiltered(false))
	assert.True(t, a.EpisodesFiltered(true))
}

func TestAnime_ViewerAccessors(t *testing.T) {
	var flags uint64
	var err error
	flags, err = ViewerFlagLayout.SetScaled(flags, FieldIntro, 85)
	require.NoError(t, err)
	flags, err = ViewerFlagLayout.SetScaled(flags, FieldAiringEpisode, 12)
	require.NoError(t, err)
	flags, err = ViewerFlagLayout.SetScaled(flags, FieldAiringTime, 1700000000)
	require.NoError(t, err)

	a := &Anime{ViewerFlags: flags}
	assert.Equal(t, 85, a.SkipIntroLength())
	assert.Equal(t, 12, a.NextEpisodeToAir())
	assert.Equal(t, int64(1700000000), a.NextEpisodeAiringAt())
}

func TestTriState(t *testing.T) {
	assert.Equal(t, TriStateEnabledIs, TriStateDisabled.Next())
	assert.Equal(t, TriStateEnabledNot, TriStateEnabledIs.Next())
	assert.Equal(t, TriStateDisabled, TriStateEnabledNot.Next())
	assert.Equal(t, "ENABLED_NOT", TriStateEnabledNot.String())
	assert.Equal(t, "DISABLED", TriState(9).String())

	for _, ts := range TriStates() {
		raw := TriStateFlag(ts, EpisodeShowUnseen, EpisodeShowSeen)
		got := (&Anime{EpisodeFlags: raw}).UnseenFilter()
		assert.Equal(t, ts, got)
	}
}

func TestAnime_CustomInfoOnlyForFavorites(t *testing.T) {
	a := &Anime{
		OgTitle:  "Original",
		OgStatus: 1,
		Custom:   &CustomInfo{Title: ptr("Custom"), Status: ptr(int64(2)), Genre: []string{"Drama"}},
	}
	assert.Equal(t, "Original", a.Title())
	assert.Equal(t, int64(1), a.Status())
	assert.Nil(t, a.Genre())

	a.Favorite = true
	assert.Equal(t, "Custom", a.Title())
	assert.Equal(t, int64(2), a.Status())
	assert.Equal(t, []string{"Drama"}, a.Genre())
}

func TestAnime_ToUpdate(t *testing.T) {
	a := &Anime{ID: 3, OgTitle: "Title", EpisodeFlags: EpisodeSortAsc}
	u := a.ToUpdate()
	assert.Equal(t, int64(3), u.ID)
	require.NotNil(t, u.EpisodeFlags)
	assert.Equal(t, EpisodeSortAsc, *u.EpisodeFlags)
	assert.False(t, u.IsEmpty())
	assert.True(t, AnimeUpdate{ID: 3}.IsEmpty())
}

func TestAnimeUpdate_Fields(t *testing.T) {
	u := AnimeUpdate{ID: 1, Favorite: ptr(true), DateAdded: ptr(int64(0)), Genre: []string{}}
	assert.Equal(t, []string{"favorite", "date_added", "genre"}, u.Fields())
	assert.Nil(t, AnimeUpdate{ID: 1}.Fields())
}
