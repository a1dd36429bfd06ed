package interactor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/animelib/internal/interactor"
	"github.com/vmunix/animelib/internal/library"
	"github.com/vmunix/animelib/internal/library/mocks"
)

func TestSetViewerFlags_SkipIntroLength(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAnimeRepository(ctrl)
	repo.EXPECT().
		UpdateAnime(gomock.Any(), library.AnimeUpdate{ID: 2, ViewerFlags: ptr(uint64(0xC00 | 90))}).
		Return(nil)

	s := interactor.NewSetViewerFlags(repo, nil, testLogger())
	a := &library.Anime{ID: 2, ViewerFlags: 0xC00 | 85}
	assert.True(t, s.SetSkipIntroLength(context.Background(), a, 90))
}

func TestSetViewerFlags_SkipIntroLength_OutOfRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAnimeRepository(ctrl)

	s := interactor.NewSetViewerFlags(repo, nil, testLogger())
	a := &library.Anime{ID: 2}
	assert.False(t, s.SetSkipIntroLength(context.Background(), a, 256), "would spill into the airing episode")
	assert.False(t, s.SetSkipIntroLength(context.Background(), a, -1))
}

func TestSetViewerFlags_NextEpisodeAiring(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAnimeRepository(ctrl)

	var stored uint64
	repo.EXPECT().UpdateAnime(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u library.AnimeUpdate) error {
			stored = *u.ViewerFlags
			return nil
		})

	s := interactor.NewSetViewerFlags(repo, nil, testLogger())
	a := &library.Anime{ID: 2, ViewerFlags: 85}
	assert.True(t, s.SetNextEpisodeAiring(context.Background(), a, 12, 1700000000))

	got := &library.Anime{ViewerFlags: stored}
	assert.Equal(t, 85, got.SkipIntroLength(), "intro length survives")
	assert.Equal(t, 12, got.NextEpisodeToAir())
	assert.Equal(t, int64(1700000000), got.NextEpisodeAiringAt())
}

func TestSetViewerFlags_NextEpisodeAiring_TooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAnimeRepository(ctrl)

	s := interactor.NewSetViewerFlags(repo, nil, testLogger())
	assert.False(t, s.SetNextEpisodeAiring(context.Background(), &library.Anime{ID: 2}, 0x10000, 0))
	assert.False(t, s.SetNextEpisodeAiring(context.Background(), &library.Anime{ID: 2}, 1, 1<<32))
}
