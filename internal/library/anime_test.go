package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddAnime(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	a := newTestAnime("Frieren")
	a.OgGenre = []string{"Adventure", "Fantasy"}
	a.EpisodeFlags = EpisodeSortAsc | EpisodeShowBookmarked

	before := time.Now().UnixMilli()
	require.NoError(t, store.AddAnime(ctx, a))

	assert.Positive(t, a.ID)
	assert.GreaterOrEqual(t, a.LastModifiedAt, before)

	got, err := store.GetAnime(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frieren", got.Title())
	assert.Equal(t, []string{"Adventure", "Fantasy"}, got.Genre())
	assert.Equal(t, EpisodeSortAsc|EpisodeShowBookmarked, got.EpisodeFlags)
	assert.Nil(t, got.Custom)
	assert.Nil(t, got.Description())
}

func TestStore_AddAnime_Duplicate(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	addTestAnime(t, store, "Mushishi")
	err := store.AddAnime(ctx, newTestAnime("Mushishi"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStore_GetAnime_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.GetAnime(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetAnimeByURL(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	a := addTestAnime(t, store, "Monster")

	got, err := store.GetAnimeByURL(ctx, a.Source, a.URL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)

	got, err = store.GetAnimeByURL(ctx, a.Source, "/missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_UpdateAnime_Partial(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	a := addTestAnime(t, store, "Cowboy Bebop")
	a.ViewerFlags = 85

	require.NoError(t, store.UpdateAnime(ctx, AnimeUpdate{ID: a.ID, EpisodeFlags: ptr(EpisodeSortingAlphabet)}))

	got, err := store.GetAnime(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, EpisodeSortingAlphabet, got.EpisodeFlags)
	assert.Equal(t, "Cowboy Bebop", got.Title(), "untouched columns keep their values")
	assert.Zero(t, got.ViewerFlags)
}

func TestStore_UpdateAnime_HighBitFlags(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	a := addTestAnime(t, store, "Trigun")

	flags := uint64(0xFFFFFFFF000000) | 0xC00 | 85
	require.NoError(t, store.UpdateAnime(ctx, AnimeUpdate{ID: a.ID, ViewerFlags: &flags}))

	got, err := store.GetAnime(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, flags, got.ViewerFlags)
	assert.Equal(t, 85, got.SkipIntroLength())
	assert.Equal(t, 12, got.NextEpisodeToAir())
}

func TestStore_UpdateAnime_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	err := store.UpdateAnime(context.Background(), AnimeUpdate{ID: 42, Favorite: ptr(true)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateAnime_FavoriteStampsModifiedAt(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	a := addTestAnime(t, store, "Haikyu")

	require.NoError(t, store.UpdateAnime(ctx, AnimeUpdate{ID: a.ID, Favorite: ptr(true)}))

	got, err := store.GetAnime(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)
	require.NotNil(t, got.FavoriteModifiedAt)
	assert.Equal(t, got.LastModifiedAt, *got.FavoriteModifiedAt)
}

func TestStore_UpdateAllAnime_Atomic(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	a := addTestAnime(t, store, "Akira")
	b := addTestAnime(t, store, "Paprika")

	err := store.UpdateAllAnime(ctx, []AnimeUpdate{
		{ID: a.ID, Favorite: ptr(true)},
		{ID: 9999, Favorite: ptr(true)},
	})
	require.ErrorIs(t, err, ErrNotFound)

	got, err := store.GetAnime(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Favorite, "failed batch must not leave partial writes")

	require.NoError(t, store.UpdateAllAnime(ctx, []AnimeUpdate{
		{ID: a.ID, Favorite: ptr(true)},
		{ID: b.ID, Favorite: ptr(true)},
	}))
	favs, total, err := store.ListAnime(ctx, AnimeFilter{Favorite: ptr(true)})
	require.NoError(t, err)
	assert.Len(t, favs, 2)
	assert.Equal(t, 2, total)
}

func TestStore_UpdateAllAnime_Empty(t *testing.T) {
	store := NewStore(setupTestDB(t))
	assert.NoError(t, store.UpdateAllAnime(context.Background(), nil))
}

func TestStore_ListAnime_Filters(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	for _, title := range []string{"Naruto", "Naruto Shippuden", "Bleach", "One Piece"} {
		addTestAnime(t, store, title)
	}

	got, total, err := store.ListAnime(ctx, AnimeFilter{TitleContains: ptr("naruto")})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, total)

	got, total, err = store.ListAnime(ctx, AnimeFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 4, total)
	assert.Equal(t, "Naruto Shippuden", got[0].Title())
}

func TestStore_ListAnime_FuzzyQuery(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	for _, title := range []string{"Pokémon", "Bleach", "Steins;Gate"} {
		addTestAnime(t, store, title)
	}

	got, total, err := store.ListAnime(ctx, AnimeFilter{Query: ptr("pokemon")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Pokémon", got[0].Title())

	got, _, err = store.ListAnime(ctx, AnimeFilter{Query: ptr("steins gate")})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Steins;Gate", got[0].Title())
}

func TestStore_CustomInfo(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	a := addTestAnime(t, store, "Shingeki no Kyojin")

	require.NoError(t, store.SetCustomInfo(ctx, CustomInfo{AnimeID: a.ID, Title: ptr("Attack on Titan")}))

	got, err := store.GetAnime(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Custom)
	assert.Equal(t, "Shingeki no Kyojin", got.Title(), "overrides apply to favorites only")

	got.Favorite = true
	assert.Equal(t, "Attack on Titan", got.Title())

	require.NoError(t, store.DeleteCustomInfo(ctx, a.ID))
	got, err = store.GetAnime(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Custom)
}

func TestStore_DeleteAnime_Idempotent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()
	a := addTestAnime(t, store, "Dorohedoro")

	require.NoError(t, store.DeleteAnime(ctx, a.ID))
	require.NoError(t, store.DeleteAnime(ctx, a.ID))

	_, err := store.GetAnime(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTx_Rollback(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	a := newTestAnime("Rollback")
	require.NoError(t, tx.AddAnime(ctx, a))

	got, err := tx.GetAnime(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rollback", got.Title())

	require.NoError(t, tx.Rollback())

	_, err = store.GetAnime(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTx_Commit(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	a := newTestAnime("Committed")
	require.NoError(t, tx.AddAnime(ctx, a))
	require.NoError(t, tx.AddEpisode(ctx, &Episode{AnimeID: a.ID, URL: "/ep/1", Name: "Episode 1", EpisodeNumber: 1}))
	require.NoError(t, tx.Commit())

	eps, total, err := store.ListEpisodes(ctx, EpisodeFilter{AnimeID: &a.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, eps, 1)
}
