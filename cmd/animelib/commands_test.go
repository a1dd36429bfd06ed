package main

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/animelib/internal/config"
)

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"on", "ENABLED_IS", false},
		{"ENABLED_IS", "ENABLED_IS", false},
		{"not", "ENABLED_NOT", false},
		{"off", "DISABLED", false},
		{"Disabled", "DISABLED", false},
		{"maybe", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeState(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := parseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestFormatTimeAgo(t *testing.T) {
	assert.Equal(t, "never", formatTimeAgo(0))
	assert.Equal(t, "2 hours ago", formatTimeAgo(time.Now().Add(-2*time.Hour-time.Minute).UnixMilli()))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Shingeki...", truncate("Shingeki no Kyojin", 11))
}

func TestFormatProgress(t *testing.T) {
	d := DownloadResponse{Progress: 40}
	assert.Equal(t, "40%", formatProgress(d))
	d.Indicator.Indeterminate = true
	assert.Equal(t, "...", formatProgress(d))
}

func TestRunAnimeFilter_SendsNormalizedState(t *testing.T) {
	var body map[string]string
	srv := newMockServer(t).
		ExpectPath("/api/v1/anime/5/filters/unseen").
		ExpectPUT().
		DecodeBody(&body).
		RespondJSON(AnimeResponse{ID: 5, Title: "Mushishi"}).
		Build()
	defer srv.Close()
	defer withServerURL(srv.URL)()

	require.NoError(t, runAnimeFilter(animeFilterCmd, []string{"5", "Unseen", "not"}))
	assert.Equal(t, "ENABLED_NOT", body["state"])
}

func TestRunAnimeFilter_InvalidState(t *testing.T) {
	err := runAnimeFilter(animeFilterCmd, []string{"5", "unseen", "sometimes"})
	assert.ErrorContains(t, err, "invalid state")
}

func TestRunDownloadAction_WrapsServerError(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/episodes/3/download").
		RespondAPIError(http.StatusConflict, "ACTION_NOT_ALLOWED", "download is not cancelable").
		Build()
	defer srv.Close()
	defer withServerURL(srv.URL)()

	err := runDownloadAction("3", "CANCEL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancel failed")
	assert.Contains(t, err.Error(), "download is not cancelable")
}

func TestRunEventsCmd_AnimeHistory(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/anime/8/events").
		ExpectGET().
		RespondJSON(ListEventsResponse{Items: []EventResponse{{
			ID: 1, EventType: "anime.updated", EntityType: "anime", EntityID: 8,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}}, Total: 1}).
		Build()
	defer srv.Close()
	defer withServerURL(srv.URL)()

	require.NoError(t, eventsCmd.Flags().Set("anime", "8"))
	defer func() { _ = eventsCmd.Flags().Set("anime", "0") }()
	require.NoError(t, runEventsCmd(eventsCmd, nil))
}

func TestRootCommand_Registered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"anime", "sort", "prefs", "trackers", "connections", "downloads", "events", "crash-logs", "completion", "episode", "config"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestUploadLabel(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "-", uploadLabel(now, 0))
	assert.Equal(t, "Today", uploadLabel(now, now.Add(-time.Hour).UnixMilli()))
	assert.Equal(t, "2024-04-01", uploadLabel(now, time.Date(2024, 4, 1, 9, 0, 0, 0, time.Local).UnixMilli()))
}

func TestEpisodeMarks_OnlyChangedFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Bool("seen", false, "")
	cmd.Flags().Bool("bookmark", false, "")
	cmd.Flags().Bool("filler", false, "")
	cmd.Flags().Int64("progress", 0, "")

	_, err := episodeMarks(cmd)
	assert.ErrorContains(t, err, "nothing to change")

	require.NoError(t, cmd.Flags().Set("seen", "false"))
	require.NoError(t, cmd.Flags().Set("progress", "610"))
	marks, err := episodeMarks(cmd)
	require.NoError(t, err)
	require.NotNil(t, marks.Seen)
	assert.False(t, *marks.Seen)
	assert.Nil(t, marks.Bookmark)
	assert.Nil(t, marks.Fillermark)
	require.NotNil(t, marks.LastSecondSeen)
	assert.Equal(t, int64(610), *marks.LastSecondSeen)
}

func TestRunConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animelib", "config.toml")
	require.NoError(t, runConfigInit(configInitCmd, []string{path}))
	assert.FileExists(t, path)

	t.Setenv("ANIMELIB_DATA", "")
	cfg, err := config.Load(path)
	require.NoError(t, err, "generated config must load as written")
	assert.Equal(t, "./data/animelib.db", cfg.Database.Path)

	err = runConfigInit(configInitCmd, []string{path})
	assert.ErrorIs(t, err, config.ErrConfigExists)
}

func TestCompleteArgs(t *testing.T) {
	complete := animeFilterCmd.ValidArgsFunction
	require.NotNil(t, complete)

	got, directive := complete(animeFilterCmd, nil, "")
	assert.Empty(t, got, "anime IDs are not completed")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	got, _ = complete(animeFilterCmd, []string{"7"}, "b")
	assert.Equal(t, []string{"bookmarked"}, got)

	got, _ = complete(animeFilterCmd, []string{"7", "unseen"}, "enabled")
	assert.Equal(t, []string{"ENABLED_IS", "ENABLED_NOT"}, got)

	got, _ = complete(animeFilterCmd, []string{"7", "unseen", "on"}, "")
	assert.Empty(t, got)

	got, _ = animeSortCmd.ValidArgsFunction(animeSortCmd, []string{"7"}, "u")
	assert.Equal(t, []string{"UPLOAD_DATE"}, got)
}

func TestLibrarySortCompletion(t *testing.T) {
	sorts := librarySorts()
	assert.Len(t, sorts, 22)
	assert.Contains(t, sorts, "DATE_ADDED,DESCENDING")
	assert.Contains(t, sorts, "ALPHABETICAL,ASCENDING")

	got, _ := librarySortCmd.ValidArgsFunction(librarySortCmd, nil, "airing")
	assert.Equal(t, []string{"AIRING_TIME,ASCENDING", "AIRING_TIME,DESCENDING"}, got)
}

func TestRunConfigPath_All(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ANIMELIB_DATA", "")
	require.NoError(t, configPathCmd.Flags().Set("all", "true"))
	t.Cleanup(func() { _ = configPathCmd.Flags().Set("all", "false") })

	assert.NoError(t, runConfigPath(configPathCmd, nil))
}
