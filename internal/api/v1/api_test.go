// internal/api/v1/api_test.go
package v1

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/animelib/internal/connections"
	"github.com/vmunix/animelib/internal/download"
	"github.com/vmunix/animelib/internal/events"
	"github.com/vmunix/animelib/internal/interactor"
	"github.com/vmunix/animelib/internal/library"
	"github.com/vmunix/animelib/internal/migrations"
	"github.com/vmunix/animelib/internal/preference"
	"github.com/vmunix/animelib/internal/tracker"
)

type testEnv struct {
	srv   *Server
	mux   *http.ServeMux
	lib   *library.Store
	prefs preference.Store
	bus   *events.Bus
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(context.Background(), db), "apply schema")
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	log := testLogger()
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, log)
	t.Cleanup(func() { _ = bus.Close() })

	lib := library.NewStore(db)
	store := preference.NewSQLStore(db, bus, log)
	libPrefs := preference.NewLibraryPreferences(store)

	srv, err := New(ServerDeps{
		Library:      lib,
		Preferences:  store,
		LibraryPrefs: libPrefs,
		BasePrefs:    preference.NewBasePreferences(store, false),
		EpisodeFlags: interactor.NewSetEpisodeFlags(lib, bus, log),
		ViewerFlags:  interactor.NewSetViewerFlags(lib, bus, log),
		UpdateAnime:  interactor.NewUpdateAnime(lib, nil, bus, log),
		SortMode:     interactor.NewSetSortModeForCategory(libPrefs, lib, bus, log),
		Trackers:     tracker.NewManager(preference.NewTrackPreferences(store, nil)),
		Connections:  connections.NewManager(preference.NewConnectionsPreferences(store, nil), bus, log),
		Downloads:    download.NewManager(download.NewStore(db), bus, log),
		EventLog:     eventLog,
	}, log)
	require.NoError(t, err)

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	return &testEnv{srv: srv, mux: mux, lib: lib, prefs: store, bus: bus}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

func (e *testEnv) addAnime(t *testing.T, title string) *library.Anime {
	t.Helper()
	a := library.NewAnime()
	a.Source = 2
	a.URL = "/anime/" + title
	a.OgTitle = title
	require.NoError(t, e.lib.AddAnime(context.Background(), a))
	return a
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_MissingDependency(t *testing.T) {
	_, err := New(ServerDeps{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDependency))
	assert.Contains(t, err.Error(), "library store is required")
}

func TestListAnime(t *testing.T) {
	env := newTestEnv(t)
	env.addAnime(t, "Frieren")
	env.addAnime(t, "Mushishi")

	w := env.do(t, http.MethodGet, "/api/v1/anime?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[listAnimeResponse](t, w)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Items, 1)

	w = env.do(t, http.MethodGet, "/api/v1/anime?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAnime(t *testing.T) {
	env := newTestEnv(t)
	a := env.addAnime(t, "Frieren")

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/anime/%d", a.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[animeResponse](t, w)
	assert.Equal(t, "Frieren", resp.Title)
	assert.Equal(t, "DISABLED", resp.Episodes.Unseen)
	assert.Equal(t, "SOURCE", resp.Episodes.Sorting)
	assert.Equal(t, "NAME", resp.Episodes.Display)

	w = env.do(t, http.MethodGet, "/api/v1/anime/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, "/api/v1/anime/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAnime_Favorite(t *testing.T) {
	env := newTestEnv(t)
	a := env.addAnime(t, "Frieren")
	sub := env.bus.Subscribe(events.EventAnimeUpdated, 4)

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/anime/%d", a.ID), map[string]any{"favorite": true})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[animeResponse](t, w)
	assert.True(t, resp.Favorite)
	assert.Positive(t, resp.DateAdded)

	e := (<-sub).(*events.AnimeUpdated)
	assert.Equal(t, []string{"favorite", "date_added"}, e.Fields)
}

func TestSetEpisodeFilter(t *testing.T) {
	env := newTestEnv(t)
	a := env.addAnime(t, "Frieren")
	path := fmt.Sprintf("/api/v1/anime/%d/filters/bookmarked", a.ID)

	w := env.do(t, http.MethodPut, path, filterRequest{State: "ENABLED_IS"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[animeResponse](t, w)
	assert.Equal(t, "ENABLED_IS", resp.Episodes.Bookmarked)
	assert.Equal(t, library.EpisodeShowBookmarked, resp.EpisodeFlags)

	w = env.do(t, http.MethodPut, path, filterRequest{State: "MAYBE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/anime/%d/filters/watched", a.ID), filterRequest{State: "ENABLED_IS"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetEpisodeSorting_TogglesDirection(t *testing.T) {
	env := newTestEnv(t)
	a := env.addAnime(t, "Frieren")
	path := fmt.Sprintf("/api/v1/anime/%d/sorting", a.ID)

	resp := decode[animeResponse](t, env.do(t, http.MethodPost, path, sortingRequest{Sorting: "NUMBER"}))
	assert.Equal(t, "NUMBER", resp.Episodes.Sorting)
	assert.Equal(t, "ASC", resp.Episodes.Direction)

	resp = decode[animeResponse](t, env.do(t, http.MethodPost, path, sortingRequest{Sorting: "NUMBER"}))
	assert.Equal(t, "NUMBER", resp.Episodes.Sorting)
	assert.Equal(t, "DESC", resp.Episodes.Direction)

	w := env.do(t, http.MethodPost, path, sortingRequest{Sorting: "RANDOM"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetAllEpisodeFlags(t *testing.T) {
	env := newTestEnv(t)
	a := env.addAnime(t, "Frieren")
	start := library.EpisodeShowBookmarked | library.EpisodeSortingAlphabet
	require.NoError(t, env.lib.UpdateAnime(context.Background(), library.AnimeUpdate{ID: a.ID, EpisodeFlags: &start}))
	path := fmt.Sprintf("/api/v1/anime/%d/episode-flags", a.ID)
	changes := env.bus.Subscribe(events.EventEpisodeFlagsChanged, 1)

	settings := episodeSettings{
		Unseen:       "ENABLED_NOT",
		Downloaded:   "DISABLED",
		Bookmarked:   "DISABLED",
		Fillermarked: "ENABLED_IS",
		Sorting:      "UPLOAD_DATE",
		Direction:    "ASC",
		Display:      "NUMBER",
	}
	w := env.do(t, http.MethodPut, path, settings)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[animeResponse](t, w)
	assert.Equal(t, settings, resp.Episodes)
	assert.Equal(t, library.EpisodeShowSeen|library.EpisodeShowFillermarked|library.EpisodeSortingUploadDate|
		library.EpisodeSortAsc|library.EpisodeDisplayNumber, resp.EpisodeFlags)

	select {
	case e := <-changes:
		changed := e.(*events.EpisodeFlagsChanged)
		assert.Equal(t, start, changed.Old)
		assert.Equal(t, resp.EpisodeFlags, changed.New)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}

	settings.Display = "TITLE"
	w = env.do(t, http.MethodPut, path, settings)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetEpisodeFlags(t *testing.T) {
	env := newTestEnv(t)
	a := env.addAnime(t, "Frieren")
	libPrefs := preference.NewLibraryPreferences(env.prefs)
	require.NoError(t, libPrefs.FilterEpisodeByBookmarked().Set(context.Background(), library.EpisodeShowNotBookmarked))

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/anime/%d/episode-flags", a.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[animeResponse](t, w)
	assert.Equal(t, "ENABLED_NOT", resp.Episodes.Bookmarked)
}

func TestViewerFlags(t *testing.T) {
	env := newTestEnv(t)
	a := env.addAnime(t, "Frieren")

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/anime/%d/skip-intro", a.ID), skipIntroRequest{Seconds: 85})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/anime/%d/airing", a.ID), airingRequest{Episode: 12, AiringAt: 1700000000})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[animeResponse](t, w)
	assert.Equal(t, viewerSettings{SkipIntroLength: 85, NextEpisodeToAir: 12, NextEpisodeAiringAt: 1700000000}, resp.Viewer)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/anime/%d/skip-intro", a.ID), skipIntroRequest{Seconds: 300})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "intro length overflows its field")
}

func TestLibrarySort(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.lib.AddCategory(ctx, &library.Category{Name: "Watching", Order: 1}))

	w := env.do(t, http.MethodPut, "/api/v1/library/sort", librarySortRequest{Sort: "DATE_ADDED,DESCENDING"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[librarySortResponse](t, w)
	assert.Equal(t, "DATE_ADDED,DESCENDING", resp.Sort)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "DATE_ADDED,DESCENDING", resp.Categories[0].Sort)

	w = env.do(t, http.MethodPut, "/api/v1/library/sort", librarySortRequest{Sort: "SIDEWAYS"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.prefs.Set(ctx, preference.AppStateKey("first_run"), "false"))
	require.NoError(t, env.prefs.Set(ctx, "pref_mangasync_password_2", "hunter2"))

	w := env.do(t, http.MethodPut, "/api/v1/preferences/pref_library_columns_portrait_key", setPreferenceRequest{Value: "3"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/preferences", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]preferenceResponse](t, w)
	assert.Equal(t, []preferenceResponse{{Key: "pref_library_columns_portrait_key", Value: "3"}}, items)

	w = env.do(t, http.MethodGet, "/api/v1/preferences/pref_mangasync_password_2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPut, "/api/v1/preferences/pref_mangasync_password_2", setPreferenceRequest{Value: "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/preferences/pref_library_columns_portrait_key", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, "/api/v1/preferences/pref_library_columns_portrait_key", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackers(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/trackers/%d/login", tracker.AniListID), loginRequest{Username: "ann", Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[serviceResponse](t, w)
	assert.True(t, resp.LoggedIn)
	assert.Equal(t, "AniList", resp.Name)

	w = env.do(t, http.MethodGet, "/api/v1/trackers", nil)
	all := decode[[]serviceResponse](t, w)
	assert.Len(t, all, len(tracker.NewManager(preference.NewTrackPreferences(preference.NewMemoryStore(nil), nil)).All()))

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/trackers/%d/logout", tracker.AniListID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[serviceResponse](t, w).LoggedIn)

	w = env.do(t, http.MethodPost, "/api/v1/trackers/77/login", loginRequest{Username: "a", Password: "b"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/trackers/%d/login", tracker.AniListID), loginRequest{Username: "a"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConnections(t *testing.T) {
	env := newTestEnv(t)
	sub := env.bus.Subscribe(events.EventConnectionLoggedIn, 1)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/connections/%d/login", connections.DiscordID), loginRequest{Username: "u", Password: "p"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[serviceResponse](t, w)
	assert.True(t, resp.LoggedIn)
	assert.Equal(t, "#5865F2", resp.LogoColor)

	e := (<-sub).(*events.ConnectionChanged)
	assert.Equal(t, connections.DiscordID, e.ServiceID)
}

func TestDownloads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.addAnime(t, "Frieren")
	ep := &library.Episode{AnimeID: a.ID, URL: "/ep/1", Name: "Episode 1", EpisodeNumber: 1}
	require.NoError(t, env.lib.AddEpisode(ctx, ep))
	path := fmt.Sprintf("/api/v1/episodes/%d/download", ep.ID)

	w := env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[downloadResponse](t, w)
	assert.Equal(t, "NOT_DOWNLOADED", resp.State)
	assert.Equal(t, "START", resp.Indicator.Click)

	w = env.do(t, http.MethodPost, path, downloadActionRequest{Action: "START"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[downloadResponse](t, w)
	assert.Equal(t, "QUEUE", resp.State)
	assert.True(t, resp.Indicator.Indeterminate)

	w = env.do(t, http.MethodPost, path, downloadActionRequest{Action: "DELETE"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/downloads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]downloadResponse](t, w), 1)

	w = env.do(t, http.MethodGet, "/api/v1/episodes/999/download", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateEpisode(t *testing.T) {
	env := newTestEnv(t)
	a := env.addAnime(t, "Mushishi")
	ep := &library.Episode{AnimeID: a.ID, URL: "/ep/2", Name: "Episode 2", EpisodeNumber: 2}
	require.NoError(t, env.lib.AddEpisode(context.Background(), ep))
	path := fmt.Sprintf("/api/v1/episodes/%d", ep.ID)

	seen := true
	last := int64(600)
	w := env.do(t, http.MethodPatch, path, updateEpisodeRequest{Seen: &seen, LastSecondSeen: &last})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[episodeResponse](t, w)
	assert.True(t, resp.Seen)
	assert.False(t, resp.Bookmark)
	assert.Equal(t, int64(600), resp.LastSecondSeen)

	neg := int64(-1)
	w = env.do(t, http.MethodPatch, path, updateEpisodeRequest{LastSecondSeen: &neg})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/v1/episodes/999", updateEpisodeRequest{Seen: &seen})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloads_NotConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.srv.deps.Downloads = nil

	w := env.do(t, http.MethodGet, "/api/v1/downloads", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t)
	a := env.addAnime(t, "Frieren")
	env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/anime/%d/display", a.ID), displayRequest{Mode: "NUMBER"})

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/anime/%d/events", a.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[listEventsResponse](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, events.EventEpisodeFlagsChanged, resp.Items[0].EventType)

	w = env.do(t, http.MethodGet, "/api/v1/events?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[listEventsResponse](t, w).Items)
}

type fakeDumper struct {
	path string
	err  error
}

func (f fakeDumper) Dump(context.Context) (string, error) { return f.path, f.err }

func TestCrashLogs(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/crash-logs", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env.srv.deps.CrashLogs = fakeDumper{path: "/cache/animelib_crash_logs.txt"}
	w = env.do(t, http.MethodPost, "/api/v1/crash-logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/cache/animelib_crash_logs.txt", decode[crashLogResponse](t, w).Path)

	env.srv.deps.CrashLogs = fakeDumper{err: errors.New("Failed to get logs")}
	w = env.do(t, http.MethodPost, "/api/v1/crash-logs", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
