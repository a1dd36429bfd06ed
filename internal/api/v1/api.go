// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vmunix/animelib/internal/library"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	log  *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{deps: deps, log: log.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Library
	mux.HandleFunc("GET /api/v1/anime", s.listAnime)
	mux.HandleFunc("GET /api/v1/anime/{id}", s.getAnime)
	mux.HandleFunc("PATCH /api/v1/anime/{id}", s.updateAnime)
	mux.HandleFunc("GET /api/v1/anime/{id}/episodes", s.listEpisodes)
	mux.HandleFunc("PATCH /api/v1/episodes/{id}", s.updateEpisode)

	// Episode list settings
	mux.HandleFunc("PUT /api/v1/anime/{id}/episode-flags", s.setAllEpisodeFlags)
	mux.HandleFunc("DELETE /api/v1/anime/{id}/episode-flags", s.resetEpisodeFlags)
	mux.HandleFunc("PUT /api/v1/anime/{id}/filters/{name}", s.setEpisodeFilter)
	mux.HandleFunc("POST /api/v1/anime/{id}/sorting", s.setEpisodeSorting)
	mux.HandleFunc("PUT /api/v1/anime/{id}/display", s.setEpisodeDisplay)

	// Player settings
	mux.HandleFunc("PUT /api/v1/anime/{id}/skip-intro", s.setSkipIntro)
	mux.HandleFunc("PUT /api/v1/anime/{id}/airing", s.setAiring)

	// Library sort
	mux.HandleFunc("GET /api/v1/library/sort", s.getLibrarySort)
	mux.HandleFunc("PUT /api/v1/library/sort", s.setLibrarySort)

	// Preferences
	mux.HandleFunc("GET /api/v1/preferences", s.listPreferences)
	mux.HandleFunc("GET /api/v1/preferences/{key}", s.getPreference)
	mux.HandleFunc("PUT /api/v1/preferences/{key}", s.setPreference)
	mux.HandleFunc("DELETE /api/v1/preferences/{key}", s.deletePreference)

	// Trackers & connections
	mux.HandleFunc("GET /api/v1/trackers", s.listTrackers)
	mux.HandleFunc("POST /api/v1/trackers/{id}/login", s.loginTracker)
	mux.HandleFunc("POST /api/v1/trackers/{id}/logout", s.logoutTracker)
	mux.HandleFunc("GET /api/v1/connections", s.listConnections)
	mux.HandleFunc("POST /api/v1/connections/{id}/login", s.loginConnection)
	mux.HandleFunc("POST /api/v1/connections/{id}/logout", s.logoutConnection)

	// Downloads
	mux.HandleFunc("GET /api/v1/downloads", s.requireDownloads(s.listDownloads))
	mux.HandleFunc("GET /api/v1/episodes/{id}/download", s.requireDownloads(s.getDownload))
	mux.HandleFunc("POST /api/v1/episodes/{id}/download", s.requireDownloads(s.applyDownloadAction))

	// Events
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))
	mux.HandleFunc("GET /api/v1/anime/{id}/events", s.requireEventLog(s.listAnimeEvents))

	// System
	mux.HandleFunc("POST /api/v1/crash-logs", s.dumpCrashLogs)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts the integer {id} from the URL path.
func pathID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.New("missing path parameter: id")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

// queryBool extracts an optional boolean from query string.
func queryBool(r *http.Request, name string) *bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &b
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return false
	}
	return true
}

// loadAnime resolves {id} to an entry, writing the error response on failure.
func (s *Server) loadAnime(w http.ResponseWriter, r *http.Request) (*library.Anime, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return nil, false
	}
	a, err := s.deps.Library.GetAnime(r.Context(), id)
	if errors.Is(err, library.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Anime not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return nil, false
	}
	return a, true
}

// respondAnime re-reads the entry after an interactor ran. A false result
// from the interactor means the change was rejected or failed and was logged.
func (s *Server) respondAnime(w http.ResponseWriter, r *http.Request, id int64, ok bool) {
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "UPDATE_FAILED", "Update was not applied")
		return
	}
	a, err := s.deps.Library.GetAnime(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toAnimeResponse(a, s.downloadedOnly(r)))
}

func (s *Server) downloadedOnly(r *http.Request) bool {
	v, err := s.deps.BasePrefs.DownloadedOnly().Get(r.Context())
	if err != nil {
		s.log.Warn("read downloaded-only preference", "error", err)
	}
	return v
}

func (s *Server) listAnime(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit < 0 || offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}

	filter := library.AnimeFilter{
		Favorite: queryBool(r, "favorite"),
		Query:    queryString(r, "q"),
		Limit:    limit,
		Offset:   offset,
	}
	items, total, err := s.deps.Library.ListAnime(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	downloadedOnly := s.downloadedOnly(r)
	resp := listAnimeResponse{
		Items:  make([]animeResponse, len(items)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i, a := range items {
		resp.Items[i] = toAnimeResponse(a, downloadedOnly)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getAnime(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toAnimeResponse(a, s.downloadedOnly(r)))
}

func (s *Server) updateAnime(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	var req updateAnimeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Favorite != nil && *req.Favorite != a.Favorite {
		if !s.deps.UpdateAnime.UpdateFavorite(r.Context(), a.ID, *req.Favorite) {
			s.respondAnime(w, r, a.ID, false)
			return
		}
	}

	upd := library.AnimeUpdate{
		ID:          a.ID,
		Title:       req.Title,
		Author:      req.Author,
		Artist:      req.Artist,
		Description: req.Description,
		Genre:       req.Genre,
		Status:      req.Status,
	}
	if !upd.IsEmpty() && !s.deps.UpdateAnime.Update(r.Context(), upd) {
		s.respondAnime(w, r, a.ID, false)
		return
	}
	s.respondAnime(w, r, a.ID, true)
}

func (s *Server) listEpisodes(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)
	if limit < 0 || offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}

	eps, total, err := s.deps.Library.ListEpisodes(r.Context(), library.EpisodeFilter{
		AnimeID:    &a.ID,
		Seen:       queryBool(r, "seen"),
		Bookmark:   queryBool(r, "bookmark"),
		Fillermark: queryBool(r, "fillermark"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	resp := listEpisodesResponse{
		Items:  make([]episodeResponse, len(eps)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i, e := range eps {
		resp.Items[i] = toEpisodeResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// updateEpisode changes the per-episode progress marks.
func (s *Server) updateEpisode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.episodeID(w, r)
	if !ok {
		return
	}
	var req updateEpisodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.LastSecondSeen != nil && *req.LastSecondSeen < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "last_second_seen must be non-negative")
		return
	}

	upd := library.EpisodeUpdate{
		ID:             id,
		Seen:           req.Seen,
		Bookmark:       req.Bookmark,
		Fillermark:     req.Fillermark,
		LastSecondSeen: req.LastSecondSeen,
	}
	if err := s.deps.Library.UpdateEpisode(r.Context(), upd); err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	e, err := s.deps.Library.GetEpisode(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toEpisodeResponse(e))
}

func (s *Server) dumpCrashLogs(w http.ResponseWriter, r *http.Request) {
	if s.deps.CrashLogs == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Crash logs not configured")
		return
	}
	path, err := s.deps.CrashLogs.Dump(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "CRASH_LOG_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, crashLogResponse{Path: path})
}
