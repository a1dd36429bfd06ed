package v1

import (
	"fmt"
	"net/http"

	"github.com/vmunix/animelib/internal/interactor"
	"github.com/vmunix/animelib/internal/library"
	"github.com/vmunix/animelib/internal/preference"
)

func (s *Server) setEpisodeFilter(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	field, known := filterFields[r.PathValue("name")]
	if !known {
		writeError(w, http.StatusNotFound, "UNKNOWN_FILTER", fmt.Sprintf("unknown filter %q", r.PathValue("name")))
		return
	}
	var req filterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	state, err := parseTriState(req.State)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FLAG", err.Error())
		return
	}

	flag := library.TriStateFlag(state, field[1], field[2])
	var applied bool
	switch field[0] {
	case library.EpisodeUnseenMask:
		applied = s.deps.EpisodeFlags.SetUnseenFilter(r.Context(), a, flag)
	case library.EpisodeDownloadedMask:
		applied = s.deps.EpisodeFlags.SetDownloadedFilter(r.Context(), a, flag)
	case library.EpisodeBookmarkedMask:
		applied = s.deps.EpisodeFlags.SetBookmarkFilter(r.Context(), a, flag)
	case library.EpisodeFillermarkedMask:
		applied = s.deps.EpisodeFlags.SetFillermarkFilter(r.Context(), a, flag)
	}
	s.respondAnime(w, r, a.ID, applied)
}

// setEpisodeSorting selects a sorting, or flips the direction when the
// sorting is already selected.
func (s *Server) setEpisodeSorting(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	var req sortingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	flag, known := sortingNames[req.Sorting]
	if !known {
		writeError(w, http.StatusBadRequest, "INVALID_FLAG", fmt.Sprintf("unknown sorting %q", req.Sorting))
		return
	}
	s.respondAnime(w, r, a.ID, s.deps.EpisodeFlags.SetSortingModeOrFlipOrder(r.Context(), a, flag))
}

func (s *Server) setEpisodeDisplay(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	var req displayRequest
	if !decodeBody(w, r, &req) {
		return
	}
	flag, known := displayNames[req.Mode]
	if !known {
		writeError(w, http.StatusBadRequest, "INVALID_FLAG", fmt.Sprintf("unknown display mode %q", req.Mode))
		return
	}
	s.respondAnime(w, r, a.ID, s.deps.EpisodeFlags.SetDisplayMode(r.Context(), a, flag))
}

func (s *Server) setAllEpisodeFlags(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	var req episodeSettings
	if !decodeBody(w, r, &req) {
		return
	}
	settings, err := req.toSettings()
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FLAG", err.Error())
		return
	}
	s.respondAnime(w, r, a.ID, s.deps.EpisodeFlags.ReplaceFlags(r.Context(), a, settings))
}

// resetEpisodeFlags applies the library-wide episode defaults.
func (s *Server) resetEpisodeFlags(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	s.respondAnime(w, r, a.ID, s.deps.EpisodeFlags.SetDefaultFlags(r.Context(), a, s.deps.LibraryPrefs))
}

func (e episodeSettings) toSettings() (interactor.EpisodeSettings, error) {
	var out interactor.EpisodeSettings
	filters := []struct {
		name  string
		state string
		dst   *uint64
	}{
		{"unseen", e.Unseen, &out.Unseen},
		{"downloaded", e.Downloaded, &out.Downloaded},
		{"bookmarked", e.Bookmarked, &out.Bookmarked},
		{"fillermarked", e.Fillermarked, &out.Fillermarked},
	}
	for _, f := range filters {
		state, err := parseTriState(f.state)
		if err != nil {
			return out, fmt.Errorf("%s: %w", f.name, err)
		}
		field := filterFields[f.name]
		*f.dst = library.TriStateFlag(state, field[1], field[2])
	}

	var known bool
	if out.Sorting, known = sortingNames[e.Sorting]; !known {
		return out, fmt.Errorf("unknown sorting %q", e.Sorting)
	}
	if out.Direction, known = directionNames[e.Direction]; !known {
		return out, fmt.Errorf("unknown direction %q", e.Direction)
	}
	if out.Display, known = displayNames[e.Display]; !known {
		return out, fmt.Errorf("unknown display mode %q", e.Display)
	}
	return out, nil
}

func (s *Server) setSkipIntro(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	var req skipIntroRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.respondAnime(w, r, a.ID, s.deps.ViewerFlags.SetSkipIntroLength(r.Context(), a, req.Seconds))
}

func (s *Server) setAiring(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}
	var req airingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.respondAnime(w, r, a.ID, s.deps.ViewerFlags.SetNextEpisodeAiring(r.Context(), a, req.Episode, req.AiringAt))
}

type librarySortResponse struct {
	Sort       string                 `json:"sort"`
	Categories []categorySortResponse `json:"categories"`
}

type categorySortResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Sort string `json:"sort"`
}

func (s *Server) getLibrarySort(w http.ResponseWriter, r *http.Request) {
	global, err := s.deps.LibraryPrefs.SortingMode().Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "PREFERENCE_ERROR", err.Error())
		return
	}
	cats, err := s.deps.Library.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	resp := librarySortResponse{Sort: global.String(), Categories: make([]categorySortResponse, len(cats))}
	for i, c := range cats {
		resp.Categories[i] = categorySortResponse{
			ID:   c.ID,
			Name: c.Name,
			Sort: preference.LibrarySortFromFlags(c.Flags).String(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) setLibrarySort(w http.ResponseWriter, r *http.Request) {
	var req librarySortRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sort, err := preference.ParseLibrarySort(req.Sort)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SORT", err.Error())
		return
	}
	if !s.deps.SortMode.Set(r.Context(), req.CategoryID, sort) {
		writeError(w, http.StatusUnprocessableEntity, "UPDATE_FAILED", "Sort was not applied")
		return
	}
	s.getLibrarySort(w, r)
}
