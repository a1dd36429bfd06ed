package v1

import (
	"errors"
	"net/http"

	"github.com/vmunix/animelib/internal/download"
	"github.com/vmunix/animelib/internal/library"
)

func toDownloadResponse(d *download.Download) downloadResponse {
	ind := d.Indicator()
	resp := downloadResponse{
		EpisodeID:     d.EpisodeID,
		State:         string(d.State),
		Progress:      d.Progress,
		QueuePosition: d.QueuePosition,
		Indicator: indicatorJSON{
			Indeterminate: ind.Indeterminate,
			Progress:      ind.Progress,
			SizeLabel:     ind.SizeLabel,
			Click:         string(ind.Actions.Click),
			LongPress:     string(ind.Actions.LongPress),
		},
	}
	for _, a := range ind.Actions.Menu {
		resp.Indicator.Menu = append(resp.Indicator.Menu, string(a))
	}
	return resp
}

func (s *Server) listDownloads(w http.ResponseWriter, r *http.Request) {
	queue, err := s.deps.Downloads.Queue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}
	resp := make([]downloadResponse, len(queue))
	for i, d := range queue {
		resp[i] = toDownloadResponse(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

// episodeID resolves {id} to an existing episode.
func (s *Server) episodeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return 0, false
	}
	if _, err := s.deps.Library.GetEpisode(r.Context(), id); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Episode not found")
		} else {
			writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		}
		return 0, false
	}
	return id, true
}

func (s *Server) getDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := s.episodeID(w, r)
	if !ok {
		return
	}
	d, err := s.deps.Downloads.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDownloadResponse(d))
}

func (s *Server) applyDownloadAction(w http.ResponseWriter, r *http.Request) {
	id, ok := s.episodeID(w, r)
	if !ok {
		return
	}
	var req downloadActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := s.deps.Downloads.Apply(r.Context(), id, download.Action(req.Action))
	switch {
	case errors.Is(err, download.ErrActionNotAllowed), errors.Is(err, download.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "ACTION_NOT_ALLOWED", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "DOWNLOAD_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDownloadResponse(d))
}
