package v1

import (
	"net/http"
	"time"

	"github.com/vmunix/animelib/internal/events"
)

func toEventResponses(raw []events.RawEvent) []EventResponse {
	out := make([]EventResponse, len(raw))
	for i, e := range raw {
		out[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
	}
	return out
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit must be non-negative")
		return
	}
	const maxLimit = 1000
	if limit > maxLimit {
		limit = maxLimit
	}

	recent, err := s.deps.EventLog.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Items: toEventResponses(recent),
		Total: len(recent),
		Limit: limit,
	})
}

func (s *Server) listAnimeEvents(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnime(w, r)
	if !ok {
		return
	}

	history, err := s.deps.EventLog.ForEntity(r.Context(), events.EntityAnime, a.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Items: toEventResponses(history),
		Total: len(history),
		Limit: len(history),
	})
}
