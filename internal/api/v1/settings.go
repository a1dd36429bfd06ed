package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vmunix/animelib/internal/connections"
	"github.com/vmunix/animelib/internal/preference"
	"github.com/vmunix/animelib/internal/tracker"
)

// hiddenPreference reports keys the API never exposes.
func hiddenPreference(key string) bool {
	return preference.IsAppStateKey(key) || preference.IsSecretKey(key)
}

func (s *Server) listPreferences(w http.ResponseWriter, r *http.Request) {
	keys, err := s.deps.Preferences.Keys(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "PREFERENCE_ERROR", err.Error())
		return
	}
	items := make([]preferenceResponse, 0, len(keys))
	for _, key := range keys {
		if hiddenPreference(key) {
			continue
		}
		value, ok, err := s.deps.Preferences.Get(r.Context(), key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "PREFERENCE_ERROR", err.Error())
			return
		}
		if ok {
			items = append(items, preferenceResponse{Key: key, Value: value})
		}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) getPreference(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if hiddenPreference(key) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Preference not found")
		return
	}
	value, ok, err := s.deps.Preferences.Get(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "PREFERENCE_ERROR", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Preference not found")
		return
	}
	writeJSON(w, http.StatusOK, preferenceResponse{Key: key, Value: value})
}

func (s *Server) setPreference(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if hiddenPreference(key) {
		writeError(w, http.StatusForbidden, "READ_ONLY", "Preference cannot be set through the API")
		return
	}
	var req setPreferenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.deps.Preferences.Set(r.Context(), key, req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, "PREFERENCE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, preferenceResponse{Key: key, Value: req.Value})
}

func (s *Server) deletePreference(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if hiddenPreference(key) {
		writeError(w, http.StatusForbidden, "READ_ONLY", "Preference cannot be deleted through the API")
		return
	}
	if err := s.deps.Preferences.Delete(r.Context(), key); err != nil {
		writeError(w, http.StatusInternalServerError, "PREFERENCE_ERROR", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// service is what trackers and connections have in common.
type service interface {
	IsLoggedIn(ctx context.Context) (bool, error)
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
}

func serviceInfo(ctx context.Context, id int64, name string, color uint32, svc service) (serviceResponse, error) {
	loggedIn, err := svc.IsLoggedIn(ctx)
	if err != nil {
		return serviceResponse{}, err
	}
	return serviceResponse{ID: id, Name: name, LogoColor: fmt.Sprintf("#%06X", color), LoggedIn: loggedIn}, nil
}

func (s *Server) listTrackers(w http.ResponseWriter, r *http.Request) {
	all := s.deps.Trackers.All()
	resp := make([]serviceResponse, 0, len(all))
	for _, t := range all {
		info, err := serviceInfo(r.Context(), t.ID, t.Name, t.LogoColor, t)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "PREFERENCE_ERROR", err.Error())
			return
		}
		resp = append(resp, info)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) lookupTracker(w http.ResponseWriter, r *http.Request) (*tracker.Tracker, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return nil, false
	}
	t, err := s.deps.Trackers.Get(id)
	if errors.Is(err, tracker.ErrUnknownTracker) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Tracker not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return nil, false
	}
	return t, true
}

func (s *Server) loginTracker(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTracker(w, r)
	if !ok {
		return
	}
	s.login(w, r, t, func(ctx context.Context) (serviceResponse, error) {
		return serviceInfo(ctx, t.ID, t.Name, t.LogoColor, t)
	})
}

func (s *Server) logoutTracker(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTracker(w, r)
	if !ok {
		return
	}
	s.logout(w, r, t, func(ctx context.Context) (serviceResponse, error) {
		return serviceInfo(ctx, t.ID, t.Name, t.LogoColor, t)
	})
}

func (s *Server) listConnections(w http.ResponseWriter, r *http.Request) {
	all := s.deps.Connections.All()
	resp := make([]serviceResponse, 0, len(all))
	for _, c := range all {
		info, err := serviceInfo(r.Context(), c.ID, c.Name, c.LogoColor, c)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "PREFERENCE_ERROR", err.Error())
			return
		}
		resp = append(resp, info)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) lookupConnection(w http.ResponseWriter, r *http.Request) (*connections.Connection, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return nil, false
	}
	c, err := s.deps.Connections.Get(id)
	if errors.Is(err, connections.ErrUnknownConnection) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Connection not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return nil, false
	}
	return c, true
}

func (s *Server) loginConnection(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookupConnection(w, r)
	if !ok {
		return
	}
	s.login(w, r, c, func(ctx context.Context) (serviceResponse, error) {
		return serviceInfo(ctx, c.ID, c.Name, c.LogoColor, c)
	})
}

func (s *Server) logoutConnection(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookupConnection(w, r)
	if !ok {
		return
	}
	s.logout(w, r, c, func(ctx context.Context) (serviceResponse, error) {
		return serviceInfo(ctx, c.ID, c.Name, c.LogoColor, c)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, svc service, info func(context.Context) (serviceResponse, error)) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "MISSING_CREDENTIALS", "username and password are required")
		return
	}
	if err := svc.Login(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, http.StatusInternalServerError, "LOGIN_FAILED", err.Error())
		return
	}
	s.respondService(w, r, info)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request, svc service, info func(context.Context) (serviceResponse, error)) {
	if err := svc.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "LOGOUT_FAILED", err.Error())
		return
	}
	s.respondService(w, r, info)
}

func (s *Server) respondService(w http.ResponseWriter, r *http.Request, info func(context.Context) (serviceResponse, error)) {
	resp, err := info(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "PREFERENCE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
