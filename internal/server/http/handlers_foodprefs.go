package httpserver

import (
	"net/http"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
)

func (s *Server) handleCreatePreference(w http.ResponseWriter, r *http.Request) {
	p, ownerID, err := s.userPath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	var req preferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.error(w, err)
		return
	}
	pref, err := s.svc.Preferences.CreatePreference(r.Context(), p, ownerID, req.Name, req.Temperature)
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPreferenceResponse(*pref))
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	p, ownerID, err := s.userPath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	pref, err := s.svc.Preferences.GetPreference(r.Context(), p, ownerID, chi.URLParam(r, "name"))
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPreferenceResponse(*pref))
}

func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	p, ownerID, err := s.userPath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	prefs, err := s.svc.Preferences.ListPreferences(r.Context(), p, ownerID)
	if err != nil {
		s.error(w, err)
		return
	}
	out := make([]preferenceResponse, 0, len(prefs))
	for _, pref := range prefs {
		out = append(out, toPreferenceResponse(pref))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdatePreference(w http.ResponseWriter, r *http.Request) {
	p, ownerID, err := s.userPath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	var req preferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.error(w, err)
		return
	}
	name := chi.URLParam(r, "name")
	newName := req.Name
	if newName == "" {
		newName = name
	}
	if err := s.svc.Preferences.UpdatePreference(r.Context(), p, ownerID, name, newName, req.Temperature); err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeletePreference(w http.ResponseWriter, r *http.Request) {
	p, ownerID, err := s.userPath(r)
	if err != nil {
		s.error(w, err)
		return
	}
	if err := s.svc.Preferences.DeletePreference(r.Context(), p, ownerID, chi.URLParam(r, "name")); err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) userPath(r *http.Request) (model.Principal, uuid.UUID, error) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		return model.Principal{}, uuid.Nil, errs.ErrUnauthorized
	}
	ownerID, err := uuidParam(r, "userId")
	if err != nil {
		return model.Principal{}, uuid.Nil, err
	}
	return p, ownerID, nil
}
