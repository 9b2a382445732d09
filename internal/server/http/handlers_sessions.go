package httpserver

import (
	"net/http"

	"github.com/asadolabs/asador/internal/errs"
)

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		s.error(w, errs.ErrUnauthorized)
		return
	}
	ownerID, err := uuidParam(r, "userId")
	if err != nil {
		s.error(w, err)
		return
	}
	sessions, err := s.svc.Sessions.ListSessions(r.Context(), p, ownerID)
	if err != nil {
		s.error(w, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, toSessionResponse(sess))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleInvalidateSession(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		s.error(w, errs.ErrUnauthorized)
		return
	}
	ownerID, err := uuidParam(r, "userId")
	if err != nil {
		s.error(w, err)
		return
	}
	jti, err := uuidParam(r, "jti")
	if err != nil {
		s.error(w, err)
		return
	}
	if err := s.svc.Sessions.InvalidateSession(r.Context(), p, ownerID, jti); err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
