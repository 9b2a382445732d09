package httpserver

import (
	"net"
	"net/http"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.error(w, err)
		return
	}
	id, err := s.svc.Auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.error(w, err)
		return
	}
	tokens, user, err := s.svc.Auth.LoginWithIP(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		s.error(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{
		Token:     tokens.AccessToken,
		ExpiresAt: tokens.ExpiresAt,
		User:      toUserResponse(user),
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
