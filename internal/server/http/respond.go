package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errs.Validation(errs.FieldError{Field: "body", Cause: errs.CauseMissing})
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return errs.Validation(errs.FieldError{Field: "body", Cause: errs.CauseIllegalValue})
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// error maps domain errors to HTTP statuses and writes the JSON body.
func (s *Server) error(w http.ResponseWriter, err error) {
	status, payload := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	respondJSON(w, status, payload)
}

func statusFor(err error) (int, any) {
	var (
		ve  *errs.ValidationError
		uv  *errs.UniqueViolationError
		ise *errs.IllegalStateError
		pe  *errs.PairingExhaustedError
	)
	switch {
	case errors.As(err, &ve):
		violations := make([]map[string]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			violations = append(violations, map[string]string{"field": fe.Field, "cause": string(fe.Cause)})
		}
		return http.StatusBadRequest, map[string]any{"error": "validation failed", "violations": violations}
	case errors.As(err, &uv):
		return http.StatusConflict, map[string]any{"error": uv.Message, "fields": uv.Fields}
	case errors.As(err, &ise):
		return http.StatusConflict, map[string]any{"error": ise.Reason, "entity": ise.Entity}
	case errors.As(err, &pe):
		return http.StatusInternalServerError, map[string]any{"error": "could not allocate a session id"}
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, map[string]any{"error": "not found"}
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, map[string]any{"error": "forbidden"}
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, map[string]any{"error": "unauthorized"}
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests, map[string]any{"error": "too many attempts"}
	default:
		return http.StatusInternalServerError, map[string]any{"error": "internal"}
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	v, err := uuid.FromString(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errs.Validation(errs.FieldError{Field: name, Cause: errs.CauseIllegalValue})
	}
	return v, nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errs.Validation(errs.FieldError{Field: name, Cause: errs.CauseIllegalValue})
	}
	return v, nil
}
