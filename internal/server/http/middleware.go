package httpserver

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Logging returns a middleware for structured request logging.
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// metadata only, never payloads
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("dur", time.Since(start)),
				zap.String("peer", r.RemoteAddr),
			)
		})
	}
}

// Recover returns a middleware that recovers from handler panics.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					respondJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// authenticate parses the bearer token, checks the session is still valid,
// and stores the resulting Principal in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			s.error(w, errs.ErrUnauthorized)
			return
		}
		claims, err := s.parser.Parse(raw)
		if err != nil {
			s.error(w, err)
			return
		}
		ownerID, err := uuid.FromString(claims.Subject)
		if err != nil {
			s.error(w, errs.ErrUnauthorized)
			return
		}
		jti, err := uuid.FromString(claims.ID)
		if err != nil {
			s.error(w, errs.ErrUnauthorized)
			return
		}

		// A blacklisted or unknown session invalidates the token immediately,
		// regardless of its expiry.
		valid, err := s.svc.Sessions.ValidSession(r.Context(), ownerID, jti)
		if err != nil {
			s.error(w, err)
			return
		}
		if !valid {
			s.error(w, errs.ErrUnauthorized)
			return
		}

		p := model.Principal{
			UserID:   ownerID,
			Username: claims.Username,
			Roles:    rolesFromStrings(claims.Roles),
			DeviceID: claims.DeviceID,
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return h[len(prefix):], true
}

func rolesFromStrings(in []string) []model.Role {
	out := make([]model.Role, 0, len(in))
	for _, r := range in {
		out = append(out, model.Role(r))
	}
	return out
}
