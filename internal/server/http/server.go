// Package httpserver exposes the application services over a JSON REST API.
package httpserver

import (
	"net/http"

	"github.com/asadolabs/asador/internal/service"
	"github.com/asadolabs/asador/internal/token"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TokenParser validates raw bearer tokens.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// Services groups the application services the HTTP layer dispatches to.
type Services struct {
	Auth        service.AuthService
	Sessions    service.SessionService
	Devices     service.DeviceService
	Pairing     service.PairingService
	Preferences service.FoodPreferenceService
}

// Server holds dependencies for the HTTP handlers.
type Server struct {
	svc    Services
	parser TokenParser
	log    *zap.Logger
}

// New constructs the HTTP server layer.
func New(svc Services, parser TokenParser, log *zap.Logger) *Server {
	return &Server{svc: svc, parser: parser, log: log}
}

// Routes builds the router with all endpoints mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(s.log), Logging(s.log))

	r.Post("/users", s.handleRegister)
	r.Post("/login", s.handleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(s.authenticate)

		pr.Route("/devices", func(dr chi.Router) {
			dr.Post("/", s.handleCreateDevice)
			dr.Get("/", s.handleListDevices)
			dr.Route("/{deviceId}", func(one chi.Router) {
				one.Get("/", s.handleGetDevice)
				one.Put("/pair", s.handlePairAsSystem)
				one.Put("/cooking", s.handleStartCooking)
				one.Delete("/cooking", s.handleStopCooking)
				one.Put("/temperature", s.handleUpdateTemperature)
				one.Put("/target-temperature", s.handleSetTargetTemperature)
				one.Delete("/target-temperature", s.handleClearTargetTemperature)
			})
		})

		pr.Route("/users/{userId}", func(ur chi.Router) {
			ur.Get("/sessions", s.handleListSessions)
			ur.Delete("/sessions/{jti}", s.handleInvalidateSession)

			ur.Get("/devices", s.handleListUserDevices)
			ur.Route("/devices/{deviceId}", func(dr chi.Router) {
				dr.Put("/", s.handleRegisterDevice)
				dr.Delete("/", s.handleUnregisterDevice)
				dr.Put("/nickname", s.handleSetNickname)
				dr.Delete("/nickname", s.handleDeleteNickname)
				dr.Put("/pair", s.handlePair)
			})

			ur.Route("/food-preferences", func(fr chi.Router) {
				fr.Post("/", s.handleCreatePreference)
				fr.Get("/", s.handleListPreferences)
				fr.Get("/{name}", s.handleGetPreference)
				fr.Put("/{name}", s.handleUpdatePreference)
				fr.Delete("/{name}", s.handleDeletePreference)
			})
		})
	})

	return r
}
