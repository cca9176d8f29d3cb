package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes sets up API v1 routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	// Health check
	r.Get("/health", s.HandleHealth)

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.HandleLogin)
		r.Post("/refresh", s.HandleRefresh)
	})

	// WebSocket event feed; authenticated inside the handler so browser
	// clients can pass the token as a query parameter.
	r.Get("/ws/events", s.HandleEventSocket)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/refresh", s.HandleAccountRefresh)

		r.Route("/systems", func(r chi.Router) {
			r.Get("/", s.HandleListSystems)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetSystem)
				r.Get("/devices", s.HandleListDevices)
				r.Post("/arm", s.HandleArmSystem)
				r.Post("/disarm", s.HandleDisarmSystem)
				r.Post("/alarm", s.HandleTriggerAlarm)
				r.Post("/reboot", s.HandleRebootPanel)
			})
		})

		r.Route("/devices/{id}", func(r chi.Router) {
			r.Get("/", s.HandleGetDevice)
			r.Post("/lock", s.HandleSetLock)
			r.Post("/switch", s.HandleSetSwitch)
			r.Post("/garage", s.HandleSetGarageDoor)
			r.Post("/thermostat", s.HandleSetThermostat)
			r.Post("/bypass", s.HandleSetBypass)
			r.Post("/snapshot", s.HandleRequestSnapshot)
		})

		r.Get("/events", s.HandleListEvents)
		r.Route("/captures", func(r chi.Router) {
			r.Get("/", s.HandleListCaptures)
			r.Get("/{id}", s.HandleGetCapture)
		})
	})
}
