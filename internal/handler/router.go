package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/N6q/EventManagementAPI/internal/auth"
	"github.com/N6q/EventManagementAPI/internal/logger"
)

// Deps collects everything the router needs.
type Deps struct {
	Events    *EventHandler
	Attendees *AttendeeHandler
	Reports   *ReportHandler
	Weather   *WeatherHandler
	Auth      *AuthHandler
	Tokens    *auth.TokenService
	Log       *logger.Logger
}

// NewRouter builds the chi router with the full middleware stack and API
// surface.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(d.Log))
	r.Use(auth.Authenticator(d.Tokens))

	r.Get("/health", HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", d.Auth.Login)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", d.Events.List)
			r.Get("/upcoming", d.Events.Upcoming)
			r.Get("/{id}", d.Events.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleManager))
				r.Post("/", d.Events.Create)
				r.Put("/{id}", d.Events.Update)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleAdmin))
				r.Delete("/{id}", d.Events.Delete)
			})
		})

		r.Route("/attendees", func(r chi.Router) {
			r.Get("/event/{eventId}", d.Attendees.ByEvent)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole())
				r.Post("/", d.Attendees.Register)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleAdmin))
				r.Delete("/{id}", d.Attendees.Delete)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/upcoming", d.Reports.Upcoming)
			r.Get("/{eventId}", d.Reports.Get)
		})

		r.Get("/weather/forecast", d.Weather.Forecast)
	})

	return r
}

// RequestLogger emits one access-log line per request.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"requestId", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
