// Package handler implements the HTTP handlers for the Trip Planner API.
// All handlers are methods on Server and are mounted by Server.Routes.
// Methods are split into domain-specific files (health.go, trip.go, etc.) but
// all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// mocks without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, userID uuid.UUID, q domain.TripQuery) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// EventServicer defines the business operations the event handlers depend on.
type EventServicer interface {
	Create(ctx context.Context, userID uuid.UUID, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, userID, tripID, eventID uuid.UUID) (domain.Event, error)
	ListByTripID(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Event, error)
	Update(ctx context.Context, userID uuid.UUID, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, userID, tripID, eventID uuid.UUID) error
}

// ScheduleServicer builds the per-day schedule of a trip.
type ScheduleServicer interface {
	Get(ctx context.Context, userID, tripID uuid.UUID) (service.Schedule, error)
}

// ExportServicer renders downloads.
type ExportServicer interface {
	Calendar(ctx context.Context, w io.Writer, userID, tripID uuid.UUID) error
	Rows(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

// AuthServicer defines the account and session operations.
type AuthServicer interface {
	middleware.SessionValidator
	SignUp(ctx context.Context, email, password string) (service.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (service.AuthResult, error)
	SignInAnonymously(ctx context.Context) (service.AuthResult, error)
	SignOut(ctx context.Context, token string) error
	ChangeEmail(ctx context.Context, userID uuid.UUID, password, newEmail string) (domain.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	LinkCredentials(ctx context.Context, userID uuid.UUID, email, password string) (domain.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
}

// Server holds the dependencies of every endpoint.
type Server struct {
	auth      AuthServicer
	trips     TripServicer
	events    EventServicer
	schedules ScheduleServicer
	exports   ExportServicer
	logger    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default.
func NewServer(auth AuthServicer, trips TripServicer, events EventServicer, schedules ScheduleServicer, exports ExportServicer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		auth:      auth,
		trips:     trips,
		events:    events,
		schedules: schedules,
		exports:   exports,
		logger:    logger,
	}
}

// Routes returns the API router. Everything except health, the OpenAPI
// document, and the sign-in endpoints requires a bearer session.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Post("/auth/signup", s.SignUp)
	r.Post("/auth/signin", s.SignIn)
	r.Post("/auth/anonymous", s.SignInAnonymously)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(s.auth, s.logger))

		r.Post("/auth/signout", s.SignOut)

		r.Get("/me", s.GetMe)
		r.Delete("/me", s.DeleteMe)
		r.Put("/me/email", s.ChangeEmail)
		r.Put("/me/password", s.ChangePassword)
		r.Post("/me/link", s.LinkCredentials)

		r.Get("/export", s.GetExport)

		r.Get("/trips", s.ListTrips)
		r.Post("/trips", s.CreateTrip)
		r.Route("/trips/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Get("/schedule", s.GetSchedule)
			r.Get("/calendar.ics", s.GetCalendar)

			r.Get("/events", s.ListEvents)
			r.Post("/events", s.CreateEvent)
			r.Get("/events/{eventId}", s.GetEvent)
			r.Put("/events/{eventId}", s.UpdateEvent)
			r.Delete("/events/{eventId}", s.DeleteEvent)
		})
	})
	return r
}

// requireUser returns the ID of the user resolved by RequireSession.
// Handlers are only mounted behind that middleware, so a missing principal
// means a wiring bug; it is answered with 401 rather than a panic.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return uuid.Nil, false
	}
	return p.User.ID, true
}
