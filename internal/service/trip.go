// Package service contains the business logic for the Trip Planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// TripService implements business logic for Trip operations.
// Every method is scoped to the calling user.
type TripService struct {
	repo repo.TripRepo
	now  func() time.Time
}

// NewTripService constructs a TripService backed by the provided TripRepo.
// now is the clock used for the upcoming/past filters; nil means time.Now.
func NewTripService(r repo.TripRepo, now func() time.Time) *TripService {
	if now == nil {
		now = time.Now
	}
	return &TripService{repo: r, now: now}
}

// Create validates and persists a new trip owned by trip.UserID.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip, err := normalizeTrip(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip owned by userID.
// Returns domain.ErrNotFound if the user has no such trip.
func (s *TripService) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of the user's trips and the total match count.
// The upcoming/past filters are evaluated against today's UTC date.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, userID uuid.UUID, q domain.TripQuery) ([]domain.Trip, int64, error) {
	y, m, d := s.now().UTC().Date()
	q.Today = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	trips, total, err := s.repo.List(ctx, userID, q)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and persists changes to an existing trip.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// user has no such trip.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip, err := normalizeTrip(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	result, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip and its events.
// Returns domain.ErrNotFound if the user has no such trip.
func (s *TripService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// normalizeTrip enforces the rules shared by Create and Update and returns the
// trip in its stored shape.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Both dates are required; EndDate must not be before StartDate.
//   - TimeZone defaults to UTC and must name a known IANA zone.
//
// Dates are reduced to UTC midnight of their calendar day.
func normalizeTrip(trip domain.Trip) (domain.Trip, error) {
	trip.Title = strings.TrimSpace(trip.Title)
	if trip.Title == "" {
		return domain.Trip{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return domain.Trip{}, fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	trip.StartDate = calendarDay(trip.StartDate)
	trip.EndDate = calendarDay(trip.EndDate)
	if trip.EndDate.Before(trip.StartDate) {
		return domain.Trip{}, fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if trip.EndDate.After(trip.StartDate.AddDate(0, 0, domain.MaxTripDays-1)) {
		return domain.Trip{}, fmt.Errorf("%w: a trip may span at most %d days", domain.ErrValidation, domain.MaxTripDays)
	}

	trip.TimeZone = strings.TrimSpace(trip.TimeZone)
	if trip.TimeZone == "" {
		trip.TimeZone = domain.DefaultTimeZone
	}
	// "Local" resolves to the server's zone, not one the user chose.
	if trip.TimeZone == "Local" {
		return domain.Trip{}, fmt.Errorf("%w: unknown time_zone %q", domain.ErrValidation, trip.TimeZone)
	}
	if _, err := time.LoadLocation(trip.TimeZone); err != nil {
		return domain.Trip{}, fmt.Errorf("%w: unknown time_zone %q", domain.ErrValidation, trip.TimeZone)
	}
	return trip, nil
}

// calendarDay keeps t's year, month, and day as UTC midnight.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
