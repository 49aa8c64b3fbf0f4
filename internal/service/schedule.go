package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/schedule"
)

// Schedule is everything the trip page renders: the per-day buckets and the
// map pins, computed from one consistent read of the trip and its events.
type Schedule struct {
	Trip    domain.Trip
	Buckets schedule.Buckets
	Markers []schedule.Marker
	Center  *schedule.Position
}

// ScheduleService assembles a trip's display schedule.
type ScheduleService struct {
	trips  repo.TripRepo
	events repo.EventRepo
}

// NewScheduleService constructs a ScheduleService backed by the provided repos.
func NewScheduleService(trips repo.TripRepo, events repo.EventRepo) *ScheduleService {
	return &ScheduleService{trips: trips, events: events}
}

// Get builds the schedule of a trip owned by userID. Days and captions are
// evaluated in the trip's time zone.
// Returns domain.ErrNotFound if the user has no such trip.
func (s *ScheduleService) Get(ctx context.Context, userID, tripID uuid.UUID) (Schedule, error) {
	trip, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return Schedule{}, fmt.Errorf("service.ScheduleService.Get: %w", err)
	}
	events, err := s.events.ListByTripID(ctx, tripID)
	if err != nil {
		return Schedule{}, fmt.Errorf("service.ScheduleService.Get: %w", err)
	}

	loc := trip.Zone()
	markers := schedule.Markers(events)
	return Schedule{
		Trip:    trip,
		Buckets: schedule.Build(schedule.TripDates(trip.StartDate, trip.EndDate, loc), events, loc),
		Markers: markers,
		Center:  schedule.Center(markers),
	}, nil
}
