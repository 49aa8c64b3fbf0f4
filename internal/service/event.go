package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// EventService implements business logic for Event operations.
// It holds the trips repo because every event operation first verifies that
// the parent trip belongs to the calling user.
type EventService struct {
	trips    repo.TripRepo
	events   repo.EventRepo
	geocoder Geocoder
	logger   *slog.Logger
}

// NewEventService constructs an EventService backed by the provided repos.
// geocoder may be nil, in which case places are stored exactly as given.
func NewEventService(trips repo.TripRepo, events repo.EventRepo, geocoder Geocoder, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{trips: trips, events: events, geocoder: geocoder, logger: logger}
}

// Create validates the event, verifies the parent trip belongs to userID,
// fills in missing coordinates, then persists.
// Returns domain.ErrValidation if input violates business rules.
// Returns domain.ErrNotFound if the user has no such trip.
func (s *EventService) Create(ctx context.Context, userID uuid.UUID, event domain.Event) (domain.Event, error) {
	if _, err := s.trips.GetByID(ctx, userID, event.TripID); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	event, err := normalizeEvent(event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	s.locate(ctx, &event)

	result, err := s.events.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single event of a trip owned by userID.
func (s *EventService) GetByID(ctx context.Context, userID, tripID, eventID uuid.UUID) (domain.Event, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.GetByID: %w", err)
	}
	result, err := s.events.GetByID(ctx, tripID, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns all events of a trip ordered by start time.
// Always returns a non-nil slice so callers can safely range over it.
func (s *EventService) ListByTripID(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Event, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.EventService.ListByTripID: %w", err)
	}
	events, err := s.events.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.ListByTripID: %w", err)
	}
	if events == nil {
		return []domain.Event{}, nil
	}
	return events, nil
}

// Update validates and persists changes to an existing event.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// trip or event does not exist for this user.
func (s *EventService) Update(ctx context.Context, userID uuid.UUID, event domain.Event) (domain.Event, error) {
	if _, err := s.trips.GetByID(ctx, userID, event.TripID); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	event, err := normalizeEvent(event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	s.locate(ctx, &event)

	result, err := s.events.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	return result, nil
}

// Delete removes an event from a trip owned by userID.
func (s *EventService) Delete(ctx context.Context, userID, tripID, eventID uuid.UUID) error {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	if err := s.events.Delete(ctx, tripID, eventID); err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	return nil
}

// locate fills in coordinates for every place that has an address but no
// lat/lng. A failed lookup is logged and the place is kept as-is.
func (s *EventService) locate(ctx context.Context, event *domain.Event) {
	if s.geocoder == nil {
		return
	}
	for _, p := range []*domain.Place{&event.Location, &event.Origin, &event.Destination} {
		if p.Located() || strings.TrimSpace(p.Address) == "" {
			continue
		}
		lat, lng, err := s.geocoder.Geocode(ctx, p.Address)
		if err != nil {
			s.logger.WarnContext(ctx, "geocoding failed", "address", p.Address, "error", err)
			continue
		}
		p.Lat, p.Lng = &lat, &lng
	}
}

// normalizeEvent enforces the rules shared by Create and Update and clears the
// fields that do not belong to the event's category.
//   - Category defaults to none and must be known.
//   - StartTime is required; EndTime, if set, must not be before it.
//   - Transportation needs origin and destination names and a known mode
//     (default car); every other category needs a name.
//   - Hotel check-out, if set, must not be before check-in.
//   - URL, if set, must be an absolute http or https URL.
func normalizeEvent(e domain.Event) (domain.Event, error) {
	if e.Category == "" {
		e.Category = domain.CategoryNone
	}
	if !e.Category.Valid() {
		return domain.Event{}, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, e.Category)
	}
	if e.StartTime.IsZero() {
		return domain.Event{}, fmt.Errorf("%w: start_time is required", domain.ErrValidation)
	}
	if e.EndTime != nil && e.EndTime.Before(e.StartTime) {
		return domain.Event{}, fmt.Errorf("%w: end_time must not be before start_time", domain.ErrValidation)
	}

	e.Name = strings.TrimSpace(e.Name)
	if e.Category == domain.CategoryTransportation {
		e.Origin.Name = strings.TrimSpace(e.Origin.Name)
		e.Destination.Name = strings.TrimSpace(e.Destination.Name)
		if e.Origin.Name == "" || e.Destination.Name == "" {
			return domain.Event{}, fmt.Errorf("%w: origin and destination are required", domain.ErrValidation)
		}
		if e.Mode == "" {
			e.Mode = domain.TransportCar
		}
		if !e.Mode.Valid() {
			return domain.Event{}, fmt.Errorf("%w: unknown sub_category %q", domain.ErrValidation, e.Mode)
		}
		e.Location = domain.Place{}
	} else {
		if e.Name == "" {
			return domain.Event{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
		}
		e.Mode = ""
		e.Origin = domain.Place{}
		e.Destination = domain.Place{}
	}

	if e.Category == domain.CategoryHotel {
		if e.CheckInTime != nil && e.CheckOutTime != nil && e.CheckOutTime.Before(*e.CheckInTime) {
			return domain.Event{}, fmt.Errorf("%w: check_out_time must not be before check_in_time", domain.ErrValidation)
		}
	} else {
		e.CheckInTime = nil
		e.CheckOutTime = nil
	}

	e.URL = strings.TrimSpace(e.URL)
	if e.URL != "" {
		u, err := url.Parse(e.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return domain.Event{}, fmt.Errorf("%w: url must be an absolute http(s) URL", domain.ErrValidation)
		}
	}
	return e, nil
}
