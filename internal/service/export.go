package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/calendar"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// exportPageSize is how many trips Rows loads per repo call.
const exportPageSize = 100

// ExportService renders a user's data for download: a single trip as an
// iCalendar feed, or every trip and event as a flat table.
type ExportService struct {
	trips  repo.TripRepo
	events repo.EventRepo
	now    func() time.Time
}

// NewExportService constructs an ExportService backed by the provided repos.
// now supplies the DTSTAMP of exported events; nil means time.Now.
func NewExportService(trips repo.TripRepo, events repo.EventRepo, now func() time.Time) *ExportService {
	if now == nil {
		now = time.Now
	}
	return &ExportService{trips: trips, events: events, now: now}
}

// Calendar writes the iCalendar feed of a trip owned by userID to w.
// Nothing is written when the trip cannot be loaded.
// Returns domain.ErrNotFound if the user has no such trip.
func (s *ExportService) Calendar(ctx context.Context, w io.Writer, userID, tripID uuid.UUID) error {
	trip, err := s.trips.GetByID(ctx, userID, tripID)
	if err != nil {
		return fmt.Errorf("service.ExportService.Calendar: %w", err)
	}
	events, err := s.events.ListByTripID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.ExportService.Calendar: %w", err)
	}
	if err := calendar.Encode(w, trip, events, s.now()); err != nil {
		return fmt.Errorf("service.ExportService.Calendar: %w", err)
	}
	return nil
}

// Rows returns one ExportRow per event across all of the user's trips,
// trips ordered by start date and events by start time. Trips with no
// events contribute one row with empty event fields.
func (s *ExportService) Rows(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	rows := []domain.ExportRow{}
	q := domain.TripQuery{
		Filter: domain.TripFilterAll,
		Sort:   domain.TripSortStartDate,
		Page:   domain.PaginationParams{Page: 1, Limit: exportPageSize},
	}
	for {
		trips, total, err := s.trips.List(ctx, userID, q)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
		}
		for _, trip := range trips {
			events, err := s.events.ListByTripID(ctx, trip.ID)
			if err != nil {
				return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
			}
			rows = append(rows, exportRows(trip, events)...)
		}
		if len(trips) == 0 || int64(q.Page.Page*q.Page.Limit) >= total {
			return rows, nil
		}
		q.Page.Page++
	}
}

func exportRows(trip domain.Trip, events []domain.Event) []domain.ExportRow {
	base := domain.ExportRow{
		TripID:        trip.ID,
		TripTitle:     trip.Title,
		TripStartDate: trip.StartDate,
		TripEndDate:   trip.EndDate,
		TripLocation:  trip.Location,
	}
	if len(events) == 0 {
		return []domain.ExportRow{base}
	}

	rows := make([]domain.ExportRow, 0, len(events))
	for _, e := range events {
		row := base
		start := e.StartTime
		row.EventID = e.ID
		row.Category = e.Category
		row.EventTitle = e.Title()
		row.StartTime = &start
		row.EndTime = e.EndTime
		row.Place = placeName(e)
		row.Reservation = e.Reservation
		row.URL = e.URL
		row.Note = e.Note
		rows = append(rows, row)
	}
	return rows
}

// placeName is the event's location name, or its origin for transportation.
func placeName(e domain.Event) string {
	p := e.Location
	if e.Category == domain.CategoryTransportation {
		p = e.Origin
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Address
}
