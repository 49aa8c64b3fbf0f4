package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// EventRepo defines the persistence operations for Events.
// All write and single-read operations are scoped by tripID to enforce ownership;
// the service checks that the trip itself belongs to the caller.
type EventRepo interface {
	// Create inserts a new event and returns the persisted record.
	Create(ctx context.Context, event domain.Event) (domain.Event, error)

	// GetByID retrieves a single event by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no event with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, eventID uuid.UUID) (domain.Event, error)

	// ListByTripID returns all events for a trip ordered by start_time ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Event, error)

	// Update overwrites the mutable fields of an event, scoped to the given tripID.
	// Returns domain.ErrNotFound if no event with that ID exists under that trip.
	Update(ctx context.Context, event domain.Event) (domain.Event, error)

	// Delete removes an event by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no event with that ID exists under that trip.
	Delete(ctx context.Context, tripID, eventID uuid.UUID) error
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

const eventColumns = `id, trip_id, category, name, start_time, end_time, location,
	reservation, url, note, check_in_time, check_out_time, sub_category,
	origin, destination, created_at, updated_at`

// eventArgs maps the mutable fields of an event to named query arguments.
// Places are written to JSONB columns; pgx marshals them with encoding/json.
func eventArgs(e domain.Event) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":             e.ID,
		"trip_id":        e.TripID,
		"category":       string(e.Category),
		"name":           e.Name,
		"start_time":     e.StartTime,
		"end_time":       asTimestamptz(e.EndTime),
		"location":       e.Location,
		"reservation":    e.Reservation,
		"url":            e.URL,
		"note":           e.Note,
		"check_in_time":  asTimestamptz(e.CheckInTime),
		"check_out_time": asTimestamptz(e.CheckOutTime),
		"sub_category":   string(e.Mode),
		"origin":         e.Origin,
		"destination":    e.Destination,
	}
}

func (r *pgEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		INSERT INTO events (trip_id, category, name, start_time, end_time, location,
		                    reservation, url, note, check_in_time, check_out_time,
		                    sub_category, origin, destination)
		VALUES (@trip_id, @category, @name, @start_time, @end_time, @location,
		        @reservation, @url, @note, @check_in_time, @check_out_time,
		        @sub_category, @origin, @destination)
		RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, q, eventArgs(event))
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) GetByID(ctx context.Context, tripID, eventID uuid.UUID) (domain.Event, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = @id AND trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": eventID, "trip_id": tripID})
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID orders by start_time, breaking ties by creation order.
func (r *pgEventRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Event, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM events
		WHERE trip_id = @trip_id
		ORDER BY start_time, created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.ListByTripID: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByTripID: rows: %w", err)
	}
	return events, nil
}

func (r *pgEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		UPDATE events
		SET category       = @category,
		    name           = @name,
		    start_time     = @start_time,
		    end_time       = @end_time,
		    location       = @location,
		    reservation    = @reservation,
		    url            = @url,
		    note           = @note,
		    check_in_time  = @check_in_time,
		    check_out_time = @check_out_time,
		    sub_category   = @sub_category,
		    origin         = @origin,
		    destination    = @destination,
		    updated_at     = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, q, eventArgs(event))
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) Delete(ctx context.Context, tripID, eventID uuid.UUID) error {
	const q = `DELETE FROM events WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": eventID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.EventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanEvent maps a single database row into a domain.Event.
func scanEvent(s scanner) (domain.Event, error) {
	var (
		e          domain.Event
		id, tripID pgtype.UUID
		category   string
		mode       string
		endTime    pgtype.Timestamptz
		checkIn    pgtype.Timestamptz
		checkOut   pgtype.Timestamptz
	)

	err := s.Scan(&id, &tripID, &category, &e.Name, &e.StartTime, &endTime, &e.Location,
		&e.Reservation, &e.URL, &e.Note, &checkIn, &checkOut, &mode,
		&e.Origin, &e.Destination, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(tripID.Bytes)
	e.Category = domain.Category(category)
	e.Mode = domain.TransportMode(mode)
	e.EndTime = fromTimestamptz(endTime)
	e.CheckInTime = fromTimestamptz(checkIn)
	e.CheckOutTime = fromTimestamptz(checkOut)

	return e, nil
}
