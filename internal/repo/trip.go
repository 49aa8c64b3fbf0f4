// Package repo contains all database access logic for the Trip Planner API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// Every read and write is scoped by the owning user's ID.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip owned by userID.
	// Returns domain.ErrNotFound if no such trip exists for that user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)

	// List returns one page of the user's trips matching q, plus the total
	// number of matching trips across all pages.
	List(ctx context.Context, userID uuid.UUID, q domain.TripQuery) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if the user has no such trip.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip and its events. Returns domain.ErrNotFound if the
	// user has no such trip.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, title, start_date, end_date, location, note, time_zone, created_at, updated_at`

// tripSortColumns whitelists the ORDER BY targets; query text is never built
// from raw user input.
var tripSortColumns = map[domain.TripSort]string{
	domain.TripSortTitle:     "lower(title)",
	domain.TripSortStartDate: "start_date",
	domain.TripSortEndDate:   "end_date",
	domain.TripSortLocation:  "lower(location)",
}

// tripFilterClause matches trips against @filter relative to @today.
const tripFilterClause = `
	(@filter = 'all'
	 OR (@filter = 'upcoming' AND end_date >= @today)
	 OR (@filter = 'past' AND end_date < @today))`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (user_id, title, start_date, end_date, location, note, time_zone)
		VALUES (@user_id, @title, @start_date, @end_date, @location, @note, @time_zone)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"user_id":    trip.UserID,
		"title":      trip.Title,
		"start_date": asDate(trip.StartDate),
		"end_date":   asDate(trip.EndDate),
		"location":   trip.Location,
		"note":       trip.Note,
		"time_zone":  trip.TimeZone,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key, scoped to its owner.
func (r *pgTripRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of trips ordered by the requested column, with
// created_at and id as tie-breakers so paging is deterministic.
func (r *pgTripRepo) List(ctx context.Context, userID uuid.UUID, q domain.TripQuery) ([]domain.Trip, int64, error) {
	args := pgx.NamedArgs{
		"user_id": userID,
		"filter":  string(q.Filter),
		"today":   asDate(q.Today),
		"limit":   q.Page.Limit,
		"offset":  q.Page.Offset(),
	}

	countQ := `SELECT count(*) FROM trips WHERE user_id = @user_id AND` + tripFilterClause
	var total int64
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: count: %w", err)
	}

	column, ok := tripSortColumns[q.Sort]
	if !ok {
		column = tripSortColumns[domain.TripSortStartDate]
	}
	direction := "ASC"
	if q.Descending {
		direction = "DESC"
	}

	listQ := fmt.Sprintf(`
		SELECT %s
		FROM trips
		WHERE user_id = @user_id AND %s
		ORDER BY %s %s, created_at, id
		LIMIT @limit OFFSET @offset`, tripColumns, tripFilterClause, column, direction)

	rows, err := r.db.Query(ctx, listQ, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET title      = @title,
		    start_date = @start_date,
		    end_date   = @end_date,
		    location   = @location,
		    note       = @note,
		    time_zone  = @time_zone,
		    updated_at = now()
		WHERE id = @id AND user_id = @user_id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":         trip.ID,
		"user_id":    trip.UserID,
		"title":      trip.Title,
		"start_date": asDate(trip.StartDate),
		"end_date":   asDate(trip.EndDate),
		"location":   trip.Location,
		"note":       trip.Note,
		"time_zone":  trip.TimeZone,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key. Its events go with it (ON DELETE CASCADE).
func (r *pgTripRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		userID    pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&id, &userID, &t.Title, &startDate, &endDate,
		&t.Location, &t.Note, &t.TimeZone, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time

	return t, nil
}

// asDate converts a calendar date to a pgtype.Date using its own year, month,
// and day, so a non-UTC midnight is never shifted into the neighbouring day.
func asDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// asTimestamptz converts an optional time to a nullable pgtype value.
func asTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// fromTimestamptz converts a nullable pgtype value back to an optional time.
func fromTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
