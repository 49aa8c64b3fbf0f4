package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportRow is a single row in the full-data export of a user's account.
// It is a flat, denormalized view: one row per event, with trip fields
// repeated for every event of that trip. Trips without events yield one row
// whose event fields are zero.
type ExportRow struct {
	// Trip fields, repeated for every event of the trip.
	TripID        uuid.UUID
	TripTitle     string
	TripStartDate time.Time
	TripEndDate   time.Time
	TripLocation  string

	// Event fields; EventID is uuid.Nil when the trip has no events.
	EventID     uuid.UUID
	Category    Category
	EventTitle  string
	StartTime   *time.Time
	EndTime     *time.Time
	Place       string
	Reservation bool
	URL         string
	Note        string
}
