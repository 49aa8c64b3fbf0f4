package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types of the HTTP API. They mirror the schemas in spec/openapi.yaml;
// domain types never go on the wire directly.

// ErrorDetail is the machine-readable code and human message of a failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status string `json:"status"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ---- accounts --------------------------------------------------------------

// User is an account as seen by its owner. Email is absent for anonymous users.
type User struct {
	Id        openapi_types.UUID   `json:"id"`
	Email     *openapi_types.Email `json:"email,omitempty"`
	Anonymous bool                 `json:"anonymous"`
	CreatedAt time.Time            `json:"created_at"`
}

// AuthResponse is returned by every sign-in flavour.
type AuthResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CredentialsRequest is the body of sign-up, sign-in, and credential linking.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangeEmailRequest is the body of PUT /me/email.
type ChangeEmailRequest struct {
	Password string `json:"password"`
	Email    string `json:"email"`
}

// ChangePasswordRequest is the body of PUT /me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// DeleteAccountRequest is the body of DELETE /me.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// ---- trips -----------------------------------------------------------------

// Trip is the response shape of a trip.
type Trip struct {
	Id        openapi_types.UUID `json:"id"`
	Title     string             `json:"title"`
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
	Location  *string            `json:"location,omitempty"`
	Note      *string            `json:"note,omitempty"`
	TimeZone  string             `json:"time_zone"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TripRequest is the body of POST /trips and PUT /trips/{tripId}.
type TripRequest struct {
	Title     string              `json:"title"`
	StartDate *openapi_types.Date `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date"`
	Location  *string             `json:"location,omitempty"`
	Note      *string             `json:"note,omitempty"`
	TimeZone  *string             `json:"time_zone,omitempty"`
}

// TripList is one page of trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ---- events ----------------------------------------------------------------

// Place is a named location with optional coordinates.
type Place struct {
	Name    string   `json:"name,omitempty"`
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// Event is the response shape of an event. Category-specific fields are
// omitted when they do not apply.
type Event struct {
	Id           openapi_types.UUID `json:"id"`
	TripId       openapi_types.UUID `json:"trip_id"`
	Category     string             `json:"category"`
	Name         string             `json:"name"`
	Title        string             `json:"title"`
	StartTime    time.Time          `json:"start_time"`
	EndTime      *time.Time         `json:"end_time,omitempty"`
	Location     *Place             `json:"location,omitempty"`
	Reservation  bool               `json:"reservation"`
	Url          *string            `json:"url,omitempty"`
	Note         *string            `json:"note,omitempty"`
	CheckInTime  *time.Time         `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time         `json:"check_out_time,omitempty"`
	SubCategory  *string            `json:"sub_category,omitempty"`
	Origin       *Place             `json:"origin,omitempty"`
	Destination  *Place             `json:"destination,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// EventRequest is the body of POST and PUT on events.
type EventRequest struct {
	Category     string     `json:"category"`
	Name         string     `json:"name"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Location     *Place     `json:"location,omitempty"`
	Reservation  bool       `json:"reservation"`
	Url          string     `json:"url,omitempty"`
	Note         string     `json:"note,omitempty"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	SubCategory  string     `json:"sub_category,omitempty"`
	Origin       *Place     `json:"origin,omitempty"`
	Destination  *Place     `json:"destination,omitempty"`
}

// ---- schedule --------------------------------------------------------------

// ScheduleEntry is one slot of a day: an event shown at one of its endpoints.
type ScheduleEntry struct {
	EventId  openapi_types.UUID `json:"event_id"`
	Marker   int                `json:"marker"`
	Anchor   string             `json:"anchor"`
	SortTime time.Time          `json:"sort_time"`
	Caption  string             `json:"caption"`
	Time     string             `json:"time"`
	Category string             `json:"category"`
	Event    Event              `json:"event"`
}

// ScheduleDay is the bucket of one trip day.
type ScheduleDay struct {
	Date    openapi_types.Date `json:"date"`
	Entries []ScheduleEntry    `json:"entries"`
}

// Position is a map coordinate.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Marker is a numbered map pin.
type Marker struct {
	EventId  openapi_types.UUID `json:"event_id"`
	Label    string             `json:"label"`
	Name     string             `json:"name"`
	Address  string             `json:"address,omitempty"`
	Position Position           `json:"position"`
}

// Schedule is the body of GET /trips/{tripId}/schedule.
type Schedule struct {
	Trip       Trip            `json:"trip"`
	Days       []ScheduleDay   `json:"days"`
	OutOfRange []ScheduleEntry `json:"out_of_range"`
	Markers    []Marker        `json:"markers"`
	Center     *Position       `json:"center"`
}

// ---- export ----------------------------------------------------------------

// ExportRow is one row of the JSON export.
type ExportRow struct {
	TripId        openapi_types.UUID  `json:"trip_id"`
	TripTitle     string              `json:"trip_title"`
	TripStartDate openapi_types.Date  `json:"trip_start_date"`
	TripEndDate   openapi_types.Date  `json:"trip_end_date"`
	TripLocation  *string             `json:"trip_location,omitempty"`
	EventId       *openapi_types.UUID `json:"event_id,omitempty"`
	Category      *string             `json:"category,omitempty"`
	EventTitle    *string             `json:"event_title,omitempty"`
	StartTime     *time.Time          `json:"start_time,omitempty"`
	EndTime       *time.Time          `json:"end_time,omitempty"`
	Place         *string             `json:"place,omitempty"`
	Reservation   bool                `json:"reservation"`
	Url           *string             `json:"url,omitempty"`
	Note          *string             `json:"note,omitempty"`
}
