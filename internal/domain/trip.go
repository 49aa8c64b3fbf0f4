// Package domain contains the core data types for the Trip Planner application.
// This package depends only on uuid and is imported by every other
// internal package (repo, service, schedule, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a user's trip spanning a range of calendar days.
// A trip is the top-level aggregate; events belong to a trip.
//
// StartDate and EndDate are calendar dates stored as UTC midnight.
// TimeZone is the IANA zone in which event timestamps are read as calendar days.
type Trip struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Location  string
	Note      string
	TimeZone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultTimeZone is used when a trip is created without an explicit zone.
const DefaultTimeZone = "UTC"

// MaxTripDays bounds a trip's span, inclusive of both ends.
const MaxTripDays = 366

// Zone resolves TimeZone, falling back to UTC when it is empty or unknown.
func (t Trip) Zone() *time.Location {
	if t.TimeZone == "" || t.TimeZone == "Local" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TripFilter selects trips relative to the current day.
type TripFilter string

const (
	// TripFilterAll returns every trip.
	TripFilterAll TripFilter = "all"
	// TripFilterUpcoming returns trips that have not ended yet (end_date >= today).
	TripFilterUpcoming TripFilter = "upcoming"
	// TripFilterPast returns trips that ended before today.
	TripFilterPast TripFilter = "past"
)

// Valid reports whether f is one of the known filters.
func (f TripFilter) Valid() bool {
	switch f {
	case TripFilterAll, TripFilterUpcoming, TripFilterPast:
		return true
	}
	return false
}

// TripSort names the column a trip list is ordered by.
type TripSort string

const (
	TripSortTitle     TripSort = "title"
	TripSortStartDate TripSort = "start_date"
	TripSortEndDate   TripSort = "end_date"
	TripSortLocation  TripSort = "location"
)

// Valid reports whether s is one of the sortable columns.
func (s TripSort) Valid() bool {
	switch s {
	case TripSortTitle, TripSortStartDate, TripSortEndDate, TripSortLocation:
		return true
	}
	return false
}

// TripQuery carries list options from the HTTP layer to the repo layer.
type TripQuery struct {
	Filter     TripFilter
	Sort       TripSort
	Descending bool
	// Today is the reference day for the upcoming/past filters.
	Today time.Time
	Page  PaginationParams
}

// NewTripQuery builds a TripQuery from optional HTTP query params.
// Unknown or missing values fall back to filter=all, sort=start_date ascending.
func NewTripQuery(filter, sort, order *string, page, limit *int) TripQuery {
	q := TripQuery{
		Filter: TripFilterAll,
		Sort:   TripSortStartDate,
		Page:   NewPaginationParams(page, limit),
	}
	if filter != nil && TripFilter(*filter).Valid() {
		q.Filter = TripFilter(*filter)
	}
	if sort != nil && TripSort(*sort).Valid() {
		q.Sort = TripSort(*sort)
	}
	if order != nil && *order == "desc" {
		q.Descending = true
	}
	return q
}
