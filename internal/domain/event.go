package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category tags the kind of activity an Event represents.
// The category decides which of the optional Event fields are meaningful.
type Category string

const (
	CategoryNone           Category = "none"
	CategoryTour           Category = "tour"
	CategoryRestaurant     Category = "restaurant"
	CategoryShopping       Category = "shopping"
	CategoryCinema         Category = "cinema"
	CategoryHotel          Category = "hotel"
	CategoryTransportation Category = "transportation"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryNone, CategoryTour, CategoryRestaurant, CategoryShopping,
	CategoryCinema, CategoryHotel, CategoryTransportation,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// TransportMode is the sub-category of a transportation event.
type TransportMode string

const (
	TransportWalk   TransportMode = "walk"
	TransportBike   TransportMode = "bike"
	TransportCar    TransportMode = "car"
	TransportBus    TransportMode = "bus"
	TransportTrain  TransportMode = "train"
	TransportFerry  TransportMode = "ferry"
	TransportFlight TransportMode = "flight"
)

// TransportModes lists every mode of travel in display order.
var TransportModes = []TransportMode{
	TransportWalk, TransportBike, TransportCar, TransportBus,
	TransportTrain, TransportFerry, TransportFlight,
}

// Valid reports whether m is a known mode of travel.
func (m TransportMode) Valid() bool {
	for _, known := range TransportModes {
		if m == known {
			return true
		}
	}
	return false
}

// Place is a named location. Lat and Lng are nil until the address has been
// geocoded (or the client supplied coordinates).
type Place struct {
	Name    string   `json:"name,omitempty"`
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// Located reports whether the place carries coordinates.
func (p Place) Located() bool {
	return p.Lat != nil && p.Lng != nil
}

// Event is a scheduled activity within a Trip.
//
// Location is used by every category except transportation, which uses
// Origin and Destination instead. CheckInTime and CheckOutTime only apply
// to hotels; Mode only applies to transportation.
// EndTime is nil for point-in-time events.
type Event struct {
	ID           uuid.UUID
	TripID       uuid.UUID
	Category     Category
	Name         string
	StartTime    time.Time
	EndTime      *time.Time
	Location     Place
	Reservation  bool
	URL          string
	Note         string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Mode         TransportMode
	Origin       Place
	Destination  Place
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Title is the human-readable label of an event: its name, or
// "origin → destination" for transportation.
func (e Event) Title() string {
	if e.Category == CategoryTransportation {
		return e.Origin.Name + " → " + e.Destination.Name
	}
	return e.Name
}
