package schedule

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Position is a map coordinate.
type Position struct {
	Lat float64
	Lng float64
}

// Marker is a numbered pin on the trip map.
// Label is the event's one-based position in the event list; both ends of a
// transportation event share the same label.
type Marker struct {
	EventID  uuid.UUID
	Label    string
	Name     string
	Address  string
	Position Position
}

// Markers returns the map pins for events, which should be in start-time order.
// Events without coordinates are skipped but still consume a label number.
func Markers(events []domain.Event) []Marker {
	markers := []Marker{}
	for i, e := range events {
		label := strconv.Itoa(i + 1)
		if e.Category != domain.CategoryTransportation {
			if e.Location.Located() {
				markers = append(markers, markerAt(e, label, e.Name, e.Location))
			}
			continue
		}
		for _, p := range []domain.Place{e.Origin, e.Destination} {
			if p.Located() {
				markers = append(markers, markerAt(e, label, e.Title(), p))
			}
		}
	}
	return markers
}

func markerAt(e domain.Event, label, name string, p domain.Place) Marker {
	return Marker{
		EventID:  e.ID,
		Label:    label,
		Name:     name,
		Address:  p.Address,
		Position: Position{Lat: *p.Lat, Lng: *p.Lng},
	}
}

// Center is where the map opens: the first marker, or nil when there is none.
func Center(markers []Marker) *Position {
	if len(markers) == 0 {
		return nil
	}
	p := markers[0].Position
	return &p
}
