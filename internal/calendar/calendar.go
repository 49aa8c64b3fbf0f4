// Package calendar renders a trip's events as an iCalendar (RFC 5545) feed
// so they can be subscribed to from any calendar app.
package calendar

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ProductID identifies this application in the PRODID property.
const ProductID = "-//Trip Planner//Trip Calendar//EN"

// UID is the iCalendar UID of an event. It is stable across exports so
// calendar clients update events in place instead of duplicating them.
func UID(e domain.Event) string {
	return e.ID.String() + "@trip-planner"
}

// TripUID is the UID of the all-day event spanning the trip itself.
func TripUID(trip domain.Trip) string {
	return trip.ID.String() + "@trip-planner"
}

// Build assembles the VCALENDAR for a trip. stamp is written as DTSTAMP.
// The trip's own date range is always emitted as an all-day event after the
// trip's events, so a trip without events still yields a valid calendar.
func Build(trip domain.Trip, events []domain.Event, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.Set(extensionText("X-WR-CALNAME", trip.Title))
	cal.Props.Set(extensionText("X-WR-TIMEZONE", trip.TimeZone))

	for _, e := range events {
		cal.Children = append(cal.Children, vevent(e, stamp).Component)
	}
	cal.Children = append(cal.Children, span(trip, stamp).Component)
	return cal
}

// extensionText builds an X- property holding escaped text without the
// VALUE=TEXT parameter, which calendar clients do not expect on X-WR-*.
func extensionText(name, text string) *ical.Prop {
	prop := ical.NewProp(name)
	prop.SetText(text)
	prop.Params.Del(ical.ParamValue)
	return prop
}

func span(trip domain.Trip, stamp time.Time) *ical.Event {
	ve := ical.NewEvent()
	ve.Props.SetText(ical.PropUID, TripUID(trip))
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetText(ical.PropSummary, trip.Title)
	ve.Props.SetDate(ical.PropDateTimeStart, trip.StartDate)
	// DTEND of an all-day event is exclusive.
	ve.Props.SetDate(ical.PropDateTimeEnd, trip.EndDate.AddDate(0, 0, 1))
	if trip.Location != "" {
		ve.Props.SetText(ical.PropLocation, trip.Location)
	}
	if trip.Note != "" {
		ve.Props.SetText(ical.PropDescription, trip.Note)
	}
	return ve
}

// Encode writes the trip's calendar to w.
func Encode(w io.Writer, trip domain.Trip, events []domain.Event, stamp time.Time) error {
	if err := ical.NewEncoder(w).Encode(Build(trip, events, stamp)); err != nil {
		return fmt.Errorf("calendar.Encode: %w", err)
	}
	return nil
}

func vevent(e domain.Event, stamp time.Time) *ical.Event {
	ve := ical.NewEvent()
	ve.Props.SetText(ical.PropUID, UID(e))
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetText(ical.PropSummary, e.Title())
	ve.Props.SetText(ical.PropCategories, strings.ToUpper(string(e.Category)))

	// Times are converted to UTC so the feed carries no VTIMEZONE blocks.
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.StartTime.UTC())
	if e.EndTime != nil {
		ve.Props.SetDateTime(ical.PropDateTimeEnd, e.EndTime.UTC())
	}

	if loc := placeText(e); loc != "" {
		ve.Props.SetText(ical.PropLocation, loc)
	}
	if desc := description(e); desc != "" {
		ve.Props.SetText(ical.PropDescription, desc)
	}
	if e.URL != "" {
		if u, err := url.Parse(e.URL); err == nil {
			ve.Props.SetURI(ical.PropURL, u)
		}
	}
	return ve
}

// placeText is the LOCATION value: the event's place, or the transport origin.
func placeText(e domain.Event) string {
	p := e.Location
	if e.Category == domain.CategoryTransportation {
		p = e.Origin
	}
	switch {
	case p.Name != "" && p.Address != "":
		return p.Name + ", " + p.Address
	case p.Name != "":
		return p.Name
	default:
		return p.Address
	}
}

func description(e domain.Event) string {
	var lines []string
	if e.Category == domain.CategoryTransportation && e.Mode != "" {
		lines = append(lines, "By "+string(e.Mode))
	}
	if e.Category == domain.CategoryHotel {
		if e.CheckInTime != nil {
			lines = append(lines, "Check-in: "+e.CheckInTime.UTC().Format(time.RFC3339))
		}
		if e.CheckOutTime != nil {
			lines = append(lines, "Check-out: "+e.CheckOutTime.UTC().Format(time.RFC3339))
		}
	}
	if e.Reservation {
		lines = append(lines, "Reserved")
	}
	if e.Note != "" {
		lines = append(lines, e.Note)
	}
	return strings.Join(lines, "\n")
}
