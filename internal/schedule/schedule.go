// Package schedule turns a trip's events into the per-day display buckets
// shown on the trip page. Everything here is pure: no I/O, no clock.
//
// An event yields one Entry anchored at its start time and, when it ends on a
// later calendar day, a second Entry anchored at its end time. Entries are
// bucketed by calendar day in the trip's time zone; events whose start and
// end both lie outside the trip's days go to the out-of-range bucket.
package schedule

import (
	"slices"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Anchor records which endpoint of an event an Entry is sorted by.
type Anchor string

const (
	AnchorStart Anchor = "start"
	AnchorEnd   Anchor = "end"
)

// Entry is one display slot: an event plus the time it is sorted and bucketed by.
// Order is the event's index in the input list and doubles as its map marker
// number minus one, so both entries of a multi-day event share it.
type Entry struct {
	Event    domain.Event
	SortTime time.Time
	Anchor   Anchor
	Order    int
}

// Day is the bucket for one calendar day of the trip.
type Day struct {
	Date    time.Time
	Entries []Entry
}

// Buckets is the full display grouping of a trip's events.
// OutOfRange holds one start-anchored Entry per event lying wholly outside the trip.
type Buckets struct {
	Days       []Day
	OutOfRange []Entry
}

// civil is a calendar day independent of location.
type civil struct {
	year  int
	month time.Month
	day   int
}

func civilOf(t time.Time, loc *time.Location) civil {
	y, m, d := t.In(loc).Date()
	return civil{y, m, d}
}

// dayStart returns midnight in loc of the calendar day named by d's own
// year, month, and day. The location d carries is ignored.
func dayStart(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return civilOf(a, loc) == civilOf(b, loc)
}

// TripDates returns one midnight per calendar day from start to end inclusive,
// in loc. Only the year, month, and day of start and end are used. The result
// is empty when end precedes start.
func TripDates(start, end time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	first := dayStart(start, loc)
	last := dayStart(end, loc)

	var dates []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Records creates the sort records for events: one per event anchored at its
// start time, plus one anchored at its end time for every event that ends on
// a different calendar day. The result is sorted by SortTime; records with
// equal times keep their creation order (all start records first, in input
// order, then end records).
func Records(events []domain.Event, loc *time.Location) []Entry {
	if loc == nil {
		loc = time.UTC
	}
	records := make([]Entry, 0, len(events))
	for i, e := range events {
		records = append(records, Entry{Event: e, SortTime: e.StartTime, Anchor: AnchorStart, Order: i})
	}
	for i, e := range events {
		if e.EndTime == nil || SameDay(e.StartTime, *e.EndTime, loc) {
			continue
		}
		records = append(records, Entry{Event: e, SortTime: *e.EndTime, Anchor: AnchorEnd, Order: i})
	}

	slices.SortStableFunc(records, func(a, b Entry) int {
		return a.SortTime.Compare(b.SortTime)
	})
	return records
}

// Build buckets events into the given trip days.
//
// dates must be calendar days in ascending order; only their year, month,
// and day are read, and calendar-day comparisons happen in loc (UTC when nil).
// Each day receives every record whose SortTime falls on it, in sort order.
// An event goes to OutOfRange when neither its start nor its end lies in
// [dates[0], dates[last]+1 day); a missing end counts as outside.
// With no dates every event is out of range.
func Build(dates []time.Time, events []domain.Event, loc *time.Location) Buckets {
	if loc == nil {
		loc = time.UTC
	}

	days := make([]Day, len(dates))
	index := make(map[civil]int, len(dates))
	for i, d := range dates {
		start := dayStart(d, loc)
		days[i] = Day{Date: start, Entries: []Entry{}}
		index[civilOf(start, loc)] = i
	}

	for _, rec := range Records(events, loc) {
		if i, ok := index[civilOf(rec.SortTime, loc)]; ok {
			days[i].Entries = append(days[i].Entries, rec)
		}
	}

	out := []Entry{}
	if len(dates) == 0 {
		for i, e := range events {
			out = append(out, Entry{Event: e, SortTime: e.StartTime, Anchor: AnchorStart, Order: i})
		}
		return Buckets{Days: days, OutOfRange: out}
	}

	rangeStart := days[0].Date
	rangeEnd := days[len(days)-1].Date.AddDate(0, 0, 1)
	within := func(t time.Time) bool {
		return !t.Before(rangeStart) && t.Before(rangeEnd)
	}

	for i, e := range events {
		if within(e.StartTime) || (e.EndTime != nil && within(*e.EndTime)) {
			continue
		}
		out = append(out, Entry{Event: e, SortTime: e.StartTime, Anchor: AnchorStart, Order: i})
	}

	return Buckets{Days: days, OutOfRange: out}
}
