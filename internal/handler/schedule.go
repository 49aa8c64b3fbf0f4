package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/schedule"
	"github.com/pkordes/trip-planner/internal/service"
)

// GetSchedule handles GET /trips/{tripId}/schedule: the trip's events grouped
// into one bucket per trip day plus the out-of-range bucket, with map markers.
func (s *Server) GetSchedule(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := s.tripPath(w, r)
	if !ok {
		return
	}

	sched, err := s.schedules.Get(r.Context(), userID, tripID)
	if err != nil {
		s.fail(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, scheduleToResponse(sched))
}

func scheduleToResponse(sched service.Schedule) Schedule {
	loc := sched.Trip.Zone()

	days := make([]ScheduleDay, len(sched.Buckets.Days))
	for i, d := range sched.Buckets.Days {
		y, m, dd := d.Date.Date()
		days[i] = ScheduleDay{
			Date:    openapi_types.Date{Time: time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)},
			Entries: entriesToResponse(d.Entries, loc),
		}
	}

	markers := make([]Marker, len(sched.Markers))
	for i, m := range sched.Markers {
		markers[i] = Marker{
			EventId:  m.EventID,
			Label:    m.Label,
			Name:     m.Name,
			Address:  m.Address,
			Position: Position{Lat: m.Position.Lat, Lng: m.Position.Lng},
		}
	}

	resp := Schedule{
		Trip:       tripToResponse(sched.Trip),
		Days:       days,
		OutOfRange: entriesToResponse(sched.Buckets.OutOfRange, loc),
		Markers:    markers,
	}
	if sched.Center != nil {
		resp.Center = &Position{Lat: sched.Center.Lat, Lng: sched.Center.Lng}
	}
	return resp
}

// entriesToResponse never returns nil so empty buckets encode as [].
func entriesToResponse(entries []schedule.Entry, loc *time.Location) []ScheduleEntry {
	out := make([]ScheduleEntry, len(entries))
	for i, e := range entries {
		out[i] = ScheduleEntry{
			EventId:  e.Event.ID,
			Marker:   e.Order + 1,
			Anchor:   string(e.Anchor),
			SortTime: e.SortTime,
			Caption:  schedule.Caption(e, loc),
			Time:     schedule.TimeLabel(e, loc),
			Category: string(e.Event.Category),
			Event:    eventToResponse(e.Event),
		}
	}
	return out
}
