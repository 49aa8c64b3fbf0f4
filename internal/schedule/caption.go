package schedule

import (
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

const clock = "15:04"

// Caption is the row title for an entry. Hotels are labelled by which end of
// the stay the entry represents; transportation shows its route.
func Caption(e Entry, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	ev := e.Event
	switch ev.Category {
	case domain.CategoryTransportation:
		return ev.Title()
	case domain.CategoryHotel:
		if e.Anchor == AnchorEnd {
			out := ev.EndTime
			if ev.CheckOutTime != nil {
				out = ev.CheckOutTime
			}
			if out == nil {
				return ev.Name
			}
			return ev.Name + " (check-out: - " + out.In(loc).Format(clock) + ")"
		}
		in := ev.StartTime
		if ev.CheckInTime != nil {
			in = *ev.CheckInTime
		}
		return ev.Name + " (check-in: " + in.In(loc).Format(clock) + " -)"
	default:
		return ev.Name
	}
}

// TimeLabel is the time column for an entry:
//
//	"10:00"          no end time
//	"10:00 - 12:00"  ends the same day
//	"22:00 -"        start entry of a multi-day event
//	"- 02:00"        end entry of a multi-day event
func TimeLabel(e Entry, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	ev := e.Event
	start := ev.StartTime.In(loc).Format(clock)
	if ev.EndTime == nil {
		return start
	}
	end := ev.EndTime.In(loc).Format(clock)
	switch {
	case e.Anchor == AnchorEnd:
		return "- " + end
	case !SameDay(ev.StartTime, *ev.EndTime, loc):
		return start + " -"
	default:
		return start + " - " + end
	}
}
