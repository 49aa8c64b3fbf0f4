package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/schedule"
	"github.com/pkordes/trip-planner/internal/service"
)

// scheduleFixture builds a schedule the same way ScheduleService does, for a
// three-day trip in Tokyo time with one lunch, one two-night hotel stay, and
// one event a week after the trip.
func scheduleFixture() service.Schedule {
	trip := tripFixture()
	loc := trip.Zone()

	lunch := eventFixture(trip.ID)
	lat, lng := 35.005, 135.764
	lunch.Location.Lat, lunch.Location.Lng = &lat, &lng

	checkOut := time.Date(2025, 4, 3, 10, 0, 0, 0, loc)
	hotel := domain.Event{
		ID:           uuid.New(),
		TripID:       trip.ID,
		Category:     domain.CategoryHotel,
		Name:         "Ryokan Yachiyo",
		StartTime:    time.Date(2025, 4, 1, 15, 0, 0, 0, loc),
		EndTime:      &checkOut,
		CheckOutTime: &checkOut,
	}
	later := domain.Event{
		ID:        uuid.New(),
		TripID:    trip.ID,
		Category:  domain.CategoryShopping,
		Name:      "Souvenirs",
		StartTime: time.Date(2025, 4, 10, 9, 0, 0, 0, loc),
	}

	events := []domain.Event{hotel, lunch, later}
	markers := schedule.Markers(events)
	return service.Schedule{
		Trip:    trip,
		Buckets: schedule.Build(schedule.TripDates(trip.StartDate, trip.EndDate, loc), events, loc),
		Markers: markers,
		Center:  schedule.Center(markers),
	}
}

func TestGetSchedule_200(t *testing.T) {
	fixture := scheduleFixture()
	d := newDeps()
	d.schedules.get = func(_ context.Context, userID, tripID uuid.UUID) (service.Schedule, error) {
		assert.Equal(t, testUser.ID, userID)
		assert.Equal(t, fixture.Trip.ID, tripID)
		return fixture, nil
	}

	rec := d.serve(authed(http.MethodGet, "/trips/"+fixture.Trip.ID.String()+"/schedule", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.Schedule](t, rec)

	require.Len(t, resp.Days, 3)
	assert.Equal(t, "2025-04-01", resp.Days[0].Date.String())
	assert.Equal(t, "2025-04-03", resp.Days[2].Date.String())

	// Day 1: hotel check-in.
	require.Len(t, resp.Days[0].Entries, 1)
	checkIn := resp.Days[0].Entries[0]
	assert.Equal(t, "start", checkIn.Anchor)
	assert.Equal(t, 1, checkIn.Marker)
	assert.Equal(t, "Ryokan Yachiyo (check-in: 15:00 -)", checkIn.Caption)
	assert.Equal(t, "15:00 -", checkIn.Time)

	// Day 2: lunch, shown in trip-local time.
	require.Len(t, resp.Days[1].Entries, 1)
	lunch := resp.Days[1].Entries[0]
	assert.Equal(t, 2, lunch.Marker)
	assert.Equal(t, "12:00 - 14:00", lunch.Time)
	assert.Equal(t, "restaurant", lunch.Category)

	// Day 3: hotel check-out, numbered like its check-in.
	require.Len(t, resp.Days[2].Entries, 1)
	assert.Equal(t, "end", resp.Days[2].Entries[0].Anchor)
	assert.Equal(t, 1, resp.Days[2].Entries[0].Marker)
	assert.Equal(t, "Ryokan Yachiyo (check-out: - 10:00)", resp.Days[2].Entries[0].Caption)

	require.Len(t, resp.OutOfRange, 1)
	assert.Equal(t, "Souvenirs", resp.OutOfRange[0].Caption)

	require.Len(t, resp.Markers, 1)
	assert.Equal(t, "Lunch at Nishiki", resp.Markers[0].Name)
	assert.Equal(t, "2", resp.Markers[0].Label)
	require.NotNil(t, resp.Center)
	assert.InDelta(t, 35.005, resp.Center.Lat, 1e-9)
}

func TestGetSchedule_200_EmptyBucketsAreArrays(t *testing.T) {
	trip := tripFixture()
	loc := trip.Zone()
	d := newDeps()
	d.schedules.get = func(_ context.Context, _, _ uuid.UUID) (service.Schedule, error) {
		return service.Schedule{
			Trip:    trip,
			Buckets: schedule.Build(schedule.TripDates(trip.StartDate, trip.EndDate, loc), nil, loc),
		}, nil
	}

	rec := d.serve(authed(http.MethodGet, "/trips/"+trip.ID.String()+"/schedule", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"entries":[]`)
	assert.Contains(t, body, `"out_of_range":[]`)
	assert.Contains(t, body, `"markers":[]`)
	assert.Contains(t, body, `"center":null`)
}

func TestGetSchedule_404(t *testing.T) {
	d := newDeps()
	d.schedules.get = func(_ context.Context, _, _ uuid.UUID) (service.Schedule, error) {
		return service.Schedule{}, domain.ErrNotFound
	}

	rec := d.serve(authed(http.MethodGet, "/trips/"+uuid.NewString()+"/schedule", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trip not found", decode[handler.ErrorResponse](t, rec).Error.Message)
}
