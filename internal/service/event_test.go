package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
)

// mockEventRepo is a hand-written test double for repo.EventRepo.
type mockEventRepo struct {
	create       func(ctx context.Context, event domain.Event) (domain.Event, error)
	getByID      func(ctx context.Context, tripID, eventID uuid.UUID) (domain.Event, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Event, error)
	update       func(ctx context.Context, event domain.Event) (domain.Event, error)
	delete       func(ctx context.Context, tripID, eventID uuid.UUID) error
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.create(ctx, event)
}
func (m *mockEventRepo) GetByID(ctx context.Context, tripID, eventID uuid.UUID) (domain.Event, error) {
	return m.getByID(ctx, tripID, eventID)
}
func (m *mockEventRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Event, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.update(ctx, event)
}
func (m *mockEventRepo) Delete(ctx context.Context, tripID, eventID uuid.UUID) error {
	return m.delete(ctx, tripID, eventID)
}

var _ repo.EventRepo = (*mockEventRepo)(nil)

// mockGeocoder resolves addresses from a fixed table.
type mockGeocoder struct {
	known map[string][2]float64
	calls []string
}

func (m *mockGeocoder) Geocode(_ context.Context, address string) (float64, float64, error) {
	m.calls = append(m.calls, address)
	ll, ok := m.known[address]
	if !ok {
		return 0, 0, errors.New("zero results")
	}
	return ll[0], ll[1], nil
}

var _ service.Geocoder = (*mockGeocoder)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoEventRepo() *mockEventRepo {
	return &mockEventRepo{
		create: func(_ context.Context, e domain.Event) (domain.Event, error) { return e, nil },
		update: func(_ context.Context, e domain.Event) (domain.Event, error) { return e, nil },
	}
}

func tripWithID() domain.Trip {
	trip := validTrip()
	trip.ID = uuid.New()
	return trip
}

func validEvent(tripID uuid.UUID) domain.Event {
	end := time.Date(2025, 4, 2, 14, 0, 0, 0, time.UTC)
	return domain.Event{
		TripID:    tripID,
		Category:  domain.CategoryRestaurant,
		Name:      "Lunch at Nishiki",
		StartTime: time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC),
		EndTime:   &end,
	}
}

func newEventService(trips repo.TripRepo, events repo.EventRepo, g service.Geocoder) *service.EventService {
	return service.NewEventService(trips, events, g, discardLogger())
}

// ---- Create tests ----------------------------------------------------------

func TestEventService_Create_Valid(t *testing.T) {
	trip := tripWithID()
	svc := newEventService(ownedTrip(trip), echoEventRepo(), nil)

	got, err := svc.Create(context.Background(), trip.UserID, validEvent(trip.ID))

	require.NoError(t, err)
	assert.Equal(t, "Lunch at Nishiki", got.Name)
	assert.Equal(t, domain.CategoryRestaurant, got.Category)
}

func TestEventService_Create_TripNotOwned(t *testing.T) {
	created := false
	events := &mockEventRepo{
		create: func(_ context.Context, e domain.Event) (domain.Event, error) {
			created = true
			return e, nil
		},
	}
	svc := newEventService(missingTrip(), events, nil)

	_, err := svc.Create(context.Background(), uuid.New(), validEvent(uuid.New()))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, created, "nothing is written for a trip the caller does not own")
}

func TestEventService_Create_DefaultsCategoryToNone(t *testing.T) {
	trip := tripWithID()
	svc := newEventService(ownedTrip(trip), echoEventRepo(), nil)

	e := validEvent(trip.ID)
	e.Category = ""
	got, err := svc.Create(context.Background(), trip.UserID, e)

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryNone, got.Category)
}

func TestEventService_Create_ValidationErrors(t *testing.T) {
	trip := tripWithID()
	svc := newEventService(ownedTrip(trip), echoEventRepo(), nil)

	tests := []struct {
		name   string
		mutate func(e *domain.Event)
	}{
		{"unknown category", func(e *domain.Event) { e.Category = "spa" }},
		{"missing name", func(e *domain.Event) { e.Name = "  " }},
		{"missing start", func(e *domain.Event) { e.StartTime = time.Time{} }},
		{"end before start", func(e *domain.Event) {
			early := e.StartTime.Add(-time.Hour)
			e.EndTime = &early
		}},
		{"relative url", func(e *domain.Event) { e.URL = "/menu" }},
		{"non-http url", func(e *domain.Event) { e.URL = "ftp://example.com/menu" }},
		{"transport without origin", func(e *domain.Event) {
			e.Category = domain.CategoryTransportation
			e.Destination = domain.Place{Name: "Nara"}
		}},
		{"transport with unknown mode", func(e *domain.Event) {
			e.Category = domain.CategoryTransportation
			e.Origin = domain.Place{Name: "Kyoto"}
			e.Destination = domain.Place{Name: "Nara"}
			e.Mode = "rocket"
		}},
		{"hotel check-out before check-in", func(e *domain.Event) {
			e.Category = domain.CategoryHotel
			in := e.StartTime.Add(3 * time.Hour)
			out := e.StartTime
			e.CheckInTime, e.CheckOutTime = &in, &out
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := validEvent(trip.ID)
			tc.mutate(&e)

			_, err := svc.Create(context.Background(), trip.UserID, e)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestEventService_Create_EndEqualToStartIsValid(t *testing.T) {
	trip := tripWithID()
	svc := newEventService(ownedTrip(trip), echoEventRepo(), nil)

	e := validEvent(trip.ID)
	same := e.StartTime
	e.EndTime = &same

	_, err := svc.Create(context.Background(), trip.UserID, e)

	assert.NoError(t, err)
}

func TestEventService_Create_TransportationNeedsNoName(t *testing.T) {
	trip := tripWithID()
	svc := newEventService(ownedTrip(trip), echoEventRepo(), nil)

	e := validEvent(trip.ID)
	e.Category = domain.CategoryTransportation
	e.Name = ""
	e.Location = domain.Place{Name: "ignored"}
	e.Origin = domain.Place{Name: " Kyoto Station "}
	e.Destination = domain.Place{Name: "Nara"}

	got, err := svc.Create(context.Background(), trip.UserID, e)

	require.NoError(t, err)
	assert.Equal(t, domain.TransportCar, got.Mode, "mode defaults to car")
	assert.Equal(t, "Kyoto Station", got.Origin.Name)
	assert.Equal(t, domain.Place{}, got.Location, "transport events carry no single location")
	assert.Equal(t, "Kyoto Station → Nara", got.Title())
}

func TestEventService_Create_ClearsFieldsOfOtherCategories(t *testing.T) {
	trip := tripWithID()
	svc := newEventService(ownedTrip(trip), echoEventRepo(), nil)

	e := validEvent(trip.ID)
	in := e.StartTime
	e.CheckInTime = &in
	e.Mode = domain.TransportTrain
	e.Origin = domain.Place{Name: "Kyoto"}

	got, err := svc.Create(context.Background(), trip.UserID, e)

	require.NoError(t, err)
	assert.Nil(t, got.CheckInTime)
	assert.Empty(t, got.Mode)
	assert.Equal(t, domain.Place{}, got.Origin)
}

func TestEventService_Create_HotelLeavesUnsetCheckTimesEmpty(t *testing.T) {
	trip := tripWithID()
	svc := newEventService(ownedTrip(trip), echoEventRepo(), nil)

	e := validEvent(trip.ID)
	e.Category = domain.CategoryHotel
	e.Name = "Hotel Granvia"

	got, err := svc.Create(context.Background(), trip.UserID, e)

	require.NoError(t, err)
	assert.Nil(t, got.CheckInTime, "the stay's start time is shown instead")
	assert.Nil(t, got.CheckOutTime)
}

func TestEventService_Create_GeocodesAddresses(t *testing.T) {
	trip := tripWithID()
	g := &mockGeocoder{known: map[string][2]float64{"Nishiki Market, Kyoto": {35.005, 135.764}}}
	svc := newEventService(ownedTrip(trip), echoEventRepo(), g)

	e := validEvent(trip.ID)
	e.Location = domain.Place{Name: "Nishiki", Address: "Nishiki Market, Kyoto"}

	got, err := svc.Create(context.Background(), trip.UserID, e)

	require.NoError(t, err)
	require.True(t, got.Location.Located())
	assert.InDelta(t, 35.005, *got.Location.Lat, 1e-9)
	assert.InDelta(t, 135.764, *got.Location.Lng, 1e-9)
}

func TestEventService_Create_KeepsGivenCoordinates(t *testing.T) {
	trip := tripWithID()
	g := &mockGeocoder{}
	svc := newEventService(ownedTrip(trip), echoEventRepo(), g)

	lat, lng := 1.5, 2.5
	e := validEvent(trip.ID)
	e.Location = domain.Place{Address: "Somewhere", Lat: &lat, Lng: &lng}

	got, err := svc.Create(context.Background(), trip.UserID, e)

	require.NoError(t, err)
	assert.Empty(t, g.calls)
	assert.Equal(t, 1.5, *got.Location.Lat)
}

func TestEventService_Create_GeocodingFailureIsNotFatal(t *testing.T) {
	trip := tripWithID()
	g := &mockGeocoder{}
	svc := newEventService(ownedTrip(trip), echoEventRepo(), g)

	e := validEvent(trip.ID)
	e.Location = domain.Place{Address: "Atlantis"}

	got, err := svc.Create(context.Background(), trip.UserID, e)

	require.NoError(t, err)
	assert.Equal(t, []string{"Atlantis"}, g.calls)
	assert.False(t, got.Location.Located())
}

// ---- read tests ------------------------------------------------------------

func TestEventService_GetByID(t *testing.T) {
	trip := tripWithID()
	want := validEvent(trip.ID)
	want.ID = uuid.New()
	events := &mockEventRepo{
		getByID: func(_ context.Context, tripID, eventID uuid.UUID) (domain.Event, error) {
			if tripID != trip.ID || eventID != want.ID {
				return domain.Event{}, domain.ErrNotFound
			}
			return want, nil
		},
	}
	svc := newEventService(ownedTrip(trip), events, nil)

	got, err := svc.GetByID(context.Background(), trip.UserID, trip.ID, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)

	_, err = svc.GetByID(context.Background(), trip.UserID, trip.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_ListByTripID_Empty(t *testing.T) {
	trip := tripWithID()
	events := &mockEventRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Event, error) { return nil, nil },
	}
	svc := newEventService(ownedTrip(trip), events, nil)

	got, err := svc.ListByTripID(context.Background(), trip.UserID, trip.ID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEventService_ListByTripID_TripNotOwned(t *testing.T) {
	svc := newEventService(missingTrip(), &mockEventRepo{}, nil)

	_, err := svc.ListByTripID(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Update / Delete tests -------------------------------------------------

func TestEventService_Update_Valid(t *testing.T) {
	trip := tripWithID()
	svc := newEventService(ownedTrip(trip), echoEventRepo(), nil)

	e := validEvent(trip.ID)
	e.ID = uuid.New()
	e.Name = "Dinner at Pontocho"

	got, err := svc.Update(context.Background(), trip.UserID, e)

	require.NoError(t, err)
	assert.Equal(t, "Dinner at Pontocho", got.Name)
}

func TestEventService_Update_Invalid(t *testing.T) {
	trip := tripWithID()
	svc := newEventService(ownedTrip(trip), echoEventRepo(), nil)

	e := validEvent(trip.ID)
	e.Name = ""

	_, err := svc.Update(context.Background(), trip.UserID, e)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_Delete(t *testing.T) {
	trip := tripWithID()
	deleted := uuid.Nil
	events := &mockEventRepo{
		delete: func(_ context.Context, _, eventID uuid.UUID) error {
			deleted = eventID
			return nil
		},
	}
	svc := newEventService(ownedTrip(trip), events, nil)

	id := uuid.New()
	require.NoError(t, svc.Delete(context.Background(), trip.UserID, trip.ID, id))
	assert.Equal(t, id, deleted)
}

func TestEventService_Delete_TripNotOwned(t *testing.T) {
	svc := newEventService(missingTrip(), &mockEventRepo{}, nil)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
