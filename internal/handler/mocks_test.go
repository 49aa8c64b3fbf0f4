package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/service"
)

const testToken = "test-token"

// testUser is the principal every authed request resolves to.
var testUser = domain.User{
	ID:        uuid.MustParse("0b9a7d1e-7f3c-4a57-9d0e-2f6c1a8b4e11"),
	Email:     "alice@example.com",
	CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
}

// ---- mocks -----------------------------------------------------------------

// mockAuthServicer is a test double for handler.AuthServicer.
// Authenticate accepts testToken unless authenticate is set.
type mockAuthServicer struct {
	authenticate      func(ctx context.Context, token string) (service.AuthResult, error)
	signUp            func(ctx context.Context, email, password string) (service.AuthResult, error)
	signIn            func(ctx context.Context, email, password string) (service.AuthResult, error)
	signInAnonymously func(ctx context.Context) (service.AuthResult, error)
	signOut           func(ctx context.Context, token string) error
	changeEmail       func(ctx context.Context, userID uuid.UUID, password, newEmail string) (domain.User, error)
	changePassword    func(ctx context.Context, userID uuid.UUID, current, next string) error
	linkCredentials   func(ctx context.Context, userID uuid.UUID, email, password string) (domain.User, error)
	deleteAccount     func(ctx context.Context, userID uuid.UUID, password string) error
}

func (m *mockAuthServicer) Authenticate(ctx context.Context, token string) (service.AuthResult, error) {
	if m.authenticate != nil {
		return m.authenticate(ctx, token)
	}
	if token != testToken {
		return service.AuthResult{}, domain.ErrUnauthorized
	}
	return service.AuthResult{
		User:    testUser,
		Session: domain.Session{UserID: testUser.ID, Token: testToken},
	}, nil
}
func (m *mockAuthServicer) SignUp(ctx context.Context, email, password string) (service.AuthResult, error) {
	return m.signUp(ctx, email, password)
}
func (m *mockAuthServicer) SignIn(ctx context.Context, email, password string) (service.AuthResult, error) {
	return m.signIn(ctx, email, password)
}
func (m *mockAuthServicer) SignInAnonymously(ctx context.Context) (service.AuthResult, error) {
	return m.signInAnonymously(ctx)
}
func (m *mockAuthServicer) SignOut(ctx context.Context, token string) error {
	return m.signOut(ctx, token)
}
func (m *mockAuthServicer) ChangeEmail(ctx context.Context, userID uuid.UUID, password, newEmail string) (domain.User, error) {
	return m.changeEmail(ctx, userID, password, newEmail)
}
func (m *mockAuthServicer) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	return m.changePassword(ctx, userID, current, next)
}
func (m *mockAuthServicer) LinkCredentials(ctx context.Context, userID uuid.UUID, email, password string) (domain.User, error) {
	return m.linkCredentials(ctx, userID, email, password)
}
func (m *mockAuthServicer) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	return m.deleteAccount(ctx, userID, password)
}

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)
	list    func(ctx context.Context, userID uuid.UUID, q domain.TripQuery) ([]domain.Trip, int64, error)
	update  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete  func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, userID, id)
}
func (m *mockTripServicer) List(ctx context.Context, userID uuid.UUID, q domain.TripQuery) ([]domain.Trip, int64, error) {
	return m.list(ctx, userID, q)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}

// mockEventServicer is a test double for handler.EventServicer.
type mockEventServicer struct {
	create       func(ctx context.Context, userID uuid.UUID, event domain.Event) (domain.Event, error)
	getByID      func(ctx context.Context, userID, tripID, eventID uuid.UUID) (domain.Event, error)
	listByTripID func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Event, error)
	update       func(ctx context.Context, userID uuid.UUID, event domain.Event) (domain.Event, error)
	delete       func(ctx context.Context, userID, tripID, eventID uuid.UUID) error
}

func (m *mockEventServicer) Create(ctx context.Context, userID uuid.UUID, e domain.Event) (domain.Event, error) {
	return m.create(ctx, userID, e)
}
func (m *mockEventServicer) GetByID(ctx context.Context, userID, tripID, eventID uuid.UUID) (domain.Event, error) {
	return m.getByID(ctx, userID, tripID, eventID)
}
func (m *mockEventServicer) ListByTripID(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Event, error) {
	return m.listByTripID(ctx, userID, tripID)
}
func (m *mockEventServicer) Update(ctx context.Context, userID uuid.UUID, e domain.Event) (domain.Event, error) {
	return m.update(ctx, userID, e)
}
func (m *mockEventServicer) Delete(ctx context.Context, userID, tripID, eventID uuid.UUID) error {
	return m.delete(ctx, userID, tripID, eventID)
}

// mockScheduleServicer is a test double for handler.ScheduleServicer.
type mockScheduleServicer struct {
	get func(ctx context.Context, userID, tripID uuid.UUID) (service.Schedule, error)
}

func (m *mockScheduleServicer) Get(ctx context.Context, userID, tripID uuid.UUID) (service.Schedule, error) {
	return m.get(ctx, userID, tripID)
}

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	calendar func(ctx context.Context, w io.Writer, userID, tripID uuid.UUID) error
	rows     func(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Calendar(ctx context.Context, w io.Writer, userID, tripID uuid.UUID) error {
	return m.calendar(ctx, w, userID, tripID)
}
func (m *mockExportServicer) Rows(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	return m.rows(ctx, userID)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.AuthServicer     = (*mockAuthServicer)(nil)
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.EventServicer    = (*mockEventServicer)(nil)
	_ handler.ScheduleServicer = (*mockScheduleServicer)(nil)
	_ handler.ExportServicer   = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// deps bundles one mock per servicer. Tests fill in the fields they exercise.
type deps struct {
	auth      *mockAuthServicer
	trips     *mockTripServicer
	events    *mockEventServicer
	schedules *mockScheduleServicer
	exports   *mockExportServicer
}

func newDeps() *deps {
	return &deps{
		auth:      &mockAuthServicer{},
		trips:     &mockTripServicer{},
		events:    &mockEventServicer{},
		schedules: &mockScheduleServicer{},
		exports:   &mockExportServicer{},
	}
}

// serve routes req through the same router main.go mounts in production.
func (d *deps) serve(req *http.Request) *httptest.ResponseRecorder {
	srv := handler.NewServer(d.auth, d.trips, d.events, d.schedules, d.exports, nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

// authed builds a request carrying the test bearer token.
func authed(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:        uuid.New(),
		UserID:    testUser.ID,
		Title:     "Kyoto Spring",
		StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
		Location:  "Kyoto",
		Note:      "cherry blossoms",
		TimeZone:  "Asia/Tokyo",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func eventFixture(tripID uuid.UUID) domain.Event {
	end := time.Date(2025, 4, 2, 5, 0, 0, 0, time.UTC)
	return domain.Event{
		ID:        uuid.New(),
		TripID:    tripID,
		Category:  domain.CategoryRestaurant,
		Name:      "Lunch at Nishiki",
		StartTime: time.Date(2025, 4, 2, 3, 0, 0, 0, time.UTC),
		EndTime:   &end,
		Location:  domain.Place{Name: "Nishiki Market", Address: "Nakagyo Ward, Kyoto"},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}
