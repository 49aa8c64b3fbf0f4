package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/service"
)

type mockValidator struct {
	authenticate func(ctx context.Context, token string) (service.AuthResult, error)
}

func (m *mockValidator) Authenticate(ctx context.Context, token string) (service.AuthResult, error) {
	return m.authenticate(ctx, token)
}

var _ middleware.SessionValidator = (*mockValidator)(nil)

func validatorFor(token string, user domain.User) *mockValidator {
	return &mockValidator{authenticate: func(_ context.Context, got string) (service.AuthResult, error) {
		if got != token {
			return service.AuthResult{}, domain.ErrUnauthorized
		}
		return service.AuthResult{User: user, Session: domain.Session{Token: token, UserID: user.ID}}, nil
	}}
}

// whoAmI echoes the user ID stored in the context, or 418 if there is none.
var whoAmI = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(p.User.ID.String()))
})

func TestRequireSession_ValidToken(t *testing.T) {
	user := domain.User{ID: uuid.New()}
	h := middleware.RequireSession(validatorFor("tok", user), nil)(whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID.String(), rec.Body.String())
}

func TestRequireSession_Rejects(t *testing.T) {
	h := middleware.RequireSession(validatorFor("tok", domain.User{ID: uuid.New()}), nil)(whoAmI)

	for _, header := range []string{"", "tok", "Basic tok", "Bearer ", "Bearer other"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		var body map[string]map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unauthorized", body["error"]["code"])
	}
}

func TestRequireSession_ValidatorFailureIs500(t *testing.T) {
	v := &mockValidator{authenticate: func(context.Context, string) (service.AuthResult, error) {
		return service.AuthResult{}, errors.New("db down")
	}}
	var logs bytes.Buffer
	h := middleware.RequireSession(v, slog.New(slog.NewJSONHandler(&logs, nil)))(whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "db down")
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestRequireSession_AnnotatesRequestLog(t *testing.T) {
	user := domain.User{ID: uuid.New()}
	var logs bytes.Buffer
	h := middleware.NewSlogLogger(slog.New(slog.NewJSONHandler(&logs, nil)))(
		middleware.RequireSession(validatorFor("tok", user), nil)(whoAmI),
	)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer tok")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &logEntry))
	assert.Equal(t, user.ID.String(), logEntry["user_id"])
}
