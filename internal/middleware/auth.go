package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// SessionValidator resolves a bearer token. Satisfied by *service.AuthService.
type SessionValidator interface {
	Authenticate(ctx context.Context, token string) (service.AuthResult, error)
}

type principalKey struct{}

// ContextWithPrincipal returns a derived context carrying the signed-in user
// and session.
func ContextWithPrincipal(ctx context.Context, p service.AuthResult) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by RequireSession.
func PrincipalFromContext(ctx context.Context) (service.AuthResult, bool) {
	p, ok := ctx.Value(principalKey{}).(service.AuthResult)
	return p, ok
}

// RequireSession rejects requests without a valid "Authorization: Bearer"
// token with 401 and otherwise stores the principal in the request context.
func RequireSession(v SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			p, err := v.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					writeError(w, http.StatusUnauthorized, "unauthorized", "session is invalid or expired")
					return
				}
				logger.ErrorContext(r.Context(), "session lookup failed", "error", err)
				writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
				return
			}

			annotateUser(r.Context(), p.User.ID.String())
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
