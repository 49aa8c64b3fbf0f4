package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// DefaultSessionTTL is how long a session lasts when no TTL is configured.
const DefaultSessionTTL = 720 * time.Hour

// AuthResult is a signed-in user together with the session just issued.
type AuthResult struct {
	User    domain.User
	Session domain.Session
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithTokenGenerator replaces the random session token source.
func WithTokenGenerator(gen func() (string, error)) AuthOption {
	return func(s *AuthService) { s.newToken = gen }
}

// WithArgon2Params sets the cost of newly created password hashes.
func WithArgon2Params(p Argon2Params) AuthOption {
	return func(s *AuthService) { s.params = p }
}

// AuthService manages accounts and the sessions that authenticate them.
// Wrong credentials are always reported as domain.ErrUnauthorized without
// saying which half was wrong.
type AuthService struct {
	users    repo.UserRepo
	sessions repo.SessionRepo
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
	newToken func() (string, error)
	params   Argon2Params
}

// NewAuthService constructs an AuthService. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewAuthService(users repo.UserRepo, sessions repo.SessionRepo, ttl time.Duration, logger *slog.Logger, opts ...AuthOption) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		newToken: randomToken,
		params:   DefaultArgon2Params,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp creates an email/password account and signs it in.
// Returns domain.ErrValidation for a bad email or short password and
// domain.ErrConflict if the email is already registered.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (AuthResult, error) {
	email, err := normalizeCredentials(email, password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.AuthService.SignUp: %w", err)
	}
	hash, err := HashPassword(password, s.params)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.AuthService.SignUp: %w", err)
	}
	user, err := s.users.Create(ctx, domain.User{Email: email, PasswordHash: hash})
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.AuthService.SignUp: %w", err)
	}
	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return s.issue(ctx, user, "service.AuthService.SignUp")
}

// SignIn checks an email/password pair and issues a new session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, fmt.Errorf("service.AuthService.SignIn: %w", domain.ErrUnauthorized)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("service.AuthService.SignIn: %w", err)
	}
	if err := s.verify(user, password); err != nil {
		s.logger.InfoContext(ctx, "sign-in rejected", "user_id", user.ID)
		return AuthResult{}, fmt.Errorf("service.AuthService.SignIn: %w", err)
	}
	return s.issue(ctx, user, "service.AuthService.SignIn")
}

// SignInAnonymously creates a credential-less account and signs it in.
func (s *AuthService) SignInAnonymously(ctx context.Context) (AuthResult, error) {
	user, err := s.users.Create(ctx, domain.User{Anonymous: true})
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.AuthService.SignInAnonymously: %w", err)
	}
	return s.issue(ctx, user, "service.AuthService.SignInAnonymously")
}

// SignOut revokes the session identified by token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrUnauthorized
		}
		return fmt.Errorf("service.AuthService.SignOut: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user and session.
// Unknown and expired tokens are domain.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (AuthResult, error) {
	if token == "" {
		return AuthResult{}, fmt.Errorf("service.AuthService.Authenticate: %w", domain.ErrUnauthorized)
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	if session.Expired(s.now()) {
		return AuthResult{}, fmt.Errorf("service.AuthService.Authenticate: %w: session expired", domain.ErrUnauthorized)
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	return AuthResult{User: user, Session: session}, nil
}

// ChangeEmail moves a credentialed account to a new email after checking
// the current password.
func (s *AuthService) ChangeEmail(ctx context.Context, userID uuid.UUID, password, newEmail string) (domain.User, error) {
	user, err := s.reauthenticate(ctx, userID, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.ChangeEmail: %w", err)
	}
	email, err := normalizeEmail(newEmail)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.ChangeEmail: %w", err)
	}
	user.Email = email
	user, err = s.users.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.ChangeEmail: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password of a credentialed account after
// checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.reauthenticate(ctx, userID, current)
	if err != nil {
		return fmt.Errorf("service.AuthService.ChangePassword: %w", err)
	}
	if len(next) < MinPasswordLength {
		return fmt.Errorf("service.AuthService.ChangePassword: %w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	if user.PasswordHash, err = HashPassword(next, s.params); err != nil {
		return fmt.Errorf("service.AuthService.ChangePassword: %w", err)
	}
	if _, err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("service.AuthService.ChangePassword: %w", err)
	}
	return nil
}

// LinkCredentials turns an anonymous account into an email/password account.
// The user keeps the same ID and therefore all of their trips.
// Returns domain.ErrConflict if the account already has credentials or the
// email is taken.
func (s *AuthService) LinkCredentials(ctx context.Context, userID uuid.UUID, email, password string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.LinkCredentials: %w", err)
	}
	if !user.Anonymous {
		return domain.User{}, fmt.Errorf("service.AuthService.LinkCredentials: %w: account already has credentials", domain.ErrConflict)
	}
	if user.Email, err = normalizeCredentials(email, password); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.LinkCredentials: %w", err)
	}
	if user.PasswordHash, err = HashPassword(password, s.params); err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.LinkCredentials: %w", err)
	}
	user.Anonymous = false

	user, err = s.users.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.LinkCredentials: %w", err)
	}
	s.logger.InfoContext(ctx, "anonymous account linked", "user_id", user.ID)
	return user, nil
}

// DeleteAccount removes the user with all sessions, trips, and events.
// Credentialed accounts must confirm with their password; anonymous
// accounts need none.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("service.AuthService.DeleteAccount: %w", err)
	}
	if !user.Anonymous {
		if err := s.verify(user, password); err != nil {
			return fmt.Errorf("service.AuthService.DeleteAccount: %w", err)
		}
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("service.AuthService.DeleteAccount: %w", err)
	}
	s.logger.InfoContext(ctx, "account deleted", "user_id", user.ID)
	return nil
}

// SweepSessions deletes every expired session and reports how many went.
func (s *AuthService) SweepSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("service.AuthService.SweepSessions: %w", err)
	}
	return n, nil
}

func (s *AuthService) issue(ctx context.Context, user domain.User, op string) (AuthResult, error) {
	token, err := s.newToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}
	session, err := s.sessions.Create(ctx, domain.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().Add(s.ttl),
	})
	if err != nil {
		return AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return AuthResult{User: user, Session: session}, nil
}

// reauthenticate loads a credentialed user and checks their password.
func (s *AuthService) reauthenticate(ctx context.Context, userID uuid.UUID, password string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if user.Anonymous {
		return domain.User{}, fmt.Errorf("%w: anonymous accounts must link credentials first", domain.ErrValidation)
	}
	if err := s.verify(user, password); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) verify(user domain.User, password string) error {
	if user.PasswordHash == "" {
		return domain.ErrUnauthorized
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrMalformedHash) {
			s.logger.Error("stored password hash is malformed", "user_id", user.ID)
		}
		return domain.ErrUnauthorized
	}
	return nil
}

func normalizeCredentials(email, password string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	return email, nil
}

// normalizeEmail lowercases a bare address and rejects display-name forms.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	return email, nil
}

// randomToken returns 32 random bytes, base64url-encoded.
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
