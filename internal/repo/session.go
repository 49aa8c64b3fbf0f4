package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// SessionRepo defines the persistence operations for sign-in sessions.
type SessionRepo interface {
	// Create stores a newly issued session.
	Create(ctx context.Context, session domain.Session) (domain.Session, error)

	// GetByToken returns domain.ErrNotFound for an unknown token.
	// Expiry is not checked here; callers compare ExpiresAt themselves.
	GetByToken(ctx context.Context, token string) (domain.Session, error)

	// Delete revokes a single session. Returns domain.ErrNotFound for an unknown token.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every session whose expires_at is not after now
	// and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// pgSessionRepo is the Postgres implementation of SessionRepo.
type pgSessionRepo struct {
	db db
}

// NewSessionRepo constructs a SessionRepo backed by the provided db connection.
func NewSessionRepo(db db) SessionRepo {
	return &pgSessionRepo{db: db}
}

const sessionColumns = `id, user_id, token, created_at, expires_at`

func (r *pgSessionRepo) Create(ctx context.Context, session domain.Session) (domain.Session, error) {
	const q = `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES (@user_id, @token, @expires_at)
		RETURNING ` + sessionColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"user_id":    session.UserID,
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
	})
	result, err := scanSession(row)
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgSessionRepo) GetByToken(ctx context.Context, token string) (domain.Session, error) {
	const q = `SELECT ` + sessionColumns + ` FROM sessions WHERE token = @token`

	result, err := scanSession(r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}))
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.GetByToken: %w", err)
	}
	return result, nil
}

func (r *pgSessionRepo) Delete(ctx context.Context, token string) error {
	const q = `DELETE FROM sessions WHERE token = @token`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"token": token})
	if err != nil {
		return fmt.Errorf("repo.SessionRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SessionRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM sessions WHERE expires_at <= @now`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"now": now})
	if err != nil {
		return 0, fmt.Errorf("repo.SessionRepo.DeleteExpired: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSession(s scanner) (domain.Session, error) {
	var (
		sess   domain.Session
		id     pgtype.UUID
		userID pgtype.UUID
	)

	err := s.Scan(&id, &userID, &sess.Token, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, err
	}

	sess.ID = uuid.UUID(id.Bytes)
	sess.UserID = uuid.UUID(userID.Bytes)
	return sess, nil
}
