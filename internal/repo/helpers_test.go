package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/testutil"
)

// newTestTx opens a transaction against the test database. The transaction is
// automatically rolled back when the test finishes, giving free per-test
// isolation. Every repo under test in one function shares it.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies migrations.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test, so no cleanup SQL is needed.
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// createUser inserts a throwaway user to own trips in the test.
func createUser(t *testing.T, tx pgx.Tx, email string) domain.User {
	t.Helper()
	u, err := repo.NewUserRepo(tx).Create(context.Background(), domain.User{
		Email:        email,
		PasswordHash: "$argon2id$test",
	})
	require.NoError(t, err, "create user")
	return u
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture(user domain.User) domain.Trip {
	return domain.Trip{
		UserID:    user.ID,
		Title:     "Kyoto Spring",
		StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
		Location:  "Kyoto",
		Note:      "Test notes",
		TimeZone:  "Asia/Tokyo",
	}
}

// ghostID is a UUID that is never inserted.
var ghostID = [16]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
