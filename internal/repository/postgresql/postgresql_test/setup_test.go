package postgresql_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *database.DB
	connectErr error
	setupOnce  sync.Once
)

// newTestDB connects to the database named by TEST_DATABASE_URL and makes
// sure the attendance schema exists. Tests are skipped when the variable is
// unset so the suite stays green without a live postgres.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration tests")
	}

	setupOnce.Do(func() {
		testDB, connectErr = database.NewPostgreSQLDB(dsn)
		if connectErr != nil {
			return
		}
		connectErr = ensureSchema(context.Background(), testDB)
	})
	require.NoError(t, connectErr, "failed to set up test database")

	return testDB
}

func ensureSchema(ctx context.Context, db *database.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS attendance_sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			work_date DATE NOT NULL,
			check_in TIMESTAMPTZ NOT NULL,
			check_in_latitude DOUBLE PRECISION NOT NULL,
			check_in_longitude DOUBLE PRECISION NOT NULL,
			check_out TIMESTAMPTZ,
			check_out_latitude DOUBLE PRECISION,
			check_out_longitude DOUBLE PRECISION,
			status TEXT NOT NULL,
			device_id TEXT,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_sessions_open
			ON attendance_sessions (user_id, work_date)
			WHERE check_out IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

func truncateSessions(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.Exec(context.Background(), "TRUNCATE TABLE attendance_sessions")
	require.NoError(t, err)
}
