package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/attendance"
	"github.com/smart-attendance/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionFor(userID string, day time.Time) attendance.Session {
	return attendance.Session{
		UserID:           userID,
		WorkDate:         day,
		CheckIn:          day.Add(9 * time.Hour),
		CheckInLatitude:  23.2599,
		CheckInLongitude: 77.4126,
		Status:           attendance.StatusPresent,
	}
}

func TestSessionRepository_Create_Success(t *testing.T) {
	db := newTestDB(t)
	defer truncateSessions(t, db)

	ctx := context.Background()
	repo := postgresql.NewSessionRepository(db)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, sessionFor(uuid.NewString(), day))

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestSessionRepository_Create_DuplicateOpenSession(t *testing.T) {
	db := newTestDB(t)
	defer truncateSessions(t, db)

	ctx := context.Background()
	repo := postgresql.NewSessionRepository(db)
	userID := uuid.NewString()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, sessionFor(userID, day))
	require.NoError(t, err)

	_, err = repo.Create(ctx, sessionFor(userID, day))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestSessionRepository_Create_ConcurrentDuplicate(t *testing.T) {
	db := newTestDB(t)
	defer truncateSessions(t, db)

	ctx := context.Background()
	repo := postgresql.NewSessionRepository(db)
	userID := uuid.NewString()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, sessionFor(userID, day))
		}(i)
	}
	wg.Wait()

	// Exactly one check-in wins; the rest hit either the row lock or the
	// partial unique index and surface the same domain error.
	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)

	var openRows int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_sessions
		WHERE user_id = $1 AND work_date = $2 AND check_out IS NULL
	`, userID, day).Scan(&openRows)
	require.NoError(t, err)
	assert.Equal(t, 1, openRows)
}

func TestSessionRepository_Create_AllowedAfterCheckOut(t *testing.T) {
	db := newTestDB(t)
	defer truncateSessions(t, db)

	ctx := context.Background()
	repo := postgresql.NewSessionRepository(db)
	userID := uuid.NewString()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, sessionFor(userID, day))
	require.NoError(t, err)

	checkOut := day.Add(13 * time.Hour)
	first.CheckOut = &checkOut
	first.Status = attendance.StatusPresent
	require.NoError(t, repo.Close(ctx, first))

	// The partial unique index only guards open sessions.
	_, err = repo.Create(ctx, sessionFor(userID, day))
	assert.NoError(t, err)
}

func TestSessionRepository_GetOpenSession_None(t *testing.T) {
	db := newTestDB(t)
	defer truncateSessions(t, db)

	ctx := context.Background()
	repo := postgresql.NewSessionRepository(db)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := repo.GetOpenSession(ctx, uuid.NewString(), day)
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestSessionRepository_GetOpenSession_Found(t *testing.T) {
	db := newTestDB(t)
	defer truncateSessions(t, db)

	ctx := context.Background()
	repo := postgresql.NewSessionRepository(db)
	userID := uuid.NewString()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, sessionFor(userID, day))
	require.NoError(t, err)

	found, err := repo.GetOpenSession(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Nil(t, found.CheckOut)
}

func TestSessionRepository_GetOpenSession_Multiple(t *testing.T) {
	db := newTestDB(t)
	defer truncateSessions(t, db)

	ctx := context.Background()
	repo := postgresql.NewSessionRepository(db)
	userID := uuid.NewString()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// Simulate out-of-band writes: drop the guard index, insert two open
	// rows directly, and restore the index afterwards.
	_, err := db.Exec(ctx, "DROP INDEX IF EXISTS uq_attendance_sessions_open")
	require.NoError(t, err)
	defer func() {
		truncateSessions(t, db)
		_, err := db.Exec(ctx, `
			CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_sessions_open
				ON attendance_sessions (user_id, work_date)
				WHERE check_out IS NULL
		`)
		require.NoError(t, err)
	}()

	for i := 0; i < 2; i++ {
		_, err := db.Exec(ctx, `
			INSERT INTO attendance_sessions (
				id, user_id, work_date, check_in, check_in_latitude, check_in_longitude, status
			) VALUES ($1, $2, $3, $4, 23.2599, 77.4126, 'present')
		`, uuid.NewString(), userID, day, day.Add(time.Duration(9+i)*time.Hour))
		require.NoError(t, err)
	}

	_, err = repo.GetOpenSession(ctx, userID, day)
	assert.ErrorIs(t, err, attendance.ErrMultipleOpenSessions)
}

func TestSessionRepository_Close_AlreadyClosed(t *testing.T) {
	db := newTestDB(t)
	defer truncateSessions(t, db)

	ctx := context.Background()
	repo := postgresql.NewSessionRepository(db)
	userID := uuid.NewString()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, sessionFor(userID, day))
	require.NoError(t, err)

	checkOut := day.Add(18 * time.Hour)
	created.CheckOut = &checkOut
	require.NoError(t, repo.Close(ctx, created))

	err = repo.Close(ctx, created)
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}
