package attendance

import (
	"context"
	"time"
)

// SessionRepository defines data access for attendance sessions.
type SessionRepository interface {
	// Create inserts a new session. The duplicate-open-session check is
	// re-verified atomically with the insert; a concurrent or repeated
	// check-in for the same user and work date yields ErrAlreadyCheckedIn.
	Create(ctx context.Context, s Session) (Session, error)

	// GetOpenSession finds the open session for the user on the given work
	// date, most recent check-in first. Returns ErrNoOpenSession when none
	// is open and ErrMultipleOpenSessions if the one-open-session invariant
	// has somehow been violated.
	GetOpenSession(ctx context.Context, userID string, workDate time.Time) (Session, error)

	// Close writes the check-out fields, final status and appended notes of
	// a completed session.
	Close(ctx context.Context, s Session) error

	// GetByUserAndDate returns the most recent session for the user on the
	// given work date, or nil when the user has no session that day.
	GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*Session, error)

	// ListByUser retrieves a user's sessions with pagination, newest first.
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Session, int64, error)

	// MonthlySummary aggregates status counts and average worked minutes
	// over the user's sessions in the given month.
	MonthlySummary(ctx context.Context, userID string, month time.Month, year int) (MonthlySummary, error)

	// GetByID retrieves a session by ID. Returns ErrSessionNotFound.
	GetByID(ctx context.Context, id string) (Session, error)

	// Update applies an admin fix-up to an existing session.
	Update(ctx context.Context, s Session) error

	// Delete hard-deletes a session (admin only).
	Delete(ctx context.Context, id string) error
}

// JanitorRepository defines the bulk maintenance queries run by the
// background jobs.
type JanitorRepository interface {
	// ListOpenBefore returns sessions still open on a work date earlier
	// than the given day.
	ListOpenBefore(ctx context.Context, workDate time.Time) ([]Session, error)

	// MarkAbsent inserts zero-length absent sessions for every active
	// employee without a session on the given work date. Returns the
	// number of rows created.
	MarkAbsent(ctx context.Context, workDate time.Time) (int64, error)
}
