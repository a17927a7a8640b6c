package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations.
// The authenticated user ID is resolved by the HTTP layer and passed in
// explicitly.
type AttendanceService interface {
	// CheckIn validates the geofence, enforces the one-open-session
	// invariant and records a new session with its present/late status.
	CheckIn(ctx context.Context, userID string, req CheckInRequest) (CheckInResponse, error)

	// CheckOut closes the user's open session for today, computing worked
	// minutes and applying the half-day override.
	CheckOut(ctx context.Context, userID string, req CheckOutRequest) (CheckOutResponse, error)

	// TodayStatus derives today's check-in/check-out view for the user.
	TodayStatus(ctx context.Context, userID string) (TodayStatusResponse, error)

	// History retrieves the user's attendance with pagination and the
	// current-month summary.
	History(ctx context.Context, userID string, filter HistoryFilter) (HistoryResponse, error)

	// UpdateSession applies an admin fix-up to a session.
	UpdateSession(ctx context.Context, req UpdateSessionRequest) (SessionResponse, error)

	// DeleteSession hard-deletes a session (admin only).
	DeleteSession(ctx context.Context, id string) error
}
