package report

import (
	"context"
	"time"
)

// ReportRepository defines read-only reporting queries over attendance
// sessions and users.
type ReportRepository interface {
	// AttendanceRows returns report rows matching the filter, newest
	// first.
	AttendanceRows(ctx context.Context, filter Filter) ([]Row, error)

	// DashboardStats aggregates today's attendance and the running
	// monthly average. today is the current calendar day in the company
	// timezone.
	DashboardStats(ctx context.Context, today time.Time) (DashboardStats, error)

	// EmployeeSummary aggregates one employee's sessions between two
	// dates (inclusive).
	EmployeeSummary(ctx context.Context, userID string, start, end time.Time) (EmployeeSummary, error)

	// Analytics aggregates trends, hourly check-in patterns and
	// department performance for sessions since the given instant.
	// Check-in hours are bucketed in the tz timezone.
	Analytics(ctx context.Context, since time.Time, tz string) (AnalyticsResponse, error)
}
