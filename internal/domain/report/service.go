package report

import "context"

// ReportService defines admin reporting operations.
type ReportService interface {
	// AttendanceReport returns filtered report rows plus status totals.
	AttendanceReport(ctx context.Context, filter Filter) (AttendanceReportResponse, error)

	// Dashboard returns today's headline numbers for the admin screen.
	Dashboard(ctx context.Context) (DashboardStats, error)

	// EmployeeReport returns one employee's period summary and rows.
	EmployeeReport(ctx context.Context, userID string, filter Filter) (EmployeeReportResponse, error)

	// Analytics returns trends, peak check-in hours and department
	// performance over the trailing periodDays days (default 30).
	Analytics(ctx context.Context, periodDays int) (AnalyticsResponse, error)

	// ExportCSV renders the attendance report as CSV.
	ExportCSV(ctx context.Context, filter Filter) ([]byte, error)
}
