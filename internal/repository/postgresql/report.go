package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/report"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// AttendanceRows implements report.ReportRepository.
func (r *reportRepository) AttendanceRows(ctx context.Context, filter report.Filter) ([]report.Row, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "u.is_active = true"
	args := []interface{}{}
	argIdx := 1

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND s.work_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND s.work_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND s.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.Department != nil && *filter.Department != "" {
		baseWhere += fmt.Sprintf(" AND u.department = $%d", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND s.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT
			s.user_id, u.name, u.employee_id, u.department,
			s.work_date, s.check_in, s.check_out,
			CASE WHEN s.check_out IS NOT NULL
				THEN FLOOR(EXTRACT(EPOCH FROM (s.check_out - s.check_in)) / 60)::int
			END AS total_minutes,
			s.status, s.notes
		FROM attendance_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE %s
		ORDER BY s.check_in DESC
	`, baseWhere)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}
	defer rows.Close()

	var result []report.Row
	for rows.Next() {
		var (
			row      report.Row
			workDate time.Time
			checkIn  time.Time
			checkOut *time.Time
		)
		err := rows.Scan(
			&row.UserID, &row.Name, &row.EmployeeID, &row.Department,
			&workDate, &checkIn, &checkOut,
			&row.TotalMinutes, &row.Status, &row.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}

		row.Date = workDate.Format("2006-01-02")
		row.CheckInTime = checkIn.Format("2006-01-02 15:04:05")
		if checkOut != nil {
			formatted := checkOut.Format("2006-01-02 15:04:05")
			row.CheckOutTime = &formatted
		}

		result = append(result, row)
	}

	return result, nil
}

// DashboardStats implements report.ReportRepository.
func (r *reportRepository) DashboardStats(ctx context.Context, today time.Time) (report.DashboardStats, error) {
	q := GetQuerier(ctx, r.db)

	var stats report.DashboardStats
	workDate := today.Format("2006-01-02")

	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_active = true AND role = 'employee'),
			COUNT(s.id),
			COUNT(s.id) FILTER (WHERE s.status = 'present'),
			COUNT(s.id) FILTER (WHERE s.status = 'late'),
			COUNT(s.id) FILTER (WHERE s.check_out IS NULL)
		FROM attendance_sessions s
		WHERE s.work_date = $1
	`

	err := q.QueryRow(ctx, query, workDate).Scan(
		&stats.TotalEmployees, &stats.TodayCheckedIn, &stats.TodayPresent,
		&stats.TodayLate, &stats.CurrentlyIn,
	)
	if err != nil {
		return report.DashboardStats{}, fmt.Errorf("failed to query dashboard stats: %w", err)
	}

	avgQuery := `
		SELECT AVG(FLOOR(EXTRACT(EPOCH FROM (check_out - check_in)) / 60))
		FROM attendance_sessions
		WHERE check_out IS NOT NULL
		  AND EXTRACT(MONTH FROM work_date) = $1
		  AND EXTRACT(YEAR FROM work_date) = $2
	`

	err = q.QueryRow(ctx, avgQuery, int(today.Month()), today.Year()).Scan(&stats.MonthAvgWorkedMn)
	if err != nil {
		return report.DashboardStats{}, fmt.Errorf("failed to query monthly average: %w", err)
	}

	return stats, nil
}

// Analytics implements report.ReportRepository.
func (r *reportRepository) Analytics(ctx context.Context, since time.Time, tz string) (report.AnalyticsResponse, error) {
	q := GetQuerier(ctx, r.db)

	var result report.AnalyticsResponse

	trendsQuery := `
		SELECT
			work_date,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'late'),
			COUNT(*) FILTER (WHERE status = 'present'),
			AVG(FLOOR(EXTRACT(EPOCH FROM (check_out - check_in)) / 60)) FILTER (WHERE check_out IS NOT NULL)
		FROM attendance_sessions
		WHERE check_in >= $1
		GROUP BY work_date
		ORDER BY work_date ASC
	`

	rows, err := q.Query(ctx, trendsQuery, since)
	if err != nil {
		return report.AnalyticsResponse{}, fmt.Errorf("failed to query attendance trends: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			point    report.TrendPoint
			workDate time.Time
		)
		err := rows.Scan(
			&workDate, &point.TotalAttendance, &point.LateCount,
			&point.OnTimeCount, &point.AvgWorkedMinutes,
		)
		if err != nil {
			return report.AnalyticsResponse{}, fmt.Errorf("failed to scan trend point: %w", err)
		}
		point.Date = workDate.Format("2006-01-02")
		result.AttendanceTrends = append(result.AttendanceTrends, point)
	}
	rows.Close()

	patternsQuery := `
		SELECT
			EXTRACT(HOUR FROM check_in AT TIME ZONE $2)::int AS hour,
			COUNT(*)
		FROM attendance_sessions
		WHERE check_in >= $1
		GROUP BY hour
		ORDER BY hour ASC
	`

	rows, err = q.Query(ctx, patternsQuery, since, tz)
	if err != nil {
		return report.AnalyticsResponse{}, fmt.Errorf("failed to query check-in patterns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket report.HourCount
		if err := rows.Scan(&bucket.Hour, &bucket.CheckInCount); err != nil {
			return report.AnalyticsResponse{}, fmt.Errorf("failed to scan check-in pattern: %w", err)
		}
		result.CheckInPatterns = append(result.CheckInPatterns, bucket)
	}
	rows.Close()

	departmentsQuery := `
		SELECT
			u.department,
			COUNT(*),
			COUNT(*) FILTER (WHERE s.status = 'late'),
			AVG(FLOOR(EXTRACT(EPOCH FROM (s.check_out - s.check_in)) / 60)) FILTER (WHERE s.check_out IS NOT NULL),
			COUNT(DISTINCT s.user_id)
		FROM attendance_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.check_in >= $1 AND u.department IS NOT NULL
		GROUP BY u.department
		ORDER BY COUNT(*) DESC
	`

	rows, err = q.Query(ctx, departmentsQuery, since)
	if err != nil {
		return report.AnalyticsResponse{}, fmt.Errorf("failed to query department performance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dept report.DepartmentStats
		err := rows.Scan(
			&dept.Department, &dept.TotalAttendance, &dept.LateCount,
			&dept.AvgWorkedMinutes, &dept.ActiveEmployees,
		)
		if err != nil {
			return report.AnalyticsResponse{}, fmt.Errorf("failed to scan department performance: %w", err)
		}
		result.DepartmentPerformance = append(result.DepartmentPerformance, dept)
	}

	return result, nil
}

// EmployeeSummary implements report.ReportRepository.
func (r *reportRepository) EmployeeSummary(ctx context.Context, userID string, start, end time.Time) (report.EmployeeSummary, error) {
	q := GetQuerier(ctx, r.db)

	var summary report.EmployeeSummary

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'late'),
			COUNT(*) FILTER (WHERE status = 'half_day'),
			AVG(FLOOR(EXTRACT(EPOCH FROM (check_out - check_in)) / 60)) FILTER (WHERE check_out IS NOT NULL)
		FROM attendance_sessions
		WHERE user_id = $1 AND work_date BETWEEN $2 AND $3
	`

	err := q.QueryRow(ctx, query, userID, start.Format("2006-01-02"), end.Format("2006-01-02")).Scan(
		&summary.TotalDays, &summary.PresentDays, &summary.LateDays,
		&summary.HalfDays, &summary.AvgWorkedMinutes,
	)
	if err != nil {
		return report.EmployeeSummary{}, fmt.Errorf("failed to query employee summary: %w", err)
	}

	return summary, nil
}
