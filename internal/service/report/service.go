package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/report"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/user"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
)

type reportService struct {
	db         *database.DB
	reportRepo report.ReportRepository
	userRepo   user.UserRepository

	loc *time.Location
	now func() time.Time
}

func NewReportService(db *database.DB, reportRepo report.ReportRepository, userRepo user.UserRepository, loc *time.Location) report.ReportService {
	return &reportService{
		db:         db,
		reportRepo: reportRepo,
		userRepo:   userRepo,
		loc:        loc,
		now:        time.Now,
	}
}

// AttendanceReport implements report.ReportService.
func (s *reportService) AttendanceReport(ctx context.Context, filter report.Filter) (report.AttendanceReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.AttendanceReportResponse{}, err
	}

	rows, err := s.reportRepo.AttendanceRows(ctx, filter)
	if err != nil {
		return report.AttendanceReportResponse{}, fmt.Errorf("failed to build attendance report: %w", err)
	}

	totals := report.Totals{TotalRecords: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case "present":
			totals.PresentDays++
		case "late":
			totals.LateDays++
		case "half_day":
			totals.HalfDays++
		}
	}

	return report.AttendanceReportResponse{Rows: rows, Totals: totals}, nil
}

// Dashboard implements report.ReportService.
func (s *reportService) Dashboard(ctx context.Context) (report.DashboardStats, error) {
	today := s.now().In(s.loc)

	stats, err := s.reportRepo.DashboardStats(ctx, today)
	if err != nil {
		return report.DashboardStats{}, fmt.Errorf("failed to build dashboard stats: %w", err)
	}

	return stats, nil
}

// EmployeeReport implements report.ReportService.
func (s *reportService) EmployeeReport(ctx context.Context, userID string, filter report.Filter) (report.EmployeeReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.EmployeeReportResponse{}, err
	}

	userData, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return report.EmployeeReportResponse{}, err
	}

	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 1, -1)

	if filter.StartDate != nil {
		if parsed, err := time.ParseInLocation("2006-01-02", *filter.StartDate, s.loc); err == nil {
			start = parsed
		}
	}
	if filter.EndDate != nil {
		if parsed, err := time.ParseInLocation("2006-01-02", *filter.EndDate, s.loc); err == nil {
			end = parsed
		}
	}

	summary, err := s.reportRepo.EmployeeSummary(ctx, userID, start, end)
	if err != nil {
		return report.EmployeeReportResponse{}, fmt.Errorf("failed to aggregate employee summary: %w", err)
	}

	filter.UserID = &userID
	rows, err := s.reportRepo.AttendanceRows(ctx, filter)
	if err != nil {
		return report.EmployeeReportResponse{}, fmt.Errorf("failed to list employee sessions: %w", err)
	}

	return report.EmployeeReportResponse{
		UserID:     userData.ID,
		Name:       userData.Name,
		EmployeeID: userData.EmployeeID,
		Department: userData.Department,
		Summary:    summary,
		Rows:       rows,
	}, nil
}

// Analytics implements report.ReportService.
func (s *reportService) Analytics(ctx context.Context, periodDays int) (report.AnalyticsResponse, error) {
	if periodDays < 1 {
		periodDays = 30
	}

	now := s.now().In(s.loc)
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -periodDays)

	result, err := s.reportRepo.Analytics(ctx, since, s.loc.String())
	if err != nil {
		return report.AnalyticsResponse{}, fmt.Errorf("failed to build analytics: %w", err)
	}

	result.PeriodDays = periodDays
	return result, nil
}

// ExportCSV implements report.ReportService.
func (s *reportService) ExportCSV(ctx context.Context, filter report.Filter) ([]byte, error) {
	resp, err := s.AttendanceReport(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Name", "Employee ID", "Department", "Date", "Check In", "Check Out", "Total Minutes", "Status", "Notes"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range resp.Rows {
		record := []string{
			row.Name,
			stringOrEmpty(row.EmployeeID),
			stringOrEmpty(row.Department),
			row.Date,
			row.CheckInTime,
			stringOrEmpty(row.CheckOutTime),
			minutesOrEmpty(row.TotalMinutes),
			row.Status,
			stringOrEmpty(row.Notes),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func minutesOrEmpty(m *int) string {
	if m == nil {
		return ""
	}
	return strconv.Itoa(*m)
}
