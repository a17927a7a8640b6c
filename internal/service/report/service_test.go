package report

import (
	"context"
	"testing"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/report"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("IST", 5*3600+30*60)

type fakeReportRepo struct {
	rows      []report.Row
	analytics report.AnalyticsResponse

	lastSince time.Time
	lastTZ    string
}

func (f *fakeReportRepo) AttendanceRows(ctx context.Context, filter report.Filter) ([]report.Row, error) {
	return f.rows, nil
}

func (f *fakeReportRepo) DashboardStats(ctx context.Context, today time.Time) (report.DashboardStats, error) {
	return report.DashboardStats{}, nil
}

func (f *fakeReportRepo) EmployeeSummary(ctx context.Context, userID string, start, end time.Time) (report.EmployeeSummary, error) {
	return report.EmployeeSummary{}, nil
}

func (f *fakeReportRepo) Analytics(ctx context.Context, since time.Time, tz string) (report.AnalyticsResponse, error) {
	f.lastSince = since
	f.lastTZ = tz
	return f.analytics, nil
}

type stubUserRepo struct{}

func (stubUserRepo) Create(ctx context.Context, u user.User) (user.User, error)   { return u, nil }
func (stubUserRepo) GetByID(ctx context.Context, id string) (user.User, error)    { return user.User{ID: id}, nil }
func (stubUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}
func (stubUserRepo) List(ctx context.Context, filter user.ListFilter) ([]user.User, int64, error) {
	return nil, 0, nil
}
func (stubUserRepo) Update(ctx context.Context, u user.User) error { return nil }
func (stubUserRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return nil
}
func (stubUserRepo) Delete(ctx context.Context, id string) error { return nil }

func newTestService(at time.Time) (*reportService, *fakeReportRepo) {
	repo := &fakeReportRepo{}
	svc := &reportService{
		reportRepo: repo,
		userRepo:   stubUserRepo{},
		loc:        testLoc,
		now:        func() time.Time { return at },
	}
	return svc, repo
}

func TestAnalytics_DefaultPeriod(t *testing.T) {
	svc, repo := newTestService(time.Date(2025, 3, 10, 15, 30, 0, 0, testLoc))

	resp, err := svc.Analytics(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 30, resp.PeriodDays)
	// 30 days back from the start of March 10.
	assert.Equal(t, time.Date(2025, 2, 8, 0, 0, 0, 0, testLoc), repo.lastSince)
	assert.Equal(t, testLoc.String(), repo.lastTZ)
}

func TestAnalytics_CustomPeriod(t *testing.T) {
	svc, repo := newTestService(time.Date(2025, 3, 10, 15, 30, 0, 0, testLoc))

	repo.analytics = report.AnalyticsResponse{
		AttendanceTrends: []report.TrendPoint{
			{Date: "2025-03-09", TotalAttendance: 4, LateCount: 1, OnTimeCount: 3},
		},
		CheckInPatterns: []report.HourCount{{Hour: 9, CheckInCount: 4}},
		DepartmentPerformance: []report.DepartmentStats{
			{Department: "Engineering", TotalAttendance: 4, ActiveEmployees: 2},
		},
	}

	resp, err := svc.Analytics(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, resp.PeriodDays)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, testLoc), repo.lastSince)
	assert.Len(t, resp.AttendanceTrends, 1)
	assert.Equal(t, 9, resp.CheckInPatterns[0].Hour)
	assert.Equal(t, "Engineering", resp.DepartmentPerformance[0].Department)
}

func TestAttendanceReport_Totals(t *testing.T) {
	svc, repo := newTestService(time.Date(2025, 3, 10, 15, 30, 0, 0, testLoc))

	repo.rows = []report.Row{
		{Status: "present"}, {Status: "present"},
		{Status: "late"}, {Status: "half_day"},
	}

	resp, err := svc.AttendanceReport(context.Background(), report.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Totals.TotalRecords)
	assert.Equal(t, 2, resp.Totals.PresentDays)
	assert.Equal(t, 1, resp.Totals.LateDays)
	assert.Equal(t, 1, resp.Totals.HalfDays)
}
