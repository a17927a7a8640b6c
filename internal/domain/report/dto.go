package report

import (
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/validator"
)

type Filter struct {
	StartDate  *string // YYYY-MM-DD
	EndDate    *string // YYYY-MM-DD
	UserID     *string
	Department *string
	Status     *string
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Row is one line of the admin attendance report.
type Row struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	Department   *string `json:"department,omitempty"`
	Date         string  `json:"date"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	TotalMinutes *int    `json:"total_minutes,omitempty"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes,omitempty"`
}

type Totals struct {
	TotalRecords int `json:"total_records"`
	PresentDays  int `json:"present_days"`
	LateDays     int `json:"late_days"`
	HalfDays     int `json:"half_days"`
}

type AttendanceReportResponse struct {
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}

// DashboardStats is the admin dashboard snapshot.
type DashboardStats struct {
	TotalEmployees   int      `json:"total_employees"`
	TodayCheckedIn   int      `json:"today_checked_in"`
	TodayPresent     int      `json:"today_present"`
	TodayLate        int      `json:"today_late"`
	CurrentlyIn      int      `json:"currently_in"`
	MonthAvgWorkedMn *float64 `json:"month_avg_worked_minutes"`
}

// EmployeeSummary aggregates one employee's sessions over a period.
type EmployeeSummary struct {
	TotalDays        int      `json:"total_days"`
	PresentDays      int      `json:"present_days"`
	LateDays         int      `json:"late_days"`
	HalfDays         int      `json:"half_days"`
	AvgWorkedMinutes *float64 `json:"avg_worked_minutes"`
}

// TrendPoint is one day in the attendance trend series.
type TrendPoint struct {
	Date             string   `json:"date"`
	TotalAttendance  int      `json:"total_attendance"`
	LateCount        int      `json:"late_count"`
	OnTimeCount      int      `json:"on_time_count"`
	AvgWorkedMinutes *float64 `json:"avg_working_minutes"`
}

// HourCount is the number of check-ins that fell in one local hour of day.
type HourCount struct {
	Hour         int `json:"hour"`
	CheckInCount int `json:"checkin_count"`
}

// DepartmentStats aggregates a department's attendance over the period.
type DepartmentStats struct {
	Department       string   `json:"department"`
	TotalAttendance  int      `json:"total_attendance"`
	LateCount        int      `json:"late_count"`
	AvgWorkedMinutes *float64 `json:"avg_working_minutes"`
	ActiveEmployees  int      `json:"active_employees"`
}

// AnalyticsResponse is the advanced analytics view: trends over time,
// peak check-in hours and per-department performance.
type AnalyticsResponse struct {
	PeriodDays            int               `json:"period_days"`
	AttendanceTrends      []TrendPoint      `json:"attendance_trends"`
	CheckInPatterns       []HourCount       `json:"checkin_patterns"`
	DepartmentPerformance []DepartmentStats `json:"department_performance"`
}

type EmployeeReportResponse struct {
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	EmployeeID *string         `json:"employee_id,omitempty"`
	Department *string         `json:"department,omitempty"`
	Summary    EmployeeSummary `json:"summary"`
	Rows       []Row           `json:"rows"`
}
