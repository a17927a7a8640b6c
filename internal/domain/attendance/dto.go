package attendance

import (
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	DeviceID  *string  `json:"device_id"`
	Notes     *string  `json:"notes"`
}

func (r *CheckInRequest) Validate() error {
	return validateCoordinates(r.Latitude, r.Longitude)
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`
}

func (r *CheckOutRequest) Validate() error {
	return validateCoordinates(r.Latitude, r.Longitude)
}

func validateCoordinates(lat, lon *float64) error {
	var errs validator.ValidationErrors

	if lat == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsValidLatitude(*lat) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if lon == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsValidLongitude(*lon) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckInResponse struct {
	ID             string `json:"id"`
	CheckIn        string `json:"check_in"`
	Status         string `json:"status"`
	DistanceMeters int    `json:"distance"`
}

type CheckOutResponse struct {
	ID           string `json:"id"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	TotalHours   string `json:"total_hours"` // e.g. "7h 30m"
	TotalMinutes int    `json:"total_minutes"`
	Status       string `json:"status"`
}

// TodayAttendance is the session view embedded in the today-status payload.
type TodayAttendance struct {
	ID            string  `json:"id"`
	CheckInTime   string  `json:"check_in_time"`
	CheckOutTime  *string `json:"check_out_time,omitempty"`
	Status        string  `json:"status"`
	MinutesWorked int     `json:"minutes_worked"`
	Notes         *string `json:"notes,omitempty"`
}

type TodayStatusResponse struct {
	HasAttendance bool             `json:"has_attendance"`
	IsCheckedIn   bool             `json:"is_checked_in"`
	HasCheckedOut bool             `json:"has_checked_out"`
	Attendance    *TodayAttendance `json:"attendance"`
	CanCheckIn    bool             `json:"can_check_in"`
	CanCheckOut   bool             `json:"can_check_out"`
}

type HistoryFilter struct {
	Page  int
	Limit int
	Month int // 0 means no month filter
	Year  int // 0 means no year filter
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != 0 && (f.Month < 1 || f.Month > 12) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if f.Month != 0 && f.Year == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is required when month is given",
		})
	}

	if f.Year != 0 && (f.Year < 2000 || f.Year > 2100) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionResponse struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"`
	CheckInTime      string  `json:"check_in_time"`
	CheckOutTime     *string `json:"check_out_time,omitempty"`
	TotalMinutes     *int    `json:"total_minutes,omitempty"`
	Status           string  `json:"status"`
	Notes            *string `json:"notes,omitempty"`
	CheckInLatitude  float64 `json:"latitude_in"`
	CheckInLongitude float64 `json:"longitude_in"`
	UserName         *string `json:"user_name,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalRecords int64 `json:"total_records"`
	PerPage      int   `json:"per_page"`
}

type MonthlySummary struct {
	TotalDays        int      `json:"total_days"`
	PresentDays      int      `json:"present_days"`
	LateDays         int      `json:"late_days"`
	HalfDays         int      `json:"half_days"`
	AvgWorkedMinutes *float64 `json:"avg_worked_minutes"`
}

type HistoryResponse struct {
	Attendance     []SessionResponse `json:"attendance"`
	Pagination     Pagination        `json:"pagination"`
	MonthlySummary MonthlySummary    `json:"monthly_summary"`
}

type UpdateSessionRequest struct {
	ID       string  `json:"-"`
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Status   *string `json:"status"`
	Notes    *string `json:"notes"`
}

func (r *UpdateSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !validator.IsInSlice(*r.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, late, half_day, absent",
		})
	}

	if r.CheckIn == nil && r.CheckOut == nil && r.Status == nil && r.Notes == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "no valid fields to update",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
