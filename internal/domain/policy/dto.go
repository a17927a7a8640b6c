package policy

import (
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/validator"
)

type UpdateRulesRequest struct {
	OfficeLatitude       *float64 `json:"office_latitude"`
	OfficeLongitude      *float64 `json:"office_longitude"`
	LocationRadiusMeters *int     `json:"location_radius_meters"`
	CheckInTime          *string  `json:"check_in_time"`
	CheckOutTime         *string  `json:"check_out_time"`
	LateThresholdMinutes *int     `json:"late_threshold_minutes"`
}

func (r *UpdateRulesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OfficeLatitude != nil && !validator.IsValidLatitude(*r.OfficeLatitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "office_latitude",
			Message: "office_latitude must be between -90 and 90",
		})
	}

	if r.OfficeLongitude != nil && !validator.IsValidLongitude(*r.OfficeLongitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "office_longitude",
			Message: "office_longitude must be between -180 and 180",
		})
	}

	if r.LocationRadiusMeters != nil && *r.LocationRadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "location_radius_meters",
			Message: "location_radius_meters must be a positive integer",
		})
	}

	if r.CheckInTime != nil && !validator.IsValidTimeOfDay(*r.CheckInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time must be in HH:MM or HH:MM:SS format",
		})
	}

	if r.CheckOutTime != nil && !validator.IsValidTimeOfDay(*r.CheckOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time must be in HH:MM or HH:MM:SS format",
		})
	}

	if r.LateThresholdMinutes != nil && *r.LateThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "late_threshold_minutes",
			Message: "late_threshold_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RulesResponse is the effective attendance rule set served to the mobile
// app.
type RulesResponse struct {
	OfficeLocation OfficeLocation `json:"office_location"`
	WorkingHours   WorkingHours   `json:"working_hours"`
	Policies       RulePolicies   `json:"policies"`
}

type OfficeLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    int     `json:"radius"`
}

type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RulePolicies struct {
	LateThresholdMinutes int `json:"late_threshold_minutes"`
}

// ToRulesResponse maps a policy to its mobile-facing shape.
func ToRulesResponse(p Policy) RulesResponse {
	return RulesResponse{
		OfficeLocation: OfficeLocation{
			Latitude:  p.OfficeLatitude,
			Longitude: p.OfficeLongitude,
			Radius:    p.LocationRadiusMeters,
		},
		WorkingHours: WorkingHours{
			Start: p.CheckInTime.String(),
			End:   p.CheckOutTime.String(),
		},
		Policies: RulePolicies{
			LateThresholdMinutes: p.LateThresholdMinutes,
		},
	}
}
