package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/attendance"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/auth"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/user"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var rangeErr *attendance.OutOfRangeError
	if errors.As(err, &rangeErr) {
		BadRequest(w, rangeErr.Error(), map[string]string{
			"distance":       strconv.Itoa(rangeErr.DistanceMeters),
			"allowed_radius": strconv.Itoa(rangeErr.AllowedRadiusMeters),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrCurrentPasswordIncorrect):
		BadRequest(w, "Current password is incorrect", nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrEmployeeIDExists):
		Conflict(w, "Employee ID already registered")
	case errors.Is(err, user.ErrDeviceNotFound):
		NotFound(w, "Device not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNoOpenSession):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrMultipleOpenSessions):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance record not found")

	// Policy domain errors
	case errors.Is(err, policy.ErrPolicyNotFound):
		NotFound(w, "Attendance rules not configured")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
