package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn     = errors.New("you have already checked in today")
	ErrNoOpenSession        = errors.New("no active check-in found for today")
	ErrMultipleOpenSessions = errors.New("multiple open sessions found for the same day")

	// General errors
	ErrSessionNotFound = errors.New("attendance record not found")
)

// OutOfRangeError is returned when a check-in or check-out happens outside
// the office geofence. It carries the measured distance and the allowed
// radius so the client can show both.
type OutOfRangeError struct {
	DistanceMeters      int
	AllowedRadiusMeters int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("you are %dm away from office, allowed radius is %dm",
		e.DistanceMeters, e.AllowedRadiusMeters)
}
