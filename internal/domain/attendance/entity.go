package attendance

import (
	"time"
)

// Status of an attendance session.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
)

// ValidStatuses lists every status an admin fix-up may assign.
var ValidStatuses = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusHalfDay),
	string(StatusAbsent),
}

// Session is one attendance record: a check-in, optionally closed by a
// check-out on the same calendar day. A session with CheckOut == nil is
// open; at most one open session may exist per user per work date.
type Session struct {
	ID                string
	UserID            string
	WorkDate          time.Time // calendar day of the check-in, local to the company timezone
	CheckIn           time.Time
	CheckInLatitude   float64
	CheckInLongitude  float64
	CheckOut          *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	Status            Status
	DeviceID          *string
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	UserName *string
}

// IsOpen reports whether the session has not been checked out yet.
func (s Session) IsOpen() bool {
	return s.CheckOut == nil
}
