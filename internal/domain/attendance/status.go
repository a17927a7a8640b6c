package attendance

import (
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
)

// HalfDayThresholdMinutes is the minimum worked time for a session to keep
// its punctuality status; anything shorter is reported as a half day.
const HalfDayThresholdMinutes = 240

// ClassifyCheckIn decides present vs late for a check-in. checkInAt must be
// in the company timezone so the cutoff anchors to the right calendar day.
// A check-in exactly at the cutoff is not late.
func ClassifyCheckIn(checkInAt time.Time, p policy.Policy) Status {
	if checkInAt.After(p.LateCutoff(checkInAt)) {
		return StatusLate
	}
	return StatusPresent
}

// ClassifyOnCheckOut applies the half-day override when a completed session
// worked less than four hours. Short duration wins over punctuality: a late
// session that is also short is reported as half_day. At or above the
// threshold the prior status is kept.
func ClassifyOnCheckOut(checkInAt, checkOutAt time.Time, current Status) Status {
	if WorkedMinutes(checkInAt, checkOutAt) < HalfDayThresholdMinutes {
		return StatusHalfDay
	}
	return current
}

// WorkedMinutes returns the floored whole minutes between check-in and
// check-out.
func WorkedMinutes(checkInAt, checkOutAt time.Time) int {
	return int(checkOutAt.Sub(checkInAt).Minutes())
}
