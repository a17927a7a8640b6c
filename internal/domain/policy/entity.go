package policy

import (
	"fmt"
	"time"
)

// Policy is the single active attendance rule set: the office geofence plus
// the working-hours and lateness thresholds every check-in is validated
// against.
type Policy struct {
	ID                   string
	OfficeLatitude       float64
	OfficeLongitude      float64
	LocationRadiusMeters int
	CheckInTime          TimeOfDay
	CheckOutTime         TimeOfDay
	LateThresholdMinutes int
	IsActive             bool
	UpdatedAt            time.Time
}

// Default returns the built-in policy used when no active rule row is
// configured. Values match the shipped company defaults (Bhopal office).
func Default() Policy {
	return Policy{
		OfficeLatitude:       23.2599,
		OfficeLongitude:      77.4126,
		LocationRadiusMeters: 100,
		CheckInTime:          TimeOfDay{Hour: 9},
		CheckOutTime:         TimeOfDay{Hour: 18},
		LateThresholdMinutes: 15,
		IsActive:             true,
	}
}

// LateCutoff combines the policy work-start time with the calendar day of
// the given local time and adds the grace period. A check-in strictly after
// the returned instant counts as late.
func (p Policy) LateCutoff(dayLocal time.Time) time.Time {
	return p.CheckInTime.On(dayLocal).
		Add(time.Duration(p.LateThresholdMinutes) * time.Minute)
}

// TimeOfDay is a wall-clock time without a date, stored as "HH:MM:SS".
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts "HH:MM:SS" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// On anchors the time of day to the calendar day (and location) of ref.
func (t TimeOfDay) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, t.Second, 0, ref.Location())
}
