package attendance

import (
	"testing"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
	"github.com/stretchr/testify/assert"
)

func testPolicy() policy.Policy {
	return policy.Policy{
		OfficeLatitude:       23.2599,
		OfficeLongitude:      77.4126,
		LocationRadiusMeters: 100,
		CheckInTime:          policy.TimeOfDay{Hour: 9},
		CheckOutTime:         policy.TimeOfDay{Hour: 18},
		LateThresholdMinutes: 15,
	}
}

func TestClassifyCheckIn(t *testing.T) {
	p := testPolicy()

	cases := []struct {
		name      string
		checkInAt time.Time
		want      Status
	}{
		{"well before work start", time.Date(2024, 3, 11, 8, 30, 0, 0, time.UTC), StatusPresent},
		{"just inside grace period", time.Date(2024, 3, 11, 9, 14, 59, 0, time.UTC), StatusPresent},
		{"exactly at cutoff is not late", time.Date(2024, 3, 11, 9, 15, 0, 0, time.UTC), StatusPresent},
		{"one second past cutoff", time.Date(2024, 3, 11, 9, 15, 1, 0, time.UTC), StatusLate},
		{"late afternoon", time.Date(2024, 3, 11, 14, 0, 0, 0, time.UTC), StatusLate},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ClassifyCheckIn(c.checkInAt, p))
		})
	}
}

func TestClassifyCheckIn_ZeroGracePeriod(t *testing.T) {
	p := testPolicy()
	p.LateThresholdMinutes = 0

	onTime := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusPresent, ClassifyCheckIn(onTime, p))
	assert.Equal(t, StatusLate, ClassifyCheckIn(onTime.Add(time.Second), p))
}

func TestClassifyOnCheckOut_HalfDayOverride(t *testing.T) {
	checkIn := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	// 150 minutes worked: half day regardless of prior status
	checkOut := checkIn.Add(150 * time.Minute)
	assert.Equal(t, StatusHalfDay, ClassifyOnCheckOut(checkIn, checkOut, StatusPresent))
	assert.Equal(t, StatusHalfDay, ClassifyOnCheckOut(checkIn, checkOut, StatusLate))
}

func TestClassifyOnCheckOut_KeepsStatusAtThreshold(t *testing.T) {
	checkIn := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	// Exactly 240 minutes keeps the prior status
	atThreshold := checkIn.Add(240 * time.Minute)
	assert.Equal(t, StatusPresent, ClassifyOnCheckOut(checkIn, atThreshold, StatusPresent))
	assert.Equal(t, StatusLate, ClassifyOnCheckOut(checkIn, atThreshold, StatusLate))

	// One second under the threshold still floors to 239 minutes
	justUnder := checkIn.Add(240*time.Minute - time.Second)
	assert.Equal(t, StatusHalfDay, ClassifyOnCheckOut(checkIn, justUnder, StatusPresent))

	fullDay := checkIn.Add(8 * time.Hour)
	assert.Equal(t, StatusLate, ClassifyOnCheckOut(checkIn, fullDay, StatusLate))
}

func TestWorkedMinutes_Floors(t *testing.T) {
	checkIn := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 150, WorkedMinutes(checkIn, checkIn.Add(150*time.Minute+59*time.Second)))
	assert.Equal(t, 0, WorkedMinutes(checkIn, checkIn.Add(59*time.Second)))
}
