package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/attendance"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("IST", 5*3600+30*60)

type fakeSessionRepo struct {
	sessions []*attendance.Session
	nextID   int
}

func (f *fakeSessionRepo) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	for _, existing := range f.sessions {
		if existing.UserID == s.UserID && existing.WorkDate.Equal(s.WorkDate) && existing.IsOpen() {
			return attendance.Session{}, attendance.ErrAlreadyCheckedIn
		}
	}
	f.nextID++
	s.ID = fmt.Sprintf("sess-%d", f.nextID)
	s.CreatedAt = s.CheckIn
	s.UpdatedAt = s.CheckIn
	stored := s
	f.sessions = append(f.sessions, &stored)
	return s, nil
}

func (f *fakeSessionRepo) GetOpenSession(ctx context.Context, userID string, workDate time.Time) (attendance.Session, error) {
	var open []*attendance.Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.WorkDate.Equal(workDate) && s.IsOpen() {
			open = append(open, s)
		}
	}
	switch len(open) {
	case 0:
		return attendance.Session{}, attendance.ErrNoOpenSession
	case 1:
		return *open[0], nil
	default:
		return attendance.Session{}, attendance.ErrMultipleOpenSessions
	}
}

func (f *fakeSessionRepo) Close(ctx context.Context, s attendance.Session) error {
	for _, existing := range f.sessions {
		if existing.ID == s.ID && existing.IsOpen() {
			*existing = s
			return nil
		}
	}
	return attendance.ErrNoOpenSession
}

func (f *fakeSessionRepo) GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*attendance.Session, error) {
	for i := len(f.sessions) - 1; i >= 0; i-- {
		s := f.sessions[i]
		if s.UserID == userID && s.WorkDate.Equal(workDate) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Session, int64, error) {
	var result []attendance.Session
	for i := len(f.sessions) - 1; i >= 0; i-- {
		s := f.sessions[i]
		if s.UserID != userID {
			continue
		}
		if filter.Month != 0 && (int(s.WorkDate.Month()) != filter.Month || s.WorkDate.Year() != filter.Year) {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (f *fakeSessionRepo) MonthlySummary(ctx context.Context, userID string, month time.Month, year int) (attendance.MonthlySummary, error) {
	var summary attendance.MonthlySummary
	var totalMinutes, closed int
	for _, s := range f.sessions {
		if s.UserID != userID || s.WorkDate.Month() != month || s.WorkDate.Year() != year {
			continue
		}
		summary.TotalDays++
		switch s.Status {
		case attendance.StatusPresent:
			summary.PresentDays++
		case attendance.StatusLate:
			summary.LateDays++
		case attendance.StatusHalfDay:
			summary.HalfDays++
		}
		if s.CheckOut != nil {
			totalMinutes += attendance.WorkedMinutes(s.CheckIn, *s.CheckOut)
			closed++
		}
	}
	if closed > 0 {
		avg := float64(totalMinutes) / float64(closed)
		summary.AvgWorkedMinutes = &avg
	}
	return summary, nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			return *s, nil
		}
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
}

func (f *fakeSessionRepo) Update(ctx context.Context, s attendance.Session) error {
	for _, existing := range f.sessions {
		if existing.ID == s.ID {
			*existing = s
			return nil
		}
	}
	return attendance.ErrSessionNotFound
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	for i, s := range f.sessions {
		if s.ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return attendance.ErrSessionNotFound
}

type fakePolicyService struct {
	policy   policy.Policy
	getCalls int
}

func (f *fakePolicyService) GetActivePolicy(ctx context.Context) (policy.Policy, error) {
	f.getCalls++
	return f.policy, nil
}

func (f *fakePolicyService) UpdateRules(ctx context.Context, req policy.UpdateRulesRequest) (policy.Policy, error) {
	return f.policy, nil
}

type fakeDeviceRepo struct {
	upserts []string
}

func (f *fakeDeviceRepo) UpsertLastUsed(ctx context.Context, userID, deviceID, deviceName string) error {
	f.upserts = append(f.upserts, deviceID)
	return nil
}

func (f *fakeDeviceRepo) ListByUser(ctx context.Context, userID string) ([]user.Device, error) {
	return nil, nil
}

func (f *fakeDeviceRepo) Remove(ctx context.Context, userID, deviceID string) error {
	return nil
}

func newTestService(at time.Time) (*attendanceService, *fakeSessionRepo, *fakeDeviceRepo) {
	sessionRepo := &fakeSessionRepo{}
	deviceRepo := &fakeDeviceRepo{}
	svc := &attendanceService{
		sessionRepo:   sessionRepo,
		deviceRepo:    deviceRepo,
		policyService: &fakePolicyService{policy: policy.Default()},
		loc:           testLoc,
		now:           func() time.Time { return at },
	}
	return svc, sessionRepo, deviceRepo
}

func ptr[T any](v T) *T { return &v }

func officeCheckIn() attendance.CheckInRequest {
	return attendance.CheckInRequest{
		Latitude:  ptr(23.2599),
		Longitude: ptr(77.4126),
	}
}

func TestCheckIn_OnTimeIsPresent(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 9, 10, 0, 0, testLoc))

	resp, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, 0, resp.DistanceMeters)
	assert.Equal(t, "2025-03-10 09:10:00", resp.CheckIn)
}

func TestCheckIn_GracePeriodBoundary(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"one second before cutoff", time.Date(2025, 3, 10, 9, 14, 59, 0, testLoc), "present"},
		{"exactly at cutoff", time.Date(2025, 3, 10, 9, 15, 0, 0, testLoc), "present"},
		{"one second after cutoff", time.Date(2025, 3, 10, 9, 15, 1, 0, testLoc), "late"},
		{"well after cutoff", time.Date(2025, 3, 10, 11, 0, 0, 0, testLoc), "late"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(tt.at)
			resp, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Status)
		})
	}
}

func TestCheckIn_OutsideRadius(t *testing.T) {
	svc, repo, _ := newTestService(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))

	// 0.0045 degrees of latitude is roughly 500 meters.
	req := attendance.CheckInRequest{
		Latitude:  ptr(23.2599 + 0.0045),
		Longitude: ptr(77.4126),
	}

	_, err := svc.CheckIn(context.Background(), "user-1", req)
	var rangeErr *attendance.OutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.InDelta(t, 500, rangeErr.DistanceMeters, 5)
	assert.Equal(t, 100, rangeErr.AllowedRadiusMeters)
	assert.Empty(t, repo.sessions)
}

func TestCheckIn_DuplicateRejected(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))

	_, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_DuplicateRejectedBeforeGeofence(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))

	_, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)

	// Second attempt from outside the radius still reports the duplicate,
	// not the geofence.
	req := attendance.CheckInRequest{
		Latitude:  ptr(23.2599 + 0.0045),
		Longitude: ptr(77.4126),
	}
	_, err = svc.CheckIn(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	var rangeErr *attendance.OutOfRangeError
	assert.False(t, errors.As(err, &rangeErr))
}

func TestCheckIn_ResolvesPolicyOnce(t *testing.T) {
	sessionRepo := &fakeSessionRepo{}
	policySvc := &fakePolicyService{policy: policy.Default()}
	svc := &attendanceService{
		sessionRepo:   sessionRepo,
		deviceRepo:    &fakeDeviceRepo{},
		policyService: policySvc,
		loc:           testLoc,
		now:           func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc) },
	}

	// Geofencing and lateness classification must see the same policy, so
	// a cache refresh between them cannot split the decision.
	_, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)
	assert.Equal(t, 1, policySvc.getCalls)
}

func TestCheckIn_OtherUserUnaffected(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))

	_, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), "user-2", officeCheckIn())
	assert.NoError(t, err)
}

func TestCheckIn_MissingCoordinates(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))

	_, err := svc.CheckIn(context.Background(), "user-1", attendance.CheckInRequest{})
	assert.Error(t, err)
}

func TestCheckIn_RegistersDevice(t *testing.T) {
	svc, _, devices := newTestService(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))

	req := officeCheckIn()
	req.DeviceID = ptr("android-abc123")

	_, err := svc.CheckIn(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, []string{"android-abc123"}, devices.upserts)
}

func TestCheckOut_FullDayKeepsStatus(t *testing.T) {
	checkInAt := time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc)
	svc, _, _ := newTestService(checkInAt)

	_, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)

	svc.now = func() time.Time { return checkInAt.Add(8*time.Hour + 30*time.Minute) }
	resp, err := svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptr(23.2599),
		Longitude: ptr(77.4126),
	})
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, 510, resp.TotalMinutes)
	assert.Equal(t, "8h 30m", resp.TotalHours)
}

func TestCheckOut_ShortSessionBecomesHalfDay(t *testing.T) {
	checkInAt := time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc)
	svc, _, _ := newTestService(checkInAt)

	_, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)

	svc.now = func() time.Time { return checkInAt.Add(150 * time.Minute) }
	resp, err := svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptr(23.2599),
		Longitude: ptr(77.4126),
	})
	require.NoError(t, err)
	assert.Equal(t, "half_day", resp.Status)
	assert.Equal(t, 150, resp.TotalMinutes)
	assert.Equal(t, "2h 30m", resp.TotalHours)
}

func TestCheckOut_LateShortSessionBecomesHalfDay(t *testing.T) {
	checkInAt := time.Date(2025, 3, 10, 10, 0, 0, 0, testLoc)
	svc, _, _ := newTestService(checkInAt)

	resp, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)
	require.Equal(t, "late", resp.Status)

	svc.now = func() time.Time { return checkInAt.Add(100 * time.Minute) }
	out, err := svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptr(23.2599),
		Longitude: ptr(77.4126),
	})
	require.NoError(t, err)
	assert.Equal(t, "half_day", out.Status)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 17, 0, 0, 0, testLoc))

	_, err := svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptr(23.2599),
		Longitude: ptr(77.4126),
	})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestCheckOut_AppendsNotes(t *testing.T) {
	checkInAt := time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc)
	svc, repo, _ := newTestService(checkInAt)

	req := officeCheckIn()
	req.Notes = ptr("on site")
	_, err := svc.CheckIn(context.Background(), "user-1", req)
	require.NoError(t, err)

	svc.now = func() time.Time { return checkInAt.Add(9 * time.Hour) }
	_, err = svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptr(23.2599),
		Longitude: ptr(77.4126),
		Notes:     ptr("leaving early tomorrow"),
	})
	require.NoError(t, err)

	require.Len(t, repo.sessions, 1)
	require.NotNil(t, repo.sessions[0].Notes)
	assert.Equal(t, "on site; leaving early tomorrow", *repo.sessions[0].Notes)
}

func TestTodayStatus_NoAttendance(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 8, 0, 0, 0, testLoc))

	resp, err := svc.TodayStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, resp.HasAttendance)
	assert.True(t, resp.CanCheckIn)
	assert.False(t, resp.CanCheckOut)
	assert.Nil(t, resp.Attendance)
}

func TestTodayStatus_OpenSession(t *testing.T) {
	checkInAt := time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc)
	svc, _, _ := newTestService(checkInAt)

	_, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)

	svc.now = func() time.Time { return checkInAt.Add(3 * time.Hour) }
	resp, err := svc.TodayStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, resp.HasAttendance)
	assert.True(t, resp.IsCheckedIn)
	assert.False(t, resp.HasCheckedOut)
	assert.False(t, resp.CanCheckIn)
	assert.True(t, resp.CanCheckOut)
	require.NotNil(t, resp.Attendance)
	assert.Equal(t, 180, resp.Attendance.MinutesWorked)
}

func TestTodayStatus_ClosedSession(t *testing.T) {
	checkInAt := time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc)
	svc, _, _ := newTestService(checkInAt)

	_, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)

	svc.now = func() time.Time { return checkInAt.Add(8 * time.Hour) }
	_, err = svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptr(23.2599),
		Longitude: ptr(77.4126),
	})
	require.NoError(t, err)

	resp, err := svc.TodayStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, resp.HasAttendance)
	assert.False(t, resp.IsCheckedIn)
	assert.True(t, resp.HasCheckedOut)
	assert.False(t, resp.CanCheckIn)
	assert.False(t, resp.CanCheckOut)
	require.NotNil(t, resp.Attendance)
	assert.Equal(t, 480, resp.Attendance.MinutesWorked)
}

func TestHistory_MonthlySummary(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc)
	svc, _, _ := newTestService(day1)

	_, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)
	svc.now = func() time.Time { return day1.Add(8 * time.Hour) }
	_, err = svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude: ptr(23.2599), Longitude: ptr(77.4126),
	})
	require.NoError(t, err)

	day2 := time.Date(2025, 3, 11, 10, 0, 0, 0, testLoc)
	svc.now = func() time.Time { return day2 }
	_, err = svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)
	svc.now = func() time.Time { return day2.Add(2 * time.Hour) }
	_, err = svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude: ptr(23.2599), Longitude: ptr(77.4126),
	})
	require.NoError(t, err)

	resp, err := svc.History(context.Background(), "user-1", attendance.HistoryFilter{Month: 3, Year: 2025})
	require.NoError(t, err)
	assert.Len(t, resp.Attendance, 2)
	assert.Equal(t, 2, resp.MonthlySummary.TotalDays)
	assert.Equal(t, 1, resp.MonthlySummary.PresentDays)
	assert.Equal(t, 1, resp.MonthlySummary.HalfDays)
	require.NotNil(t, resp.MonthlySummary.AvgWorkedMinutes)
	assert.InDelta(t, 300, *resp.MonthlySummary.AvgWorkedMinutes, 0.01)
}

func TestHistory_InvalidMonth(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))

	_, err := svc.History(context.Background(), "user-1", attendance.HistoryFilter{Month: 13, Year: 2025})
	assert.Error(t, err)
}

func TestUpdateSession_AdminFixup(t *testing.T) {
	checkInAt := time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc)
	svc, repo, _ := newTestService(checkInAt)

	created, err := svc.CheckIn(context.Background(), "user-1", officeCheckIn())
	require.NoError(t, err)

	resp, err := svc.UpdateSession(context.Background(), attendance.UpdateSessionRequest{
		ID:     created.ID,
		Status: ptr("absent"),
		Notes:  ptr("marked by admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, "absent", resp.Status)
	assert.Equal(t, attendance.StatusAbsent, repo.sessions[0].Status)
}

func TestUpdateSession_RejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))

	_, err := svc.UpdateSession(context.Background(), attendance.UpdateSessionRequest{
		ID:     "sess-1",
		Status: ptr("vacation"),
	})
	assert.Error(t, err)
}

func TestDeleteSession_NotFound(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))

	err := svc.DeleteSession(context.Background(), "missing")
	assert.True(t, errors.Is(err, attendance.ErrSessionNotFound))
}
