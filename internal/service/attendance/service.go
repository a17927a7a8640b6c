package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/attendance"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/user"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/utils"
)

const timestampLayout = "2006-01-02 15:04:05"

type attendanceService struct {
	db            *database.DB
	sessionRepo   attendance.SessionRepository
	deviceRepo    user.DeviceRepository
	policyService policy.PolicyService

	loc *time.Location
	now func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	sessionRepo attendance.SessionRepository,
	deviceRepo user.DeviceRepository,
	policyService policy.PolicyService,
	loc *time.Location,
) attendance.AttendanceService {
	return &attendanceService{
		db:            db,
		sessionRepo:   sessionRepo,
		deviceRepo:    deviceRepo,
		policyService: policyService,
		loc:           loc,
		now:           time.Now,
	}
}

// workDate truncates a local instant to its calendar day.
func (s *attendanceService) workDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// enforceGeofence resolves the active policy once and returns it alongside
// the rounded distance, so callers classify against the same policy they
// geofenced with.
func (s *attendanceService) enforceGeofence(ctx context.Context, lat, lon float64) (policy.Policy, int, error) {
	p, err := s.policyService.GetActivePolicy(ctx)
	if err != nil {
		return policy.Policy{}, 0, err
	}

	distance := int(math.Round(utils.CalculateHaversineDistance(
		lat, lon, p.OfficeLatitude, p.OfficeLongitude)))
	if distance > p.LocationRadiusMeters {
		return policy.Policy{}, 0, &attendance.OutOfRangeError{
			DistanceMeters:      distance,
			AllowedRadiusMeters: p.LocationRadiusMeters,
		}
	}

	return p, distance, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *attendanceService) CheckIn(ctx context.Context, userID string, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	now := s.now().In(s.loc)
	today := s.workDate(now)

	// Duplicate check-ins are rejected before the geofence is evaluated.
	existing, err := s.sessionRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil && existing.IsOpen() {
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	}

	p, distance, err := s.enforceGeofence(ctx, *req.Latitude, *req.Longitude)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	session := attendance.Session{
		UserID:           userID,
		WorkDate:         today,
		CheckIn:          now,
		CheckInLatitude:  *req.Latitude,
		CheckInLongitude: *req.Longitude,
		Status:           attendance.ClassifyCheckIn(now, p),
		DeviceID:         req.DeviceID,
		Notes:            req.Notes,
	}

	created, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.CheckInResponse{}, err
		}
		return attendance.CheckInResponse{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	if req.DeviceID != nil && *req.DeviceID != "" {
		if err := s.deviceRepo.UpsertLastUsed(ctx, userID, *req.DeviceID, "mobile"); err != nil {
			slog.ErrorContext(ctx, "failed to register check-in device",
				slog.String("user_id", userID), slog.Any("error", err))
		}
	}

	return attendance.CheckInResponse{
		ID:             created.ID,
		CheckIn:        created.CheckIn.Format(timestampLayout),
		Status:         string(created.Status),
		DistanceMeters: distance,
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *attendanceService) CheckOut(ctx context.Context, userID string, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	if _, _, err := s.enforceGeofence(ctx, *req.Latitude, *req.Longitude); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	now := s.now().In(s.loc)
	today := s.workDate(now)

	session, err := s.sessionRepo.GetOpenSession(ctx, userID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenSession) || errors.Is(err, attendance.ErrMultipleOpenSessions) {
			return attendance.CheckOutResponse{}, err
		}
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to find open session: %w", err)
	}

	checkOut := now
	session.CheckOut = &checkOut
	session.CheckOutLatitude = req.Latitude
	session.CheckOutLongitude = req.Longitude
	session.Status = attendance.ClassifyOnCheckOut(session.CheckIn, checkOut, session.Status)

	if req.Notes != nil && *req.Notes != "" {
		if session.Notes != nil && *session.Notes != "" {
			combined := *session.Notes + "; " + *req.Notes
			session.Notes = &combined
		} else {
			session.Notes = req.Notes
		}
	}

	if err := s.sessionRepo.Close(ctx, session); err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to close attendance session: %w", err)
	}

	minutes := attendance.WorkedMinutes(session.CheckIn, checkOut)

	return attendance.CheckOutResponse{
		ID:           session.ID,
		CheckIn:      session.CheckIn.Format(timestampLayout),
		CheckOut:     checkOut.Format(timestampLayout),
		TotalHours:   formatDuration(minutes),
		TotalMinutes: minutes,
		Status:       string(session.Status),
	}, nil
}

// TodayStatus implements attendance.AttendanceService.
func (s *attendanceService) TodayStatus(ctx context.Context, userID string) (attendance.TodayStatusResponse, error) {
	now := s.now().In(s.loc)
	today := s.workDate(now)

	session, err := s.sessionRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if session == nil {
		return attendance.TodayStatusResponse{CanCheckIn: true}, nil
	}

	minutes := 0
	var checkOutTime *string
	if session.CheckOut != nil {
		minutes = attendance.WorkedMinutes(session.CheckIn, *session.CheckOut)
		formatted := session.CheckOut.Format(timestampLayout)
		checkOutTime = &formatted
	} else {
		minutes = attendance.WorkedMinutes(session.CheckIn, now)
	}

	return attendance.TodayStatusResponse{
		HasAttendance: true,
		IsCheckedIn:   session.IsOpen(),
		HasCheckedOut: !session.IsOpen(),
		Attendance: &attendance.TodayAttendance{
			ID:            session.ID,
			CheckInTime:   session.CheckIn.Format(timestampLayout),
			CheckOutTime:  checkOutTime,
			Status:        string(session.Status),
			MinutesWorked: minutes,
			Notes:         session.Notes,
		},
		CanCheckIn:  false,
		CanCheckOut: session.IsOpen(),
	}, nil
}

// History implements attendance.AttendanceService.
func (s *attendanceService) History(ctx context.Context, userID string, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	sessions, total, err := s.sessionRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	now := s.now().In(s.loc)
	month, year := now.Month(), now.Year()
	if filter.Month != 0 {
		month, year = time.Month(filter.Month), filter.Year
	}

	summary, err := s.sessionRepo.MonthlySummary(ctx, userID, month, year)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to aggregate monthly summary: %w", err)
	}

	responses := make([]attendance.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, toSessionResponse(session))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return attendance.HistoryResponse{
		Attendance: responses,
		Pagination: attendance.Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   totalPages,
			TotalRecords: total,
			PerPage:      filter.Limit,
		},
		MonthlySummary: summary,
	}, nil
}

// UpdateSession implements attendance.AttendanceService.
func (s *attendanceService) UpdateSession(ctx context.Context, req attendance.UpdateSessionRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	session, err := s.sessionRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	if req.CheckIn != nil {
		checkIn, err := time.ParseInLocation(timestampLayout, *req.CheckIn, s.loc)
		if err != nil {
			return attendance.SessionResponse{}, fmt.Errorf("failed to parse check_in: %w", err)
		}
		session.CheckIn = checkIn
		session.WorkDate = s.workDate(checkIn)
	}

	if req.CheckOut != nil {
		checkOut, err := time.ParseInLocation(timestampLayout, *req.CheckOut, s.loc)
		if err != nil {
			return attendance.SessionResponse{}, fmt.Errorf("failed to parse check_out: %w", err)
		}
		session.CheckOut = &checkOut
	}

	if req.Status != nil {
		session.Status = attendance.Status(*req.Status)
	}

	if req.Notes != nil {
		session.Notes = req.Notes
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return attendance.SessionResponse{}, err
	}

	return toSessionResponse(session), nil
}

// DeleteSession implements attendance.AttendanceService.
func (s *attendanceService) DeleteSession(ctx context.Context, id string) error {
	return s.sessionRepo.Delete(ctx, id)
}

func toSessionResponse(session attendance.Session) attendance.SessionResponse {
	resp := attendance.SessionResponse{
		ID:               session.ID,
		Date:             session.WorkDate.Format("2006-01-02"),
		CheckInTime:      session.CheckIn.Format(timestampLayout),
		Status:           string(session.Status),
		Notes:            session.Notes,
		CheckInLatitude:  session.CheckInLatitude,
		CheckInLongitude: session.CheckInLongitude,
		UserName:         session.UserName,
		CreatedAt:        session.CreatedAt.Format(timestampLayout),
	}

	if session.CheckOut != nil {
		formatted := session.CheckOut.Format(timestampLayout)
		resp.CheckOutTime = &formatted
		minutes := attendance.WorkedMinutes(session.CheckIn, *session.CheckOut)
		resp.TotalMinutes = &minutes
	}

	return resp
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
