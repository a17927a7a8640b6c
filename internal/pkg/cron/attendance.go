package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/attendance"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
)

// AttendanceJobs are the nightly maintenance jobs: closing sessions left
// open past their work date and recording absences for the previous day.
type AttendanceJobs struct {
	sessionRepo   attendance.SessionRepository
	janitorRepo   attendance.JanitorRepository
	policyService policy.PolicyService

	loc *time.Location
	now func() time.Time
}

func NewAttendanceJobs(
	sessionRepo attendance.SessionRepository,
	janitorRepo attendance.JanitorRepository,
	policyService policy.PolicyService,
	loc *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		sessionRepo:   sessionRepo,
		janitorRepo:   janitorRepo,
		policyService: policyService,
		loc:           loc,
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_sessions", time.Hour, j.AutoCloseStaleSessions)
	scheduler.AddJob("mark_absent_employees", time.Hour, j.MarkAbsentEmployees)
}

func (j *AttendanceJobs) today() time.Time {
	now := j.now().In(j.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.loc)
}

// AutoCloseStaleSessions closes sessions whose work date has passed
// without a check-out. The session is closed at the scheduled end of its
// work day and reclassified, which turns a forgotten check-out into a
// half day at worst.
func (j *AttendanceJobs) AutoCloseStaleSessions(ctx context.Context) error {
	// Runs hourly but only acts in the first hour of the local day.
	if j.now().In(j.loc).Hour() != 0 {
		return nil
	}

	stale, err := j.janitorRepo.ListOpenBefore(ctx, j.today())
	if err != nil {
		return fmt.Errorf("failed to list stale sessions: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	p, err := j.policyService.GetActivePolicy(ctx)
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}

	closed := 0
	for _, session := range stale {
		checkOut := p.CheckOutTime.On(session.WorkDate.In(j.loc))
		if checkOut.Before(session.CheckIn) {
			checkOut = session.CheckIn
		}

		session.CheckOut = &checkOut
		session.Status = attendance.ClassifyOnCheckOut(session.CheckIn, checkOut, session.Status)

		note := "Auto-closed: no check-out recorded"
		if session.Notes != nil && *session.Notes != "" {
			note = *session.Notes + "; " + note
		}
		session.Notes = &note

		if err := j.sessionRepo.Close(ctx, session); err != nil {
			slog.Error("Cron: failed to auto-close session",
				"session_id", session.ID, "user_id", session.UserID, "error", err)
			continue
		}
		closed++
	}

	slog.Info("Cron: auto-closed stale sessions", "count", closed)
	return nil
}

// MarkAbsentEmployees records an absent session for every active employee
// who never checked in yesterday.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	if j.now().In(j.loc).Hour() != 0 {
		return nil
	}

	yesterday := j.today().AddDate(0, 0, -1)

	count, err := j.janitorRepo.MarkAbsent(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees: %w", err)
	}

	if count > 0 {
		slog.Info("Cron: marked absent employees", "count", count, "work_date", yesterday.Format("2006-01-02"))
	}
	return nil
}
