package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/attendance"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
)

const sessionColumns = `
	id, user_id, work_date, check_in, check_in_latitude, check_in_longitude,
	check_out, check_out_latitude, check_out_longitude,
	status, device_id, notes, created_at, updated_at`

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.WorkDate, &s.CheckIn, &s.CheckInLatitude, &s.CheckInLongitude,
		&s.CheckOut, &s.CheckOutLatitude, &s.CheckOutLongitude,
		&s.Status, &s.DeviceID, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements attendance.SessionRepository.
//
// The duplicate-open-session check runs inside the same transaction as the
// insert; the partial unique index on (user_id, work_date) WHERE check_out
// IS NULL backstops the race between two concurrent check-ins.
func (r *sessionRepository) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	s.ID = uuid.NewString()

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		var existingID string
		err := q.QueryRow(txCtx, `
			SELECT id FROM attendance_sessions
			WHERE user_id = $1 AND work_date = $2 AND check_out IS NULL
			LIMIT 1
			FOR UPDATE
		`, s.UserID, s.WorkDate).Scan(&existingID)
		if err == nil {
			return attendance.ErrAlreadyCheckedIn
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to check for open session: %w", err)
		}

		query := `
			INSERT INTO attendance_sessions (
				id, user_id, work_date, check_in, check_in_latitude, check_in_longitude,
				status, device_id, notes
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9
			) RETURNING created_at, updated_at
		`

		err = q.QueryRow(txCtx, query,
			s.ID,
			s.UserID,
			s.WorkDate,
			s.CheckIn,
			s.CheckInLatitude,
			s.CheckInLongitude,
			s.Status,
			s.DeviceID,
			s.Notes,
		).Scan(&s.CreatedAt, &s.UpdatedAt)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return attendance.ErrAlreadyCheckedIn
			}
			return fmt.Errorf("failed to create session: %w", err)
		}

		return nil
	})

	if err != nil {
		return attendance.Session{}, err
	}

	return s, nil
}

// GetOpenSession implements attendance.SessionRepository.
func (r *sessionRepository) GetOpenSession(ctx context.Context, userID string, workDate time.Time) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND work_date = $2
		  AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 2
	`

	rows, err := q.Query(ctx, query, userID, workDate)
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to get open session: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return attendance.Session{}, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	switch len(sessions) {
	case 0:
		return attendance.Session{}, attendance.ErrNoOpenSession
	case 1:
		return sessions[0], nil
	default:
		// The partial unique index should make this unreachable.
		return attendance.Session{}, attendance.ErrMultipleOpenSessions
	}
}

// Close implements attendance.SessionRepository.
func (r *sessionRepository) Close(ctx context.Context, s attendance.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET check_out = $1, check_out_latitude = $2, check_out_longitude = $3,
		    status = $4, notes = $5, updated_at = $6
		WHERE id = $7 AND check_out IS NULL
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		s.CheckOut, s.CheckOutLatitude, s.CheckOutLongitude,
		s.Status, s.Notes, time.Now(), s.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrNoOpenSession
		}
		return fmt.Errorf("failed to close session: %w", err)
	}

	return nil
}

// GetByUserAndDate implements attendance.SessionRepository.
func (r *sessionRepository) GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1 AND work_date = $2
		ORDER BY check_in DESC
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, userID, workDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by user and date: %w", err)
	}

	return &s, nil
}

// ListByUser implements attendance.SessionRepository.
func (r *sessionRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Session, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if filter.Month != 0 && filter.Year != 0 {
		baseWhere += fmt.Sprintf(" AND EXTRACT(MONTH FROM work_date) = $%d AND EXTRACT(YEAR FROM work_date) = $%d", argIdx, argIdx+1)
		args = append(args, filter.Month, filter.Year)
		argIdx += 2
	} else if filter.Year != 0 {
		baseWhere += fmt.Sprintf(" AND EXTRACT(YEAR FROM work_date) = $%d", argIdx)
		args = append(args, filter.Year)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendance_sessions WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 10
	}
	offset := (filter.Page - 1) * limit

	selectQuery := fmt.Sprintf(`
		SELECT `+sessionColumns+`
		FROM attendance_sessions
		WHERE %s
		ORDER BY check_in DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, total, nil
}

// MonthlySummary implements attendance.SessionRepository.
func (r *sessionRepository) MonthlySummary(ctx context.Context, userID string, month time.Month, year int) (attendance.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) AS total_days,
			COUNT(*) FILTER (WHERE status = 'present') AS present_days,
			COUNT(*) FILTER (WHERE status = 'late') AS late_days,
			COUNT(*) FILTER (WHERE status = 'half_day') AS half_days,
			AVG(FLOOR(EXTRACT(EPOCH FROM (check_out - check_in)) / 60))
				FILTER (WHERE check_out IS NOT NULL) AS avg_worked_minutes
		FROM attendance_sessions
		WHERE user_id = $1
		  AND EXTRACT(MONTH FROM work_date) = $2
		  AND EXTRACT(YEAR FROM work_date) = $3
	`

	var summary attendance.MonthlySummary
	err := q.QueryRow(ctx, query, userID, int(month), year).Scan(
		&summary.TotalDays,
		&summary.PresentDays,
		&summary.LateDays,
		&summary.HalfDays,
		&summary.AvgWorkedMinutes,
	)
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to aggregate monthly summary: %w", err)
	}

	return summary, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE id = $1
	`

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get session by ID: %w", err)
	}

	return s, nil
}

// Update implements attendance.SessionRepository.
func (r *sessionRepository) Update(ctx context.Context, s attendance.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET check_in = $1, check_out = $2, status = $3, notes = $4, updated_at = $5
		WHERE id = $6
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		s.CheckIn, s.CheckOut, s.Status, s.Notes, time.Now(), s.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrSessionNotFound
		}
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

// Delete implements attendance.SessionRepository.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM attendance_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrSessionNotFound
	}

	return nil
}
