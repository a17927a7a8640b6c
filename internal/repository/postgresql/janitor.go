package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/attendance"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
)

type janitorRepository struct {
	db *database.DB
}

func NewJanitorRepository(db *database.DB) attendance.JanitorRepository {
	return &janitorRepository{db: db}
}

// ListOpenBefore implements attendance.JanitorRepository.
func (r *janitorRepository) ListOpenBefore(ctx context.Context, workDate time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE work_date < $1 AND check_out IS NULL
		ORDER BY work_date ASC
	`

	rows, err := q.Query(ctx, query, workDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query stale sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// MarkAbsent implements attendance.JanitorRepository.
func (r *janitorRepository) MarkAbsent(ctx context.Context, workDate time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	// Absent rows are zero-length closed sessions anchored to the start of
	// the work date, so the open-session unique index is untouched.
	query := `
		INSERT INTO attendance_sessions (
			id, user_id, work_date, check_in, check_in_latitude, check_in_longitude,
			check_out, status, notes
		)
		SELECT gen_random_uuid(), u.id, $1::date, $1::date::timestamptz, 0, 0,
		       $1::date::timestamptz, 'absent', 'Marked absent automatically'
		FROM users u
		WHERE u.is_active = true
		  AND u.role = 'employee'
		  AND NOT EXISTS (
			SELECT 1 FROM attendance_sessions s
			WHERE s.user_id = u.id AND s.work_date = $1::date
		  )
	`

	commandTag, err := q.Exec(ctx, query, workDate.Format("2006-01-02"))
	if err != nil {
		return 0, fmt.Errorf("failed to mark absentees: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
