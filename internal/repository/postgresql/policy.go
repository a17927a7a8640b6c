package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
)

type policyRepository struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) policy.PolicyRepository {
	return &policyRepository{db: db}
}

// GetActive implements policy.PolicyRepository.
func (r *policyRepository) GetActive(ctx context.Context) (policy.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, office_latitude, office_longitude, location_radius_meters,
		       check_in_time, check_out_time, late_threshold_minutes, updated_at
		FROM attendance_rules
		WHERE is_active = true
		LIMIT 1
	`

	var (
		p                      policy.Policy
		checkInStr, checkOutStr string
	)
	err := q.QueryRow(ctx, query).Scan(
		&p.ID, &p.OfficeLatitude, &p.OfficeLongitude, &p.LocationRadiusMeters,
		&checkInStr, &checkOutStr, &p.LateThresholdMinutes, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.Policy{}, policy.ErrPolicyNotFound
		}
		return policy.Policy{}, fmt.Errorf("failed to get active policy: %w", err)
	}

	if p.CheckInTime, err = policy.ParseTimeOfDay(checkInStr); err != nil {
		return policy.Policy{}, fmt.Errorf("stored check_in_time is invalid: %w", err)
	}
	if p.CheckOutTime, err = policy.ParseTimeOfDay(checkOutStr); err != nil {
		return policy.Policy{}, fmt.Errorf("stored check_out_time is invalid: %w", err)
	}
	p.IsActive = true

	return p, nil
}

// Save implements policy.PolicyRepository. The previously active row is
// deactivated in the same transaction so exactly one row stays active.
func (r *policyRepository) Save(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	p.ID = uuid.NewString()
	p.IsActive = true

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `UPDATE attendance_rules SET is_active = false WHERE is_active = true`); err != nil {
			return fmt.Errorf("failed to deactivate previous policy: %w", err)
		}

		query := `
			INSERT INTO attendance_rules (
				id, office_latitude, office_longitude, location_radius_meters,
				check_in_time, check_out_time, late_threshold_minutes, is_active, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, true, $8
			) RETURNING updated_at
		`

		now := time.Now()
		return q.QueryRow(txCtx, query,
			p.ID, p.OfficeLatitude, p.OfficeLongitude, p.LocationRadiusMeters,
			p.CheckInTime.String(), p.CheckOutTime.String(), p.LateThresholdMinutes, now,
		).Scan(&p.UpdatedAt)
	})

	if err != nil {
		return policy.Policy{}, err
	}

	return p, nil
}
