package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smart-attendance/attendance-backend-go/internal/domain/user"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
)

type deviceRepository struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) user.DeviceRepository {
	return &deviceRepository{db: db}
}

// UpsertLastUsed implements user.DeviceRepository.
func (r *deviceRepository) UpsertLastUsed(ctx context.Context, userID, deviceID, deviceName string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO user_devices (id, user_id, device_id, device_name, is_active, last_used)
		VALUES ($1, $2, $3, $4, true, NOW())
		ON CONFLICT (user_id, device_id)
		DO UPDATE SET device_name = EXCLUDED.device_name, is_active = true, last_used = NOW()
	`

	_, err := q.Exec(ctx, query, uuid.NewString(), userID, deviceID, deviceName)
	if err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}

	return nil
}

// ListByUser implements user.DeviceRepository.
func (r *deviceRepository) ListByUser(ctx context.Context, userID string) ([]user.Device, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, device_id, device_name, is_active, last_used
		FROM user_devices
		WHERE user_id = $1
		ORDER BY last_used DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []user.Device
	for rows.Next() {
		var d user.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.DeviceID, &d.DeviceName, &d.IsActive, &d.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}

	return devices, nil
}

// Remove implements user.DeviceRepository.
func (r *deviceRepository) Remove(ctx context.Context, userID, deviceID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx,
		`DELETE FROM user_devices WHERE user_id = $1 AND device_id = $2`, userID, deviceID)
	if err != nil {
		return fmt.Errorf("failed to remove device: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return user.ErrDeviceNotFound
	}

	return nil
}
