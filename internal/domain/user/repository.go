package user

import "context"

// UserRepository defines data access for users.
type UserRepository interface {
	// Create inserts a new user. Returns ErrEmailExists or
	// ErrEmployeeIDExists on uniqueness conflicts.
	Create(ctx context.Context, u User) (User, error)

	// GetByID retrieves a user by ID. Returns ErrUserNotFound.
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves an active user by email for login.
	GetByEmail(ctx context.Context, email string) (User, error)

	// List retrieves users with filters and pagination.
	List(ctx context.Context, filter ListFilter) ([]User, int64, error)

	// Update applies profile changes to an existing user.
	Update(ctx context.Context, u User) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// Delete deactivates a user (soft delete).
	Delete(ctx context.Context, id string) error
}

// DeviceRepository defines data access for user devices.
type DeviceRepository interface {
	// UpsertLastUsed registers the device on first use and refreshes
	// last_used on subsequent check-ins.
	UpsertLastUsed(ctx context.Context, userID, deviceID, deviceName string) error

	// ListByUser returns a user's registered devices, most recently used
	// first.
	ListByUser(ctx context.Context, userID string) ([]Device, error)

	// Remove deletes a device registration. Returns ErrDeviceNotFound.
	Remove(ctx context.Context, userID, deviceID string) error
}
