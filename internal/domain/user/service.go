package user

import "context"

// UserService defines employee administration operations.
type UserService interface {
	// ListUsers retrieves users with filters and pagination.
	ListUsers(ctx context.Context, filter ListFilter) (ListUsersResponse, error)

	// GetUser retrieves one user's profile.
	GetUser(ctx context.Context, id string) (UserResponse, error)

	// UpdateUser applies profile changes.
	UpdateUser(ctx context.Context, req UpdateUserRequest) (UserResponse, error)

	// ResetPassword sets a new password for a user (admin only).
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error

	// DeactivateUser soft-deletes a user.
	DeactivateUser(ctx context.Context, id string) error

	// ListDevices returns a user's registered check-in devices.
	ListDevices(ctx context.Context, userID string) ([]DeviceResponse, error)

	// RegisterDevice registers a device ahead of its first check-in, or
	// refreshes it if already known.
	RegisterDevice(ctx context.Context, userID string, req RegisterDeviceRequest) error

	// RemoveDevice deletes a device registration.
	RemoveDevice(ctx context.Context, userID, deviceID string) error
}
