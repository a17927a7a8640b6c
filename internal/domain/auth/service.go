package auth

import (
	"context"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/user"
)

// AuthService defines authentication business logic.
type AuthService interface {
	// Login authenticates by email and password and issues an access
	// token.
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// Register creates a new user account (admin only).
	Register(ctx context.Context, req RegisterRequest) (user.UserResponse, error)

	// Me returns the authenticated user's profile.
	Me(ctx context.Context, userID string) (user.UserResponse, error)

	// ChangePassword verifies the current password and stores a new hash.
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error

	// RefreshToken issues a fresh access token for the authenticated user.
	RefreshToken(ctx context.Context, userID string) (TokenResponse, error)

	// Logout revokes the presented access token.
	Logout(ctx context.Context, token string) error
}
