package user

import (
	"context"
	"fmt"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/user"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	db         *database.DB
	userRepo   user.UserRepository
	deviceRepo user.DeviceRepository
}

func NewUserService(db *database.DB, userRepo user.UserRepository, deviceRepo user.DeviceRepository) user.UserService {
	return &userService{
		db:         db,
		userRepo:   userRepo,
		deviceRepo: deviceRepo,
	}
}

// ListUsers implements user.UserService.
func (s *userService) ListUsers(ctx context.Context, filter user.ListFilter) (user.ListUsersResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return user.ListUsersResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return user.ListUsersResponse{
		Users:        responses,
		TotalRecords: total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   totalPages,
	}, nil
}

// GetUser implements user.UserService.
func (s *userService) GetUser(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// UpdateUser implements user.UserService.
func (s *userService) UpdateUser(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		u.Role = user.Role(*req.Role)
	}
	if req.EmployeeID != nil {
		u.EmployeeID = req.EmployeeID
	}
	if req.Department != nil {
		u.Department = req.Department
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(u), nil
}

// ResetPassword implements user.UserService.
func (s *userService) ResetPassword(ctx context.Context, req user.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, req.UserID, string(hash))
}

// DeactivateUser implements user.UserService.
func (s *userService) DeactivateUser(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}

// ListDevices implements user.UserService.
func (s *userService) ListDevices(ctx context.Context, userID string) ([]user.DeviceResponse, error) {
	devices, err := s.deviceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	responses := make([]user.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		responses = append(responses, user.DeviceResponse{
			ID:         d.ID,
			DeviceID:   d.DeviceID,
			DeviceName: d.DeviceName,
			IsActive:   d.IsActive,
			LastUsed:   d.LastUsed.Format("2006-01-02 15:04:05"),
		})
	}

	return responses, nil
}

// RegisterDevice implements user.UserService.
func (s *userService) RegisterDevice(ctx context.Context, userID string, req user.RegisterDeviceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	name := req.DeviceName
	if name == "" {
		name = "mobile"
	}

	if err := s.deviceRepo.UpsertLastUsed(ctx, userID, req.DeviceID, name); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}

	return nil
}

// RemoveDevice implements user.UserService.
func (s *userService) RemoveDevice(ctx context.Context, userID, deviceID string) error {
	return s.deviceRepo.Remove(ctx, userID, deviceID)
}
