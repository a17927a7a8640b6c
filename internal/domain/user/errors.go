package user

import "errors"

// User domain errors
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailExists            = errors.New("user with this email already exists")
	ErrEmployeeIDExists       = errors.New("user with this employee ID already exists")
	ErrDeviceNotFound         = errors.New("device not found")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
