package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	Role         Role
	EmployeeID   *string
	Department   *string
	Phone        *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Device is a mobile device a user has checked in from. last_used is
// refreshed on every check-in carrying the device ID.
type Device struct {
	ID         string
	UserID     string
	DeviceID   string
	DeviceName string
	IsActive   bool
	LastUsed   time.Time
}
