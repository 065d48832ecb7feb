package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleUnset       UserRole = ""
	RoleCustomer    UserRole = "customer"
	RoleAdmin       UserRole = "admin"
	RoleDeliveryMan UserRole = "deliveryman"
)

// UserStatus tracks the deliveryman application flow:
// a user requests the status, an admin approves it by granting the role.
type UserStatus string

const (
	UserStatusNone      UserStatus = ""
	UserStatusRequested UserStatus = "Requested"
	UserStatusApproved  UserStatus = "Approved"
)

type User struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Name           string     `json:"name"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string     `json:"-"`
	Role           UserRole   `json:"role" gorm:"not null;default:'customer'"`
	Status         UserStatus `json:"status"`
	Phone          string     `json:"phone"`
	DeliveredCount int        `json:"delivered_count" gorm:"not null;default:0"` // meaningful only when Role = deliveryman
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
