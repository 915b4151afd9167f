package domain

import "time"

// UserStatus represents the approval lifecycle of a user profile.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// UserProfile is the domain model for portal accounts. Login is only
// possible once an admin has moved the profile to approved.
type UserProfile struct {
	ID           string
	Email        string
	FullName     *string
	Status       UserStatus
	PasswordHash string
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
