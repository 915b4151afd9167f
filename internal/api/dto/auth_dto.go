package dto

import (
	"time"

	"github.com/marknotes/notes-service/internal/domain"
)

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserView is the reduced profile view returned to the user themselves.
type UserView struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// NewUserView maps a profile to its reduced view.
func NewUserView(user *domain.UserProfile) UserView {
	return UserView{ID: user.ID, Email: user.Email, FullName: user.FullName}
}

// ProfileUpdateRequest payload for profile edits.
type ProfileUpdateRequest struct {
	FullName *string `json:"full_name"`
}

// ChangePasswordRequest payload for self-service credential rotation.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
