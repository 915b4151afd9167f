package dto

import (
	"time"

	"github.com/marknotes/notes-service/internal/domain"
)

// AdminLoginRequest payload for admin login.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminView is the admin identity returned by login and /admin/me.
type AdminView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// NewAdminView maps the admin identity.
func NewAdminView(admin *domain.Admin) AdminView {
	return AdminView{ID: admin.ID, Email: admin.Email, FullName: admin.FullName}
}

// AdminCreateUserRequest payload for direct user creation.
type AdminCreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// AdminChangePasswordRequest payload for resetting a user's credential.
type AdminChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// UserProfileResponse is the roster view exposed to admins.
type UserProfileResponse struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	FullName  *string           `json:"full_name"`
	Status    domain.UserStatus `json:"status"`
	Version   int64             `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewUserProfileResponse maps a profile to the roster view.
func NewUserProfileResponse(user *domain.UserProfile) UserProfileResponse {
	return UserProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Status:    user.Status,
		Version:   user.Version,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserProfileListResponse maps the roster.
func NewUserProfileListResponse(users []domain.UserProfile) []UserProfileResponse {
	out := make([]UserProfileResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserProfileResponse(&users[i]))
	}
	return out
}
