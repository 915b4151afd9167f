package domain

import "time"

// SubjectType differentiates end-user tokens from admin tokens. The two
// identities are independent; an admin token never grants user-scoped access.
type SubjectType string

const (
	SubjectTypeUser  SubjectType = "USER"
	SubjectTypeAdmin SubjectType = "ADMIN"
)

// Admin is the configured administrator identity. There is a single admin
// account whose credentials come from configuration, not the roster.
type Admin struct {
	ID       string
	Email    string
	FullName string
}

// PasswordReset is a one-shot, hashed credential-reset token.
type PasswordReset struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
