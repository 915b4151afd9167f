package repository

import (
	"context"
	"errors"
	"time"

	"github.com/marknotes/notes-service/internal/domain"
)

// Sentinel errors shared by every backend. Services translate these to the
// facade error taxonomy.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrVersionConflict = errors.New("version conflict")
)

// UserRepository defines persistence access for user profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.UserProfile) error
	// Update matches on (id, version) and bumps the version; a stale
	// version yields ErrVersionConflict.
	Update(ctx context.Context, user *domain.UserProfile) error
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	// List returns the full roster, newest first.
	List(ctx context.Context) ([]domain.UserProfile, error)
	// Delete is idempotent; deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}

// NoteRepository defines persistence access for notes.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	Update(ctx context.Context, note *domain.Note) error
	GetByID(ctx context.Context, id string) (*domain.Note, error)
	// ListByOwner returns the owner's notes, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
	// DeleteExpired removes self-destructing notes whose expiry has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PasswordResetRepository stores one-shot reset tokens (hashed).
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)
	MarkUsed(ctx context.Context, id string) error
}
