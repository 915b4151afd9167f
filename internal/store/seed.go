package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/config"
	"github.com/marknotes/notes-service/internal/domain"
	"github.com/marknotes/notes-service/internal/repository"
)

// SeedDemoData inserts the demo account and its two starter notes. It is
// backend-agnostic and skips anything that already exists, so running it on
// every start is safe for both the memory and postgres backends.
func SeedDemoData(ctx context.Context, users repository.UserRepository, notes repository.NoteRepository,
	cfg config.SeedConfig, bcryptCost int, logger *zap.Logger) error {

	if _, err := users.GetByEmail(ctx, cfg.UserEmail); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.UserPassword, bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	fullName := cfg.UserFullName
	user := &domain.UserProfile{
		ID:           uuid.NewString(),
		Email:        cfg.UserEmail,
		FullName:     &fullName,
		Status:       domain.UserStatusApproved,
		PasswordHash: hash,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}

	welcome := &domain.Note{
		ID:        uuid.NewString(),
		OwnerID:   user.ID,
		Title:     "Welcome to MarkNotes",
		Content:   "# Welcome!\n\nStart typing your markdown notes here.",
		Type:      domain.NoteTypeNormal,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := notes.Create(ctx, welcome); err != nil {
		return err
	}

	// Placeholder ciphertext only; real encrypted content is written by
	// clients once they set a note password.
	encrypted := "mock-encrypted-data"
	protectedHash, err := auth.HashPassword(cfg.UserPassword, bcryptCost)
	if err != nil {
		return err
	}
	protected := &domain.Note{
		ID:               uuid.NewString(),
		OwnerID:          user.ID,
		Title:            "My Protected Note",
		Content:          "",
		Type:             domain.NoteTypeProtected,
		EncryptedContent: &encrypted,
		PasswordHash:     &protectedHash,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := notes.Create(ctx, protected); err != nil {
		return err
	}

	logger.Info("seeded demo data",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
	)
	return nil
}
