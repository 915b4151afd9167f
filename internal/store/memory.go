// Package store provides the in-process storage backend: a single
// mutex-guarded owner of the user roster, the notes collection and
// outstanding password resets. It implements the repository interfaces so
// services never touch it directly, and every check-then-mutate operation
// runs inside one critical section.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/marknotes/notes-service/internal/domain"
	"github.com/marknotes/notes-service/internal/repository"
)

// Store holds all mutable state for the memory backend. One instance per
// process (or per test); nothing in this package is a package-level global.
type Store struct {
	mu     sync.RWMutex
	users  []*domain.UserProfile
	notes  []*domain.Note
	resets []*domain.PasswordReset
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Users returns the roster repository view of the store.
func (s *Store) Users() repository.UserRepository {
	return &memoryUserRepo{s: s}
}

// Notes returns the notes repository view of the store.
func (s *Store) Notes() repository.NoteRepository {
	return &memoryNoteRepo{s: s}
}

// PasswordResets returns the reset-token repository view of the store.
func (s *Store) PasswordResets() repository.PasswordResetRepository {
	return &memoryResetRepo{s: s}
}

type memoryUserRepo struct {
	s *Store
}

func (r *memoryUserRepo) Create(ctx context.Context, user *domain.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	clone := *user
	// Newest entries go first so fresh signups are visible at the top.
	r.s.users = append([]*domain.UserProfile{&clone}, r.s.users...)
	return nil
}

func (r *memoryUserRepo) Update(ctx context.Context, user *domain.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, existing := range r.s.users {
		if existing.ID != user.ID {
			continue
		}
		if existing.Version != user.Version {
			return repository.ErrVersionConflict
		}
		clone := *user
		clone.Version++
		r.s.users[i] = &clone
		user.Version = clone.Version
		return nil
	}
	return repository.ErrNotFound
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) List(ctx context.Context) ([]domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]domain.UserProfile, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *memoryUserRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, user := range r.s.users {
		if user.ID == id {
			r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
			break
		}
	}
	return nil
}

type memoryNoteRepo struct {
	s *Store
}

func (r *memoryNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	clone := *note
	r.s.notes = append([]*domain.Note{&clone}, r.s.notes...)
	return nil
}

func (r *memoryNoteRepo) Update(ctx context.Context, note *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, existing := range r.s.notes {
		if existing.ID != note.ID {
			continue
		}
		if existing.Version != note.Version {
			return repository.ErrVersionConflict
		}
		clone := *note
		clone.Version++
		r.s.notes[i] = &clone
		note.Version = clone.Version
		return nil
	}
	return repository.ErrNotFound
}

func (r *memoryNoteRepo) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, note := range r.s.notes {
		if note.ID == id {
			clone := *note
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryNoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var notes []domain.Note
	for _, note := range r.s.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, *note)
		}
	}
	return notes, nil
}

func (r *memoryNoteRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, note := range r.s.notes {
		if note.ID == id {
			r.s.notes = append(r.s.notes[:i], r.s.notes[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryNoteRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	kept := r.s.notes[:0]
	for _, note := range r.s.notes {
		if note.OwnerID != ownerID {
			kept = append(kept, note)
		}
	}
	r.s.notes = kept
	return nil
}

func (r *memoryNoteRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var removed int64
	kept := r.s.notes[:0]
	for _, note := range r.s.notes {
		if note.Expired(now) {
			removed++
			continue
		}
		kept = append(kept, note)
	}
	r.s.notes = kept
	return removed, nil
}

type memoryResetRepo struct {
	s *Store
}

func (r *memoryResetRepo) Create(ctx context.Context, reset *domain.PasswordReset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	clone := *reset
	r.s.resets = append(r.s.resets, &clone)
	return nil
}

func (r *memoryResetRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, reset := range r.s.resets {
		if reset.TokenHash == tokenHash {
			clone := *reset
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryResetRepo) MarkUsed(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, reset := range r.s.resets {
		if reset.ID == id {
			now := time.Now().UTC()
			reset.UsedAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}
