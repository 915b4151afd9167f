package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/domain"
	"github.com/marknotes/notes-service/internal/events"
	"github.com/marknotes/notes-service/internal/repository"
	"github.com/marknotes/notes-service/pkg/util"
)

// Self-destructing notes default to expiring one day after creation.
const selfDestructDefaultTTL = 24 * time.Hour

// NoteService coordinates note workflows. Every operation is scoped to the
// calling owner; notes of other users behave as if they do not exist.
// Expired self-destructing notes are filtered at read time (the
// authoritative policy); a background sweeper reclaims their storage.
type NoteService struct {
	notes      repository.NoteRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewNoteService constructs the service.
func NewNoteService(notes repository.NoteRepository, dispatcher events.Dispatcher, bcryptCost int) *NoteService {
	return &NoteService{notes: notes, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// List returns the owner's live notes, newest first.
func (s *NoteService) List(ctx context.Context, ownerID string) ([]domain.Note, error) {
	all, err := s.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	now := time.Now().UTC()
	live := make([]domain.Note, 0, len(all))
	for _, note := range all {
		if note.Expired(now) {
			continue
		}
		live = append(live, note)
	}
	return live, nil
}

// Get returns one of the owner's notes.
func (s *NoteService) Get(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	return s.loadOwned(ctx, ownerID, noteID)
}

// Create builds a note of the given variant with empty content. A
// self-destructing note expires exactly 24 hours after creation; a protected
// note starts with empty encrypted content and no password set.
func (s *NoteService) Create(ctx context.Context, ownerID, title string, noteType domain.NoteType) (*domain.Note, error) {
	if noteType == "" {
		noteType = domain.NoteTypeNormal
	}
	if !domain.ValidNoteType(noteType) {
		return nil, util.NewValidationError("unknown note type", map[string]any{"note_type": noteType})
	}

	now := time.Now().UTC()
	note := &domain.Note{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Content:   "",
		Type:      noteType,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch noteType {
	case domain.NoteTypeSelfDestructing:
		expiry := now.Add(selfDestructDefaultTTL)
		note.SelfDestructAt = &expiry
	case domain.NoteTypeProtected:
		empty := ""
		note.EncryptedContent = &empty
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, util.NewInternalError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventNoteCreated,
		SubjectID: note.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeUser, UserID: &note.OwnerID},
		Timestamp: now,
		Payload:   events.NoteCreatedPayload{NoteType: note.Type, Title: note.Title},
	})

	return note, nil
}

// NoteUpdateInput carries optional note mutations. Version, when provided,
// enables optimistic concurrency: a stale value is rejected with Conflict.
type NoteUpdateInput struct {
	Title            *string
	Content          *string
	EncryptedContent *string
	Version          *int64
}

// Update merges the provided fields into the note and refreshes the
// last-modified timestamp.
func (s *NoteService) Update(ctx context.Context, ownerID, noteID string, input NoteUpdateInput) (*domain.Note, error) {
	note, err := s.loadOwned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	if input.Version != nil && *input.Version != note.Version {
		return nil, noteConflict(note.Version)
	}

	if input.Title != nil {
		note.Title = *input.Title
	}
	if input.Content != nil {
		note.Content = *input.Content
	}
	if input.EncryptedContent != nil {
		note.EncryptedContent = input.EncryptedContent
	}
	note.UpdatedAt = time.Now().UTC()

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, translateNoteWriteErr(err, note.Version)
	}
	return note, nil
}

// Delete removes the note if present. Absence, foreign ownership and prior
// expiry all count as already deleted.
func (s *NoteService) Delete(ctx context.Context, ownerID, noteID string) error {
	note, err := s.loadOwned(ctx, ownerID, noteID)
	if err != nil {
		if util.CodeOf(err) == util.CodeNotFound {
			return nil
		}
		return err
	}

	if err := s.notes.Delete(ctx, note.ID); err != nil {
		return util.NewInternalError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventNoteDeleted,
		SubjectID: note.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeUser, UserID: &ownerID},
		Timestamp: time.Now().UTC(),
		Payload:   events.NoteDeletedPayload{OwnerID: ownerID},
	})
	return nil
}

// SetProtectedPassword hashes and stores the unlock credential of a
// protected note.
func (s *NoteService) SetProtectedPassword(ctx context.Context, ownerID, noteID, password string) (*domain.Note, error) {
	note, err := s.loadOwned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	if note.Type != domain.NoteTypeProtected {
		return nil, util.NewValidationError("note is not protected", map[string]any{"note_type": note.Type})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	note.PasswordHash = &hash
	note.UpdatedAt = time.Now().UTC()

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, translateNoteWriteErr(err, note.Version)
	}
	return note, nil
}

// UpdateSelfDestruct overwrites the expiry of a self-destructing note.
func (s *NoteService) UpdateSelfDestruct(ctx context.Context, ownerID, noteID string, expiry time.Time) (*domain.Note, error) {
	note, err := s.loadOwned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	if note.Type != domain.NoteTypeSelfDestructing {
		return nil, util.NewValidationError("note is not self-destructing", map[string]any{"note_type": note.Type})
	}

	expiryUTC := expiry.UTC()
	note.SelfDestructAt = &expiryUTC
	note.UpdatedAt = time.Now().UTC()

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, translateNoteWriteErr(err, note.Version)
	}
	return note, nil
}

// SweepExpired hard-deletes expired self-destructing notes.
func (s *NoteService) SweepExpired(ctx context.Context) (int64, error) {
	return s.notes.DeleteExpired(ctx, time.Now().UTC())
}

// loadOwned fetches a note and verifies ownership and liveness. Foreign and
// expired notes report NotFound so existence is not leaked.
func (s *NoteService) loadOwned(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NewNotFound("note", nil)
		}
		return nil, util.NewInternalError(err)
	}
	if note.OwnerID != ownerID || note.Expired(time.Now().UTC()) {
		return nil, util.NewNotFound("note", nil)
	}
	return note, nil
}

func translateNoteWriteErr(err error, currentVersion int64) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return util.NewNotFound("note", nil)
	case errors.Is(err, repository.ErrVersionConflict):
		return noteConflict(currentVersion)
	default:
		return util.NewInternalError(err)
	}
}

func noteConflict(currentVersion int64) error {
	return util.NewConflict("note was modified concurrently",
		map[string]any{"current_version": currentVersion})
}
