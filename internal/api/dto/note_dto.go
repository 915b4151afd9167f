package dto

import (
	"time"

	"github.com/marknotes/notes-service/internal/domain"
)

// CreateNoteRequest payload for new notes.
type CreateNoteRequest struct {
	Title    string          `json:"title"`
	NoteType domain.NoteType `json:"note_type"`
}

// UpdateNoteRequest carries partial note updates. Version, when present,
// must match the stored note or the update is rejected with CONFLICT.
type UpdateNoteRequest struct {
	Title            *string `json:"title"`
	Content          *string `json:"content"`
	EncryptedContent *string `json:"encrypted_content"`
	Version          *int64  `json:"version"`
}

// ProtectNoteRequest payload for setting a protected note's password.
type ProtectNoteRequest struct {
	Password string `json:"password"`
}

// SelfDestructRequest payload for overwriting the expiry.
type SelfDestructRequest struct {
	SelfDestructAt time.Time `json:"self_destruct_at"`
}

// NoteResponse is the wire form of a note. The unlock password hash is
// never serialized.
type NoteResponse struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Content          string          `json:"content"`
	NoteType         domain.NoteType `json:"note_type"`
	EncryptedContent *string         `json:"encrypted_content,omitempty"`
	HasPassword      bool            `json:"has_password"`
	SelfDestructAt   *time.Time      `json:"self_destruct_at,omitempty"`
	Version          int64           `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewNoteResponse maps a domain note to its wire form.
func NewNoteResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:               note.ID,
		Title:            note.Title,
		Content:          note.Content,
		NoteType:         note.Type,
		EncryptedContent: note.EncryptedContent,
		HasPassword:      note.PasswordHash != nil,
		SelfDestructAt:   note.SelfDestructAt,
		Version:          note.Version,
		CreatedAt:        note.CreatedAt,
		UpdatedAt:        note.UpdatedAt,
	}
}

// NewNoteListResponse maps a slice of notes.
func NewNoteListResponse(notes []domain.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, NewNoteResponse(&notes[i]))
	}
	return out
}
