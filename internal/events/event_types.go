package events

import (
	"time"

	"github.com/marknotes/notes-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignedUp EventType = "user_signed_up"
	EventUserApproved EventType = "user_approved"
	EventUserRejected EventType = "user_rejected"
	EventUserDeleted  EventType = "user_deleted"
	EventNoteCreated  EventType = "note_created"
	EventNoteDeleted  EventType = "note_deleted"
)

// Actor encapsulates who triggered an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	UserID  *string            `json:"user_id,omitempty"`
	AdminID *string            `json:"admin_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserSignedUpPayload payload.
type UserSignedUpPayload struct {
	Email string `json:"email"`
}

// UserStatusPayload payload for approval decisions.
type UserStatusPayload struct {
	Email  string            `json:"email"`
	Status domain.UserStatus `json:"status"`
}

// NoteCreatedPayload payload.
type NoteCreatedPayload struct {
	NoteType domain.NoteType `json:"note_type"`
	Title    string          `json:"title"`
}

// NoteDeletedPayload payload.
type NoteDeletedPayload struct {
	OwnerID string `json:"owner_id"`
}
