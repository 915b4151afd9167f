package domain

import "time"

// NoteType enumerates the note variants the portal supports.
type NoteType string

const (
	NoteTypeNormal          NoteType = "normal"
	NoteTypeProtected       NoteType = "protected"
	NoteTypeSelfDestructing NoteType = "self_destructing"
)

// ValidNoteType reports whether t is one of the supported variants.
func ValidNoteType(t NoteType) bool {
	switch t {
	case NoteTypeNormal, NoteTypeProtected, NoteTypeSelfDestructing:
		return true
	}
	return false
}

// Note is the aggregate for markdown notes. Protected notes keep their
// authoritative body in EncryptedContent once a password is set; the plain
// Content field is only trusted for normal and self-destructing notes.
type Note struct {
	ID               string
	OwnerID          string
	Title            string
	Content          string
	Type             NoteType
	EncryptedContent *string
	PasswordHash     *string
	SelfDestructAt   *time.Time
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether a self-destructing note has passed its expiry.
// Expired notes are treated as deleted everywhere they could be observed.
func (n *Note) Expired(now time.Time) bool {
	return n.Type == NoteTypeSelfDestructing && n.SelfDestructAt != nil && now.After(*n.SelfDestructAt)
}
