package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/marknotes/notes-service/internal/api/dto"
	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/service"
	"github.com/marknotes/notes-service/pkg/util"
)

// NotesHandler exposes note CRUD for the authenticated owner.
type NotesHandler struct {
	notes *service.NoteService
}

// NewNotesHandler constructs the handler.
func NewNotesHandler(noteService *service.NoteService) *NotesHandler {
	return &NotesHandler{notes: noteService}
}

func ownerID(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return "", util.NewUnauthenticated("authentication required")
	}
	return principal.User.ID, nil
}

// List handles GET /notes.
func (h *NotesHandler) List(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	notes, err := h.notes.List(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"notes": dto.NewNoteListResponse(notes)},
	})
}

// Get handles GET /notes/:id.
func (h *NotesHandler) Get(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	note, err := h.notes.Get(c.UserContext(), owner, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"note": dto.NewNoteResponse(note)},
	})
}

// Create handles POST /notes.
func (h *NotesHandler) Create(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" {
		return util.NewValidationError("title required", nil)
	}

	note, err := h.notes.Create(c.UserContext(), owner, req.Title, req.NoteType)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"note": dto.NewNoteResponse(note)},
	})
}

// Update handles PATCH /notes/:id.
func (h *NotesHandler) Update(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	note, err := h.notes.Update(c.UserContext(), owner, c.Params("id"), service.NoteUpdateInput{
		Title:            req.Title,
		Content:          req.Content,
		EncryptedContent: req.EncryptedContent,
		Version:          req.Version,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"note": dto.NewNoteResponse(note)},
	})
}

// Delete handles DELETE /notes/:id. Absence is not an error.
func (h *NotesHandler) Delete(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	if err := h.notes.Delete(c.UserContext(), owner, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Protect handles POST /notes/:id/protect.
func (h *NotesHandler) Protect(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var req dto.ProtectNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Password == "" {
		return util.NewValidationError("password required", nil)
	}

	note, err := h.notes.SetProtectedPassword(c.UserContext(), owner, c.Params("id"), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"note": dto.NewNoteResponse(note)},
	})
}

// SelfDestruct handles POST /notes/:id/self-destruct.
func (h *NotesHandler) SelfDestruct(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var req dto.SelfDestructRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.SelfDestructAt.IsZero() {
		return util.NewValidationError("self_destruct_at required", nil)
	}

	note, err := h.notes.UpdateSelfDestruct(c.UserContext(), owner, c.Params("id"), req.SelfDestructAt)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"note": dto.NewNoteResponse(note)},
	})
}
