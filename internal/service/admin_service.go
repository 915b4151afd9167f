package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/config"
	"github.com/marknotes/notes-service/internal/domain"
	"github.com/marknotes/notes-service/internal/events"
	"github.com/marknotes/notes-service/internal/repository"
	"github.com/marknotes/notes-service/pkg/util"
)

// The admin account lives in configuration, not the roster; its subject id
// is fixed so tokens survive restarts.
const adminSubjectID = "admin-001"

// AdminService coordinates the admin session and the user-approval workflow.
type AdminService struct {
	users        repository.UserRepository
	notes        repository.NoteRepository
	tokenMgr     *auth.TokenManager
	revoker      auth.TokenRevoker
	dispatcher   events.Dispatcher
	identity     domain.Admin
	passwordHash string
	bcryptCost   int
}

// AdminDependencies encapsulates requirements for the admin service.
type AdminDependencies struct {
	UserRepo     repository.UserRepository
	NoteRepo     repository.NoteRepository
	TokenManager *auth.TokenManager
	Revoker      auth.TokenRevoker
	Dispatcher   events.Dispatcher
}

// NewAdminService builds the service. The configured admin password is
// hashed once here so login comparisons never touch the plaintext again.
func NewAdminService(cfg config.AuthConfig, deps AdminDependencies) (*AdminService, error) {
	hash, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AdminService{
		users:      deps.UserRepo,
		notes:      deps.NoteRepo,
		tokenMgr:   deps.TokenManager,
		revoker:    deps.Revoker,
		dispatcher: deps.Dispatcher,
		identity: domain.Admin{
			ID:       adminSubjectID,
			Email:    cfg.AdminEmail,
			FullName: cfg.AdminFullName,
		},
		passwordHash: hash,
		bcryptCost:   cfg.BcryptCost,
	}, nil
}

// Identity returns the configured admin identity.
func (s *AdminService) Identity() domain.Admin {
	return s.identity
}

// Login authenticates against the configured admin pair.
func (s *AdminService) Login(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	if email != s.identity.Email {
		return nil, "", time.Time{}, util.NewInvalidCredential()
	}
	if err := auth.ComparePassword(s.passwordHash, password); err != nil {
		return nil, "", time.Time{}, util.NewInvalidCredential()
	}

	token, exp, err := s.tokenMgr.GenerateToken(s.identity.ID, domain.SubjectTypeAdmin)
	if err != nil {
		return nil, "", time.Time{}, util.NewInternalError(err)
	}
	admin := s.identity
	return &admin, token, exp, nil
}

// Logout revokes the presented admin token.
func (s *AdminService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return util.NewInternalError(err)
	}
	return nil
}

// ListUsers returns the full roster, newest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return users, nil
}

// Approve moves a profile to approved. Re-approving an approved profile is
// a no-op success; only a truly absent id is NotFound.
func (s *AdminService) Approve(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.setStatus(ctx, userID, domain.UserStatusApproved, events.EventUserApproved)
}

// Reject moves a profile to rejected, idempotently.
func (s *AdminService) Reject(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.setStatus(ctx, userID, domain.UserStatusRejected, events.EventUserRejected)
}

func (s *AdminService) setStatus(ctx context.Context, userID string, status domain.UserStatus, eventType events.EventType) (*domain.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NewNotFound("user", nil)
		}
		return nil, util.NewInternalError(err)
	}
	if user.Status == status {
		return user, nil
	}

	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, translateUserWriteErr(err)
	}

	adminID := s.identity.ID
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: user.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeAdmin, AdminID: &adminID},
		Timestamp: user.UpdatedAt,
		Payload:   events.UserStatusPayload{Email: user.Email, Status: user.Status},
	})
	return user, nil
}

// CreateUser inserts an already-approved profile, bypassing the pending gate.
func (s *AdminService) CreateUser(ctx context.Context, email, fullName, password string) (*domain.UserProfile, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, util.NewAlreadyRegistered(email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, util.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	now := time.Now().UTC()
	user := &domain.UserProfile{
		ID:           uuid.NewString(),
		Email:        email,
		Status:       domain.UserStatusApproved,
		PasswordHash: hash,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if fullName != "" {
		user.FullName = &fullName
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, util.NewAlreadyRegistered(email)
		}
		return nil, util.NewInternalError(err)
	}
	return user, nil
}

// ChangeUserPassword stores a new credential hash for the profile.
func (s *AdminService) ChangeUserPassword(ctx context.Context, userID, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return util.NewNotFound("user", nil)
		}
		return util.NewInternalError(err)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return util.NewInternalError(err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return translateUserWriteErr(err)
	}
	return nil
}

// DeleteUser removes a profile and its notes. Removal is idempotent;
// deleting an absent id succeeds.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return util.NewInternalError(err)
	}

	if err := s.notes.DeleteByOwner(ctx, userID); err != nil {
		return util.NewInternalError(err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return util.NewInternalError(err)
	}

	adminID := s.identity.ID
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserDeleted,
		SubjectID: user.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeAdmin, AdminID: &adminID},
		Timestamp: time.Now().UTC(),
		Payload:   events.UserStatusPayload{Email: user.Email, Status: user.Status},
	})
	return nil
}
