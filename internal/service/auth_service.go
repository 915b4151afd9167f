package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/config"
	"github.com/marknotes/notes-service/internal/domain"
	"github.com/marknotes/notes-service/internal/events"
	"github.com/marknotes/notes-service/internal/repository"
	"github.com/marknotes/notes-service/pkg/util"
)

// AuthService coordinates signup, login, session teardown and the
// profile operations of the authenticated end-user.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	revoker    auth.TokenRevoker
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	TokenManager      *auth.TokenManager
	Revoker           auth.TokenRevoker
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   deps.TokenManager,
		revoker:    deps.Revoker,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   cfg.ResetTokenTTL(),
	}
}

// Signup creates a pending profile. No session is established; the approval
// gate blocks login until an admin acts.
func (s *AuthService) Signup(ctx context.Context, email, password, fullName string) (*domain.UserProfile, error) {
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
		Status:       domain.UserStatusPending,
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

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserSignedUp,
		SubjectID: user.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeUser, UserID: &user.ID},
		Timestamp: now,
		Payload:   events.UserSignedUpPayload{Email: user.Email},
	})

	return user, nil
}

// Login authenticates an end-user. Failure ordering is fixed: unknown email,
// then approval gate, then credential check.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.UserProfile, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, util.NewNotFound("user", nil)
		}
		return nil, "", time.Time{}, util.NewInternalError(err)
	}

	if user.Status != domain.UserStatusApproved {
		return nil, "", time.Time{}, util.NewPendingApproval()
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, util.NewInvalidCredential()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.SubjectTypeUser)
	if err != nil {
		return nil, "", time.Time{}, util.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Logout revokes the presented token; repeated calls are harmless.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return util.NewInternalError(err)
	}
	return nil
}

// GetProfile returns the profile identified by requestedID, provided it is
// the caller's own. Session identity is matched against the requested id;
// a mismatch is an authorization failure, never a silent substitution.
func (s *AuthService) GetProfile(ctx context.Context, callerID, requestedID string) (*domain.UserProfile, error) {
	if err := matchCaller(callerID, requestedID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, requestedID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NewNotFound("user", nil)
		}
		return nil, util.NewInternalError(err)
	}
	return user, nil
}

// ProfileUpdateInput carries optional profile mutations.
type ProfileUpdateInput struct {
	FullName *string
}

// UpdateProfile applies the provided fields to the caller's own profile.
func (s *AuthService) UpdateProfile(ctx context.Context, callerID, requestedID string, input ProfileUpdateInput) (*domain.UserProfile, error) {
	if err := matchCaller(callerID, requestedID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, requestedID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NewNotFound("user", nil)
		}
		return nil, util.NewInternalError(err)
	}

	if input.FullName != nil {
		user.FullName = input.FullName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, translateUserWriteErr(err)
	}
	return user, nil
}

// ChangePassword verifies the current credential and stores a new hash for
// the caller's own profile.
func (s *AuthService) ChangePassword(ctx context.Context, callerID, requestedID, currentPassword, newPassword string) error {
	if err := matchCaller(callerID, requestedID); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, requestedID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return util.NewNotFound("user", nil)
		}
		return util.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return util.NewInvalidCredential()
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

// RequestPasswordReset issues a one-shot reset token for the email, if it
// belongs to a profile. Unknown emails are not revealed to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return util.NewInternalError(err)
	}

	token := uuid.NewString()
	now := time.Now().UTC()
	reset := &domain.PasswordReset{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: now.Add(s.resetTTL),
		CreatedAt: now,
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return util.NewInternalError(err)
	}

	// Delivered out of band in production; logged for development.
	s.logger.Info("password reset token issued",
		zap.String("user_id", user.ID),
		zap.String("token", token),
	)
	return nil
}

// ConfirmPasswordReset consumes a reset token and rotates the credential.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	reset, err := s.resets.GetByTokenHash(ctx, hashResetToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidResetToken()
		}
		return util.NewInternalError(err)
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return invalidResetToken()
	}

	user, err := s.users.GetByID(ctx, reset.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidResetToken()
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
	if err := s.resets.MarkUsed(ctx, reset.ID); err != nil {
		return util.NewInternalError(err)
	}
	return nil
}

func matchCaller(callerID, requestedID string) error {
	if callerID != requestedID {
		return util.NewUnauthorized("profile does not belong to caller")
	}
	return nil
}

func translateUserWriteErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return util.NewNotFound("user", nil)
	case errors.Is(err, repository.ErrVersionConflict):
		return util.NewConflict("user profile was modified concurrently", nil)
	default:
		return util.NewInternalError(err)
	}
}

func invalidResetToken() error {
	return util.NewDomainError(util.CodeInvalidCredential, "invalid or expired reset token",
		http.StatusUnauthorized, nil)
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
