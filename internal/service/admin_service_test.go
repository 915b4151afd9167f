package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/config"
	"github.com/marknotes/notes-service/internal/domain"
	"github.com/marknotes/notes-service/internal/events"
	"github.com/marknotes/notes-service/internal/store"
	"github.com/marknotes/notes-service/pkg/util"
)

type adminFixture struct {
	admin  *AdminService
	users  *AuthService
	notes  *NoteService
	store  *store.Store
	tokens *auth.TokenManager
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	cfg := testAuthConfig()
	st := store.NewStore()
	revoker := auth.NewMemoryRevoker()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())
	dispatcher := events.NewInMemoryDispatcher()

	admin, err := NewAdminService(cfg, AdminDependencies{
		UserRepo:     st.Users(),
		NoteRepo:     st.Notes(),
		TokenManager: tokens,
		Revoker:      revoker,
		Dispatcher:   dispatcher,
	})
	require.NoError(t, err)

	users := NewAuthService(cfg, AuthDependencies{
		UserRepo:          st.Users(),
		PasswordResetRepo: st.PasswordResets(),
		TokenManager:      tokens,
		Revoker:           revoker,
		Dispatcher:        dispatcher,
		Logger:            zap.NewNop(),
	})
	notes := NewNoteService(st.Notes(), dispatcher, cfg.BcryptCost)

	return &adminFixture{admin: admin, users: users, notes: notes, store: st, tokens: tokens}
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	admin, token, exp, err := f.admin.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := f.tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeAdmin, claims.Subject)
	assert.Equal(t, f.admin.Identity().ID, claims.SubjectID)
}

func TestAdminLoginInvalidCredential(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	_, _, _, err := f.admin.Login(ctx, "admin@example.com", "wrong")
	assert.Equal(t, util.CodeInvalidCredential, util.CodeOf(err))

	// Unknown admin email is a credential failure, not a lookup failure.
	_, _, _, err = f.admin.Login(ctx, "other@example.com", "admin123")
	assert.Equal(t, util.CodeInvalidCredential, util.CodeOf(err))
}

func TestApprovalLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	user, err := f.users.Signup(ctx, "applicant@example.com", "secret123", "Applicant")
	require.NoError(t, err)

	// Pending accounts cannot log in.
	_, _, _, err = f.users.Login(ctx, user.Email, "secret123")
	assert.Equal(t, util.CodePendingApproval, util.CodeOf(err))

	approved, err := f.admin.Approve(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusApproved, approved.Status)

	_, _, _, err = f.users.Login(ctx, user.Email, "secret123")
	assert.NoError(t, err)

	// Re-approving is a no-op success that does not bump the version.
	again, err := f.admin.Approve(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, approved.Version, again.Version)
}

func TestRejectBlocksLogin(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	user, err := f.users.Signup(ctx, "applicant@example.com", "secret123", "")
	require.NoError(t, err)

	rejected, err := f.admin.Reject(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusRejected, rejected.Status)

	_, _, _, err = f.users.Login(ctx, user.Email, "secret123")
	assert.Equal(t, util.CodePendingApproval, util.CodeOf(err))
}

func TestApproveUnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	_, err := f.admin.Approve(ctx, "no-such-id")
	assert.Equal(t, util.CodeNotFound, util.CodeOf(err))
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	_, err := f.users.Signup(ctx, "one@example.com", "secret123", "")
	require.NoError(t, err)

	roster, err := f.admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 1)

	_, err = f.admin.CreateUser(ctx, "two@example.com", "Second User", "secret123")
	require.NoError(t, err)

	roster, err = f.admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "two@example.com", roster[0].Email)
}

func TestSeededRosterGrowsByDirectCreate(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	require.NoError(t, store.SeedDemoData(ctx, f.store.Users(), f.store.Notes(), config.SeedConfig{
		Enabled:      true,
		UserEmail:    "user@example.com",
		UserPassword: "password123",
		UserFullName: "John Doe",
	}, 4, zap.NewNop()))

	roster, err := f.admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 1)

	created, err := f.admin.CreateUser(ctx, "a@b.com", "A", "x")
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusApproved, created.Status)

	roster, err = f.admin.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestAdminCreateUserIsApproved(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	user, err := f.admin.CreateUser(ctx, "direct@example.com", "Direct User", "secret123")
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusApproved, user.Status)

	// No approval step needed.
	_, _, _, err = f.users.Login(ctx, user.Email, "secret123")
	assert.NoError(t, err)

	_, err = f.admin.CreateUser(ctx, "direct@example.com", "", "other456")
	assert.Equal(t, util.CodeAlreadyRegistered, util.CodeOf(err))
}

func TestAdminChangeUserPassword(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	user, err := f.admin.CreateUser(ctx, "user@example.com", "", "secret123")
	require.NoError(t, err)

	require.NoError(t, f.admin.ChangeUserPassword(ctx, user.ID, "reset456"))

	_, _, _, err = f.users.Login(ctx, user.Email, "secret123")
	assert.Equal(t, util.CodeInvalidCredential, util.CodeOf(err))

	_, _, _, err = f.users.Login(ctx, user.Email, "reset456")
	assert.NoError(t, err)

	err = f.admin.ChangeUserPassword(ctx, "no-such-id", "whatever")
	assert.Equal(t, util.CodeNotFound, util.CodeOf(err))
}

func TestDeleteUserCascadesNotes(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	user, err := f.admin.CreateUser(ctx, "user@example.com", "", "secret123")
	require.NoError(t, err)

	_, err = f.notes.Create(ctx, user.ID, "mine", domain.NoteTypeNormal)
	require.NoError(t, err)

	require.NoError(t, f.admin.DeleteUser(ctx, user.ID))

	_, _, _, err = f.users.Login(ctx, user.Email, "secret123")
	assert.Equal(t, util.CodeNotFound, util.CodeOf(err))

	orphans, err := f.store.Notes().ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	// Deleting again is a quiet success.
	assert.NoError(t, f.admin.DeleteUser(ctx, user.ID))
}
