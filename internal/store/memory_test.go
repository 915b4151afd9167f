package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marknotes/notes-service/internal/config"
	"github.com/marknotes/notes-service/internal/domain"
	"github.com/marknotes/notes-service/internal/repository"
)

func newProfile(email string) *domain.UserProfile {
	now := time.Now().UTC()
	return &domain.UserProfile{
		ID:           "user-" + email,
		Email:        email,
		Status:       domain.UserStatusPending,
		PasswordHash: "hash",
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepoCreateAndGet(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	user := newProfile("a@example.com")
	require.NoError(t, users.Create(ctx, user))

	got, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = users.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	require.NoError(t, users.Create(ctx, newProfile("a@example.com")))

	dup := newProfile("a@example.com")
	dup.ID = "another-id"
	assert.ErrorIs(t, users.Create(ctx, dup), repository.ErrDuplicateEmail)
}

func TestUserRepoListNewestFirst(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	require.NoError(t, users.Create(ctx, newProfile("first@example.com")))
	require.NoError(t, users.Create(ctx, newProfile("second@example.com")))

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second@example.com", list[0].Email)
	assert.Equal(t, "first@example.com", list[1].Email)
}

func TestUserRepoUpdateVersioning(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	user := newProfile("a@example.com")
	require.NoError(t, users.Create(ctx, user))

	user.Status = domain.UserStatusApproved
	require.NoError(t, users.Update(ctx, user))
	assert.Equal(t, int64(2), user.Version)

	stale := newProfile("a@example.com")
	stale.ID = user.ID
	stale.Version = 1
	assert.ErrorIs(t, users.Update(ctx, stale), repository.ErrVersionConflict)

	missing := newProfile("b@example.com")
	assert.ErrorIs(t, users.Update(ctx, missing), repository.ErrNotFound)
}

func TestUserRepoDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	user := newProfile("a@example.com")
	require.NoError(t, users.Create(ctx, user))

	require.NoError(t, users.Delete(ctx, user.ID))
	require.NoError(t, users.Delete(ctx, user.ID))

	_, err := users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	user := newProfile("a@example.com")
	require.NoError(t, users.Create(ctx, user))

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	got.Email = "mutated@example.com"

	again, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", again.Email)
}

func TestNoteRepoDeleteExpired(t *testing.T) {
	ctx := context.Background()
	notes := NewStore().Notes()

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := &domain.Note{ID: "n1", OwnerID: "u1", Type: domain.NoteTypeSelfDestructing, SelfDestructAt: &past, Version: 1}
	live := &domain.Note{ID: "n2", OwnerID: "u1", Type: domain.NoteTypeSelfDestructing, SelfDestructAt: &future, Version: 1}
	normal := &domain.Note{ID: "n3", OwnerID: "u1", Type: domain.NoteTypeNormal, Version: 1}
	require.NoError(t, notes.Create(ctx, expired))
	require.NoError(t, notes.Create(ctx, live))
	require.NoError(t, notes.Create(ctx, normal))

	removed, err := notes.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := notes.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestNoteRepoDeleteByOwner(t *testing.T) {
	ctx := context.Background()
	notes := NewStore().Notes()

	require.NoError(t, notes.Create(ctx, &domain.Note{ID: "n1", OwnerID: "u1", Version: 1}))
	require.NoError(t, notes.Create(ctx, &domain.Note{ID: "n2", OwnerID: "u2", Version: 1}))

	require.NoError(t, notes.DeleteByOwner(ctx, "u1"))

	u1, err := notes.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, u1)

	u2, err := notes.ListByOwner(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, u2, 1)
}

func TestSeedDemoData(t *testing.T) {
	ctx := context.Background()
	st := NewStore()

	cfg := config.SeedConfig{
		Enabled:      true,
		UserEmail:    "user@example.com",
		UserPassword: "password123",
		UserFullName: "John Doe",
	}

	require.NoError(t, SeedDemoData(ctx, st.Users(), st.Notes(), cfg, 4, zap.NewNop()))

	user, err := st.Users().GetByEmail(ctx, cfg.UserEmail)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusApproved, user.Status)
	require.NotNil(t, user.FullName)
	assert.Equal(t, "John Doe", *user.FullName)

	notes, err := st.Notes().ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	types := map[domain.NoteType]bool{}
	for _, n := range notes {
		types[n.Type] = true
	}
	assert.True(t, types[domain.NoteTypeNormal])
	assert.True(t, types[domain.NoteTypeProtected])

	// Seeding twice must not duplicate the demo account.
	require.NoError(t, SeedDemoData(ctx, st.Users(), st.Notes(), cfg, 4, zap.NewNop()))
	roster, err := st.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}
