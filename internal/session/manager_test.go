package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/storage"
)

func newManager(t *testing.T, kv storage.Storage) (*Manager, *repository.Store) {
	t.Helper()
	store := repository.NewStore(kv)
	require.NoError(t, store.Initialize(context.Background()))
	return NewManager(store, kv), store
}

func TestManager_LoginPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	m, _ := newManager(t, storage.NewFile(path))
	_, ok := m.Current()
	assert.False(t, ok)

	u, err := m.Login(ctx, "owner@demo.com", "")
	require.NoError(t, err)
	assert.Equal(t, "o1", u.ID)

	// a second client on the same file picks the session up
	restarted, _ := newManager(t, storage.NewFile(path))
	require.NoError(t, restarted.Restore(ctx))
	got, ok := restarted.Current()
	require.True(t, ok)
	assert.Equal(t, u, got)
}

func TestManager_LogoutKeepsAccount(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	m, store := newManager(t, kv)

	u, err := m.Login(ctx, "fresh@example.com", model.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	_, ok := m.Current()
	assert.False(t, ok)
	_, err = kv.Get(ctx, Key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	still, err := store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, still.Role)
}

func TestManager_BlockedLoginKeepsPreviousSession(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t, storage.NewMemory())

	_, err := m.Login(ctx, "user@demo.com", "")
	require.NoError(t, err)
	_, err = store.ToggleUserBlocked(ctx, "o2")
	require.NoError(t, err)

	_, err = m.Login(ctx, "builder@demo.com", "")
	assert.ErrorIs(t, err, repository.ErrBlocked)
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "u1", cur.ID)
}

func TestManager_RestoreIsStaleUntilRefresh(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	m, store := newManager(t, kv)

	_, err := m.Login(ctx, "user@demo.com", "")
	require.NoError(t, err)
	_, err = store.ToggleFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = store.ToggleUserBlocked(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, m.Restore(ctx))
	cur, ok := m.Current()
	require.True(t, ok)
	assert.False(t, cur.IsBlocked)
	assert.Empty(t, cur.Favorites)

	fresh, ok, err := m.Refresh(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, fresh.IsBlocked)
	assert.Equal(t, []string{"p1"}, fresh.Favorites)
}

func TestManager_RefreshSignedOutOrVanished(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	m, _ := newManager(t, kv)

	_, ok, err := m.Refresh(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, Key, []byte(`{"id":"ghost","name":"Ghost","role":"user"}`)))
	require.NoError(t, m.Restore(ctx))
	u, ok, err := m.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ghost", u.ID)
}

func TestManager_RestoreDiscardsGarbage(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	m, _ := newManager(t, kv)

	require.NoError(t, kv.Set(ctx, Key, []byte(`"not a user"`)))
	require.NoError(t, m.Restore(ctx))
	_, ok := m.Current()
	assert.False(t, ok)
}
