package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return map[string]Storage{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "nested", "state.json")),
		"redis":  NewRedis(rdb, "test"),
	}
}

func TestStorage_Contract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "re_users")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "re_users", []byte(`[{"id":"u1"}]`)))
			got, err := s.Get(ctx, "re_users")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"u1"}]`, string(got))

			require.NoError(t, s.Set(ctx, "re_users", []byte(`[]`)))
			got, err = s.Get(ctx, "re_users")
			require.NoError(t, err)
			assert.JSONEq(t, `[]`, string(got))

			require.NoError(t, s.Delete(ctx, "re_users"))
			_, err = s.Get(ctx, "re_users")
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting an absent key is not an error
			assert.NoError(t, s.Delete(ctx, "re_users"))
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	in := []byte(`"abc"`)
	require.NoError(t, m.Set(ctx, "k", in))
	in[1] = 'z'

	out, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(out))
	out[1] = 'q'

	again, _ := m.Get(ctx, "k")
	assert.Equal(t, `"abc"`, string(again))
}

func TestFile_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, NewFile(path).Set(ctx, "re_session", []byte(`{"id":"u1"}`)))

	reopened := NewFile(path)
	got, err := reopened.Get(ctx, "re_session")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(got))
}

func TestFile_RejectsInvalidJSON(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "state.json"))
	err := f.Set(context.Background(), "k", []byte("not json"))
	assert.Error(t, err)
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := NewFile(path).Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedis_UsesPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	s := NewRedis(rdb, "rm")
	require.NoError(t, s.Set(context.Background(), "re_bookings", []byte(`[]`)))

	v, err := mr.Get("rm:re_bookings")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
	assert.False(t, mr.Exists("re_bookings"))
}
