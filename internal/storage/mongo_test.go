package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-marketplace/internal/config"
)

// The mongo backend needs a live server; set MONGO_TEST_URI to run it.
func TestMongo_RoundTrip(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := config.ConnectMongo(ctx, uri)
	require.NoError(t, err)

	s := NewMongo(client, "rental_marketplace_test", "kv_"+uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = s.coll.Drop(context.Background())
		_ = s.Close()
	})

	_, err = s.Get(ctx, "re_users")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "re_users", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "re_users", []byte(`[{"id":"u1"}]`)))
	got, err := s.Get(ctx, "re_users")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"u1"}]`, string(got))

	require.NoError(t, s.Delete(ctx, "re_users"))
	_, err = s.Get(ctx, "re_users")
	assert.ErrorIs(t, err, ErrNotFound)
}
