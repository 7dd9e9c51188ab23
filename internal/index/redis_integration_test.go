package index

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Integration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, redisURL)
	require.NoError(t, err)
	defer func() { _ = rdb.Close() }()

	prefix := "connexion:test:" + uuid.NewString()
	store := NewRedisStore(rdb, prefix)
	defer func() {
		_ = rdb.Del(ctx, store.key(Profiles), store.key(Queries)).Err()
	}()

	idx := New(ctx, store)
	idx.Insert(Profiles, "https://linkedin.com/in/b")
	idx.Insert(Profiles, "https://linkedin.com/in/a")
	idx.Insert(Queries, "q")
	require.NoError(t, idx.FlushAll(ctx))

	reloaded := New(ctx, store)
	assert.Equal(t, []string{"https://linkedin.com/in/a", "https://linkedin.com/in/b"}, reloaded.Keys(Profiles))
	assert.Equal(t, []string{"q"}, reloaded.Keys(Queries))

	require.NoError(t, store.Save(ctx, Queries, nil))
	keys, err := store.Load(ctx, Queries)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
