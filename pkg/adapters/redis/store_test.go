package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/frost/internal/testutils"
	"github.com/aretw0/frost/pkg/adapters/redis"
	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	return testutils.NewRedis(t)
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunStorageContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.BranchesKey, []byte("[]")))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, domain.BranchesKey)

	mr.FastForward(2 * time.Second)

	_, err = store.Get(ctx, domain.BranchesKey)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	// The index is pruned against wall-clock time, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "session/42/"+domain.FieldsKey, []byte("{}")))

	assert.True(t, mr.Exists("custom:app:session/42/"+domain.FieldsKey), "expected key with custom prefix")
	assert.True(t, mr.Exists("custom:app:index"), "expected index with custom prefix")

	require.NoError(t, store.Delete(ctx, "session/42/"+domain.FieldsKey))
	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
