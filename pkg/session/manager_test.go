package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/frost/internal/testutils"
	"github.com/aretw0/frost/pkg/adapters/memory"
	"github.com/aretw0/frost/pkg/adapters/redis"
	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/ports"
	"github.com/aretw0/frost/pkg/session"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s *SlowStore) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Get(ctx, key)
}

func (s *SlowStore) Set(ctx context.Context, key string, value []byte) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Set(ctx, key, value)
}

func TestManager_StorageIsScoped(t *testing.T) {
	backing := memory.NewStore()
	mgr := session.NewManager(backing)
	ctx := context.Background()

	require.NoError(t, mgr.Storage("alice").Set(ctx, domain.BranchesKey, []byte("[]")))

	got, err := backing.Get(ctx, "session/alice/"+domain.BranchesKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	_, err = mgr.Storage("bob").Get(ctx, domain.BranchesKey)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, mgr.Storage("alice").Delete(ctx, domain.BranchesKey))
	_, err = backing.Get(ctx, "session/alice/"+domain.BranchesKey)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestScopedStorage_Contract(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ports.RunStorageContract(t, mgr.Storage("contract"))
}

func TestSessionFromKey(t *testing.T) {
	id, ok := session.SessionFromKey("session/alice/frost:branches")
	assert.True(t, ok)
	assert.Equal(t, "alice", id)

	_, ok = session.SessionFromKey("frost:branches")
	assert.False(t, ok)

	_, ok = session.SessionFromKey("session//x")
	assert.False(t, ok)
}

func TestManager_DoSerializesReadModifyWrite(t *testing.T) {
	store := &SlowStore{Store: memory.NewStore()}
	mgr := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	require.NoError(t, mgr.Storage(id).Set(ctx, "counter", []byte{0}))

	var wg sync.WaitGroup
	concurrent := 10
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := mgr.Do(ctx, id, func(ctx context.Context, s ports.Storage) error {
				v, err := s.Get(ctx, "counter")
				if err != nil {
					return err
				}
				return s.Set(ctx, "counter", []byte{v[0] + 1})
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := mgr.Storage(id).Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, byte(concurrent), v[0])
}

func TestManager_WithLockRejectsEmptyID(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	err := mgr.WithLock(context.Background(), "", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestManager_PropagatesCallbackError(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	boom := errors.New("boom")
	err := mgr.Do(context.Background(), "s", func(context.Context, ports.Storage) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestManager_DistributedLock(t *testing.T) {
	mr, client := testutils.NewRedis(t)

	locker := redis.NewLocker(client, redis.DefaultPrefix)
	mgr := session.NewManager(redis.NewFromClient(client), session.WithLocker(locker))
	ctx := context.Background()

	err := mgr.Do(ctx, "alice", func(ctx context.Context, s ports.Storage) error {
		assert.True(t, mr.Exists("frost:lock:alice"))
		return s.Set(ctx, "k", []byte("v"))
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("frost:lock:alice"))
}

func TestList(t *testing.T) {
	backing := memory.NewStore()
	mgr := session.NewManager(backing)
	ctx := context.Background()

	require.NoError(t, mgr.Storage("bob").Set(ctx, domain.BranchesKey, []byte("[]")))
	require.NoError(t, mgr.Storage("alice").Set(ctx, domain.BranchesKey, []byte("[]")))
	require.NoError(t, mgr.Storage("alice").Set(ctx, domain.FieldsKey, []byte("{}")))
	require.NoError(t, backing.Set(ctx, "unscoped", []byte("x")))

	ids, err := session.List(ctx, backing)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, ids)
}
