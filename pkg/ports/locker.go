package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes freeze/thaw of one session across processes
// sharing a storage backend. session.Manager takes it after its local lock,
// so a thaw in one replica never interleaves with a freeze in another.
type DistributedLocker interface {
	// Lock blocks until the session key is held or ctx ends. The lock expires
	// after ttl if the holder dies without calling the returned UnlockFunc.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
