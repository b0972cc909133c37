package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes work on one user across bot replicas.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The lock expires on its own after ttl if the holder disappears.
	// The returned UnlockFunc must be called once the work is finished.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
