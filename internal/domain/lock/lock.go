package lock

import (
	"context"
	"time"
)

// Locker serializes a critical section per key. Release is returned to the
// caller; errors on release are ignored.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// Nop satisfies Locker without locking; used in tests.
type Nop struct{}

func (Nop) Acquire(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}
