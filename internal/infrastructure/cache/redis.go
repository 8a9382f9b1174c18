package cache

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"scrapgate/internal/domain/lock"
)

func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// LockManager wraps redislock behind the lock.Locker contract.
type LockManager struct{ locker *redislock.Client }

var _ lock.Locker = (*LockManager)(nil)

func NewLockManager(rdb *redis.Client) *LockManager {
	return &LockManager{locker: redislock.New(rdb)}
}

func (m *LockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := m.locker.Obtain(ctx, key, ttl, nil)
	if err != nil {
		return nil, err
	}
	return func() { _ = lock.Release(context.Background()) }, nil
}
