package ratelimit

import (
	"context"
	"strconv"
	"time"
)

type redisBackend interface {
	Available() bool
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	PTTL(ctx context.Context, key string) (time.Duration, error)
}

// RedisStore shares limiter state across instances. The key expires with the
// window, so SET NX succeeds exactly when the previous window has closed.
type RedisStore struct {
	backend  redisBackend
	prefix   string
	fallback *MemoryStore
}

func NewRedisStore(backend redisBackend) *RedisStore {
	return &RedisStore{backend: backend, prefix: "ratelimit:", fallback: NewMemoryStore()}
}

// Fallback is the in-process store used while Redis is unreachable. It needs
// pruning like a primary MemoryStore.
func (s *RedisStore) Fallback() *MemoryStore {
	return s.fallback
}

func (s *RedisStore) CheckAndRecord(ctx context.Context, key string, now time.Time, window time.Duration) (Decision, error) {
	if s.backend == nil || !s.backend.Available() {
		return s.fallback.CheckAndRecord(ctx, key, now, window)
	}

	rk := s.prefix + key
	ok, err := s.backend.SetIfNotExists(ctx, rk, strconv.FormatInt(now.UnixMilli(), 10), window)
	if err != nil {
		return Decision{}, err
	}
	if ok {
		return Decision{Allowed: true}, nil
	}

	ttl, err := s.backend.PTTL(ctx, rk)
	if err != nil || ttl <= 0 || ttl > window {
		ttl = window
	}
	return Decision{Allowed: false, RetryAfter: ttl}, nil
}

var _ Store = (*RedisStore)(nil)
