package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"
)

type MemoryStore struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{last: make(map[string]time.Time)}
}

func (s *MemoryStore) CheckAndRecord(_ context.Context, key string, now time.Time, window time.Duration) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.last[key]; ok {
		elapsed := now.Sub(prev)
		if elapsed < window {
			return Decision{Allowed: false, RetryAfter: window - elapsed}, nil
		}
	}
	s.last[key] = now
	return Decision{Allowed: true}, nil
}

// Prune drops entries whose window has closed and returns how many were removed.
func (s *MemoryStore) Prune(now time.Time, window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, t := range s.last {
		if now.Sub(t) >= window {
			delete(s.last, k)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.last)
}

// RunPruner calls Prune every interval until ctx is done.
func (s *MemoryStore) RunPruner(ctx context.Context, interval, window time.Duration, logger *log.Logger) {
	if interval <= 0 {
		interval = window
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n := s.Prune(now, window)
			if n > 0 && logger != nil {
				logger.Printf("[RateLimit] pruned entries=%d remaining=%d", n, s.Len())
			}
		}
	}
}

var _ Store = (*MemoryStore)(nil)
