// Package ratelimit implements a fixed-window gate admitting one request per
// client key per window.
package ratelimit

import (
	"context"
	"log"
	"strings"
	"time"
)

const DefaultWindow = 100 * time.Second

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Store performs the atomic check-and-record for a single key.
type Store interface {
	CheckAndRecord(ctx context.Context, key string, now time.Time, window time.Duration) (Decision, error)
}

type Limiter struct {
	store  Store
	window time.Duration
	logger *log.Logger
}

func NewLimiter(store Store, window time.Duration, logger *log.Logger) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Limiter{store: store, window: window, logger: logger}
}

func (l *Limiter) Window() time.Duration {
	if l == nil {
		return 0
	}
	return l.window
}

// Allow fails open: a store error admits the request.
func (l *Limiter) Allow(ctx context.Context, clientKey string, now time.Time) Decision {
	if l == nil {
		return Decision{Allowed: true}
	}
	d, err := l.store.CheckAndRecord(ctx, clientKey, now, l.window)
	if err != nil {
		if l.logger != nil {
			l.logger.Printf("[RateLimit] store error, allowing key=%s err=%v", clientKey, err)
		}
		return Decision{Allowed: true}
	}
	if !d.Allowed && l.logger != nil {
		l.logger.Printf("[RateLimit] denied key=%s retry_after=%s", clientKey, d.RetryAfter)
	}
	return d
}

// ClientKey derives the limiter key from an X-Forwarded-For value.
func ClientKey(forwardedFor string) string {
	ip := strings.TrimSpace(forwardedFor)
	if i := strings.IndexByte(ip, ','); i >= 0 {
		ip = strings.TrimSpace(ip[:i])
	}
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
