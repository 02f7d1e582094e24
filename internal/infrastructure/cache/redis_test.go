package cache

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"job-board/internal/config"
)

func TestRedis_UnavailableBypasses(t *testing.T) {
	r := &Redis{}
	ctx := context.Background()

	if r.Available() {
		t.Fatalf("expected unavailable")
	}

	var out map[string]any
	found, err := r.GetJSON(ctx, "k", &out)
	if found || err != nil {
		t.Fatalf("expected silent miss, got found=%v err=%v", found, err)
	}
	if err := r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("expected no-op set, got %v", err)
	}
	if _, err := r.SetIfNotExists(ctx, "k", "1", time.Second); !errors.Is(err, errUnavailable) {
		t.Fatalf("expected errUnavailable, got %v", err)
	}
	if _, err := r.PTTL(ctx, "k"); !errors.Is(err, errUnavailable) {
		t.Fatalf("expected errUnavailable, got %v", err)
	}
	if err := r.Ping(ctx); !errors.Is(err, errUnavailable) {
		t.Fatalf("expected errUnavailable, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("expected nil close, got %v", err)
	}
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	if r.Available() {
		t.Fatalf("expected nil redis to be unavailable")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("expected nil close, got %v", err)
	}
}

func TestNewRedis_UnreachableServer(t *testing.T) {
	r := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: "1", CacheTTL: time.Minute}, log.New(io.Discard, "", 0))
	if r.Available() {
		t.Fatalf("expected unreachable redis to be bypassed")
	}
}
