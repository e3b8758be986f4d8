package goCred

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRotationGuardAcquireRelease(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	guard := newRotationGuard(rdb, 30*time.Second)

	if err := guard.Acquire(ctx, "u1"); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := guard.Acquire(ctx, "u1"); !errors.Is(err, ErrRotationInProgress) {
		t.Fatalf("expected ErrRotationInProgress, got %v", err)
	}

	// A different user is unaffected.
	if err := guard.Acquire(ctx, "u2"); err != nil {
		t.Fatalf("Acquire for other user failed: %v", err)
	}

	guard.Release(ctx, "u1")
	if err := guard.Acquire(ctx, "u1"); err != nil {
		t.Fatalf("Acquire after Release failed: %v", err)
	}
}

func TestRotationGuardLeaseExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	guard := newRotationGuard(rdb, 10*time.Second)

	if err := guard.Acquire(ctx, "u1"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	mr.FastForward(11 * time.Second)

	if err := guard.Acquire(ctx, "u1"); err != nil {
		t.Fatalf("expected lease to expire, got %v", err)
	}
}

func TestRotationGuardRedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	guard := newRotationGuard(rdb, 10*time.Second)
	mr.Close()

	err := guard.Acquire(context.Background(), "u1")
	if !errors.Is(err, ErrRotationGuardUnavailable) {
		t.Fatalf("expected ErrRotationGuardUnavailable, got %v", err)
	}
}
