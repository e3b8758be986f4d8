package goCred

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// rotationGuard enforces at-most-one in-flight rotation per user using a Redis
// SET NX lease with a TTL backstop against crashed holders.
type rotationGuard struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

func newRotationGuard(client *redis.Client, ttl time.Duration) *rotationGuard {
	return &rotationGuard{
		redis:  client,
		ttl:    ttl,
		prefix: "arg",
	}
}

func (g *rotationGuard) key(userID string) string {
	return g.prefix + ":" + userID
}

func (g *rotationGuard) Acquire(ctx context.Context, userID string) error {
	ok, err := g.redis.SetNX(ctx, g.key(userID), 1, g.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRotationGuardUnavailable, err)
	}
	if !ok {
		return ErrRotationInProgress
	}
	return nil
}

// Release is best effort; an expired or lost lease self-heals via the TTL.
func (g *rotationGuard) Release(ctx context.Context, userID string) {
	_ = g.redis.Del(ctx, g.key(userID)).Err()
}
