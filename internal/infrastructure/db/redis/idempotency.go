package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const claimTTL = 2 * time.Minute

// IdempotencyGuard holds short-lived claims on submission idempotency keys.
// A claim blocks a second in-flight submission carrying the same key; the
// committed result itself lives in the document store, so claims only need
// to survive the length of one request and expire on their own.
type IdempotencyGuard struct {
	client *redis.Client
}

// NewIdempotencyGuard creates an IdempotencyGuard wrapping the given client.
func NewIdempotencyGuard(client *redis.Client) *IdempotencyGuard {
	return &IdempotencyGuard{client: client}
}

// Claim atomically takes the key. Returns false when another submission
// already holds it.
func (g *IdempotencyGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(key), "1", claimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency claim: %w", err)
	}
	return ok, nil
}

// Release drops the claim so a retry after a failed commit can proceed.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, g.key(key)).Err()
}

func (g *IdempotencyGuard) key(key string) string {
	return "submit:" + key
}
