package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockoutRepository tracks failed login attempts per email in Redis. The
// counter expires on its own, so a lockout clears without bookkeeping.
type LockoutRepository struct {
	client *redis.Client
	window time.Duration
}

func NewLockoutRepository(client *redis.Client) *LockoutRepository {
	return &LockoutRepository{
		client: client,
		window: 10 * time.Minute,
	}
}

func (r *LockoutRepository) key(email string) string {
	return fmt.Sprintf("devhub:login-failures:%s", email)
}

// RecordFailure increments the failure counter and returns the new count.
// The increment and the TTL are pipelined so the counter can never be left
// without an expiry.
func (r *LockoutRepository) RecordFailure(ctx context.Context, email string) (int64, error) {
	key := r.key(email)

	var incr *redis.IntCmd
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		// NX keeps the window anchored at the first failure.
		pipe.ExpireNX(ctx, key, r.window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record login failure: %w", err)
	}
	return incr.Val(), nil
}

// Failures returns the current failure count inside the window.
func (r *LockoutRepository) Failures(ctx context.Context, email string) (int64, error) {
	count, err := r.client.Get(ctx, r.key(email)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read login failures: %w", err)
	}
	return count, nil
}

// Reset clears the counter after a successful login.
func (r *LockoutRepository) Reset(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.key(email)).Err()
}
