// Package ratelimit implements a Redis-backed sliding-window limiter.
//
// Counters live in Redis sorted sets keyed by policy and caller identity, so
// multiple relay replicas share one view of the window without in-process
// state.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Policy names one quota: at most Limit requests per rolling Window.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Limiter decides whether a caller may proceed under a policy.
type Limiter interface {
	// Allow records one request attempt for key under the policy and reports
	// whether it fits the window. The attempt that overflows the window is
	// still recorded, so hammering a limited endpoint keeps it limited.
	Allow(ctx context.Context, policy Policy, key string) (bool, error)
}

// RedisLimiter implements Limiter on a Redis sorted set per (policy, key).
// Members are nanosecond timestamps with a unique suffix, so requests
// landing in the same instant count separately; entries older than the
// window are trimmed on every call.
type RedisLimiter struct {
	client *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewRedisLimiter connects to Redis and returns a limiter. The connection is
// verified with a ping so a misconfigured address fails at startup, not on
// the first limited request.
func NewRedisLimiter(ctx context.Context, addr, password string, db int, logger *slog.Logger) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisLimiter{
		client: client,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, policy Policy, key string) (bool, error) {
	now := l.now()
	redisKey := fmt.Sprintf("ratelimit:%s:%s", policy.Name, key)
	cutoff := now.Add(-policy.Window).UnixNano()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: memberFor(now),
	})
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, policy.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}

	allowed := count.Val() <= int64(policy.Limit)
	if !allowed {
		l.logger.Warn("rate limit exceeded",
			"policy", policy.Name,
			"key", key,
			"count", count.Val(),
			"limit", policy.Limit,
		)
	}
	return allowed, nil
}

// memberFor builds a sorted-set member that stays unique even when several
// requests for one key share a timestamp, across replicas included.
func memberFor(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())
}

// Close releases the underlying Redis connection.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
