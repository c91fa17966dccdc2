// Package ratelimit throttles authentication attempts per client key.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/ratemymusic/rmm-api/internal/constants"
)

// Config controls the attempt budget. A zero Limit disables limiting.
type Config struct {
	Limit         int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
	RedisTimeout  time.Duration
}

// Limiter allows Limit attempts per key per Window. With a Redis address the
// budget is shared across instances; otherwise it is kept in process.
type Limiter struct {
	limit  int
	window time.Duration

	redis   redis.UniversalClient
	timeout time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	sweep   time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func New(cfg Config) *Limiter {
	l := &Limiter{
		limit:   cfg.Limit,
		window:  cfg.Window,
		buckets: make(map[string]*bucket),
		timeout: cfg.RedisTimeout,
	}
	if l.window <= 0 {
		l.window = constants.DefaultLoginRateWindow
	}
	if l.timeout <= 0 {
		l.timeout = constants.DefaultRedisTimeout
	}
	if cfg.RedisAddr != "" {
		l.redis = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:        []string{cfg.RedisAddr},
			Password:     cfg.RedisPassword,
			DialTimeout:  l.timeout,
			ReadTimeout:  l.timeout,
			WriteTimeout: l.timeout,
		})
	}
	return l
}

// Allow records an attempt for key. When denied, retryAfter is how long the
// caller should wait. A Redis failure falls back to the local bucket and is
// returned alongside its verdict.
func (l *Limiter) Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error) {
	if l == nil || l.limit <= 0 {
		return true, 0, nil
	}
	if l.redis != nil {
		allowed, retryAfter, err = l.allowRedis(ctx, key)
		if err == nil {
			return allowed, retryAfter, nil
		}
	}
	allowed, retryAfter = l.allowLocal(key, time.Now())
	return allowed, retryAfter, err
}

// allowRedis counts attempts in a fixed window keyed by client.
func (l *Limiter) allowRedis(ctx context.Context, key string) (bool, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	redisKey := fmt.Sprintf("rmm:login:%s", key)
	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("redis expire: %w", err)
		}
	}
	if count <= int64(l.limit) {
		return true, 0, nil
	}

	ttl, err := l.redis.TTL(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis ttl: %w", err)
	}
	if ttl <= 0 {
		// The key lost its expiry; restore it so the client is not locked out.
		ttl = l.window
		if err := l.redis.Expire(ctx, redisKey, ttl).Err(); err != nil {
			return false, 0, fmt.Errorf("redis expire: %w", err)
		}
	}
	return false, ttl, nil
}

func (l *Limiter) allowLocal(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.sweep) > l.window {
		l.cleanupLocked(now)
		l.sweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		every := rate.Every(l.window / time.Duration(l.limit))
		b = &bucket{limiter: rate.NewLimiter(every, l.limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, l.window
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *Limiter) cleanupLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > 2*l.window {
			delete(l.buckets, key)
		}
	}
}

// Close releases the Redis connection pool, if any.
func (l *Limiter) Close() error {
	if l == nil || l.redis == nil {
		return nil
	}
	return l.redis.Close()
}
