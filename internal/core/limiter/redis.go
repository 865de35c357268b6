// Package limiter throttles login attempts with a redis fixed-window counter.
package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Login struct {
	RDB    *redis.Client
	Max    int
	Window time.Duration
}

func New(addr, pass string, db, maxAttempts, windowSec int) *Login {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if windowSec <= 0 {
		windowSec = 60
	}
	return &Login{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Max:    maxAttempts,
		Window: time.Duration(windowSec) * time.Second,
	}
}

// Allow counts one attempt for key and reports whether it is still within the
// window budget. Fails open when redis is unreachable.
func (l *Login) Allow(ctx context.Context, key string) bool {
	n, err := l.RDB.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		_ = l.RDB.Expire(ctx, key, l.Window).Err()
	}
	return n <= int64(l.Max)
}

// Reset clears the counter, used after a successful login.
func (l *Login) Reset(ctx context.Context, key string) {
	_ = l.RDB.Del(ctx, key).Err()
}
