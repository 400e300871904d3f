// Package limiter caps OTP verification attempts per account so a 4-digit
// code cannot be brute forced within its validity window.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/giftwallet/pkg/cryptox"
	"github.com/redis/go-redis/v9"
)

var (
	ErrTooManyAttempts = errors.New("too_many_attempts")
	ErrUnavailable     = errors.New("limiter_unavailable")
)

const keyPrefix = "giftwallet:otp_attempts:"

// Limiter counts attempts per (scope, identifier) pair.
type Limiter interface {
	// Allow records an attempt and returns ErrTooManyAttempts once the
	// window's budget is spent.
	Allow(ctx context.Context, scope, identifier string) error

	// Reset forgets the attempts recorded for the pair, e.g. after a
	// successful verification.
	Reset(ctx context.Context, scope, identifier string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// Redis is a fixed-window limiter: INCR the key, set its TTL on the first
// hit, reject once the count exceeds MaxAttempts.
type Redis struct {
	Client      *redis.Client
	MaxAttempts int
	Window      time.Duration
}

func NewRedis(client *redis.Client, maxAttempts int, window time.Duration) *Redis {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &Redis{Client: client, MaxAttempts: maxAttempts, Window: window}
}

func (l *Redis) Allow(ctx context.Context, scope, identifier string) error {
	key := attemptKey(scope, identifier)

	count, err := l.Client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count == 1 {
		if err := l.Client.Expire(ctx, key, l.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if count > int64(l.MaxAttempts) {
		return ErrTooManyAttempts
	}
	return nil
}

func (l *Redis) Reset(ctx context.Context, scope, identifier string) error {
	if err := l.Client.Del(ctx, attemptKey(scope, identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (l *Redis) Ping(ctx context.Context) error {
	if err := l.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Identifiers are fingerprinted so emails and wallet numbers never appear
// in redis keys.
func attemptKey(scope, identifier string) string {
	return keyPrefix + scope + ":" + cryptox.Fingerprint(identifier)
}

// Noop allows everything. Used when no redis is configured.
type Noop struct{}

func (Noop) Allow(context.Context, string, string) error { return nil }
func (Noop) Reset(context.Context, string, string) error { return nil }
func (Noop) Ping(context.Context) error { return nil }
