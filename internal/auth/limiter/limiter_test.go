package limiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/giftwallet/internal/auth/limiter"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_FixedWindow(t *testing.T) {
	mr, client := newTestRedis(t)
	l := limiter.NewRedis(client, 3, time.Minute)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, l.Allow(ctx, "login_2fa", "a@example.com"))
	}
	require.ErrorIs(t, l.Allow(ctx, "login_2fa", "a@example.com"), limiter.ErrTooManyAttempts)

	// Other identifiers and scopes keep their own budget.
	require.NoError(t, l.Allow(ctx, "login_2fa", "b@example.com"))
	require.NoError(t, l.Allow(ctx, "pin_reset", "a@example.com"))

	mr.FastForward(time.Minute + time.Second)
	require.NoError(t, l.Allow(ctx, "login_2fa", "a@example.com"))
}

func TestRedis_Reset(t *testing.T) {
	_, client := newTestRedis(t)
	l := limiter.NewRedis(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "confirm", "a@example.com"))
	require.ErrorIs(t, l.Allow(ctx, "confirm", "a@example.com"), limiter.ErrTooManyAttempts)

	require.NoError(t, l.Reset(ctx, "confirm", "a@example.com"))
	require.NoError(t, l.Allow(ctx, "confirm", "a@example.com"))
}

func TestRedis_KeysDoNotLeakIdentifiers(t *testing.T) {
	mr, client := newTestRedis(t)
	l := limiter.NewRedis(client, 5, time.Minute)

	require.NoError(t, l.Allow(context.Background(), "confirm", "secret@example.com"))
	for _, k := range mr.Keys() {
		require.NotContains(t, k, "secret@example.com")
	}
}

func TestRedis_Unavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	l := limiter.NewRedis(client, 5, time.Minute)
	require.NoError(t, l.Ping(context.Background()))
	mr.Close()

	require.ErrorIs(t, l.Allow(context.Background(), "confirm", "a@example.com"), limiter.ErrUnavailable)
	require.ErrorIs(t, l.Ping(context.Background()), limiter.ErrUnavailable)
}

func TestNoop(t *testing.T) {
	var l limiter.Limiter = limiter.Noop{}
	for range 100 {
		require.NoError(t, l.Allow(context.Background(), "x", "y"))
	}
	require.NoError(t, l.Reset(context.Background(), "x", "y"))
	require.NoError(t, l.Ping(context.Background()))
}
