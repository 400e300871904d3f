package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestHousekeeping_Sweep(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	stale, _ := h.register(t, "stale@example.com", "+2348030000050")
	fresh, _ := h.register(t, "fresh@example.com", "+2348030000051")
	h.setChallenge(t, stale.Account.ID, domain.PurposeEmailConfirm, "1234", time.Now().Add(-time.Minute))

	hk := NewHousekeepingService(h.store, slog.New(slog.DiscardHandler), time.Hour)
	require.Equal(t, int64(1), hk.Sweep(context.Background()))

	scrubbed := h.account(t, stale.Account.ID).Challenge
	require.NotNil(t, scrubbed)
	require.Empty(t, scrubbed.Hash)
	require.NotEmpty(t, h.account(t, fresh.Account.ID).Challenge.Hash)
}

func TestHousekeeping_SweptChallengeStillExpired(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	reg := h.registerConfirmed(t, "swept@example.com", "+2348030000052")
	h.setChallenge(t, reg.Account.ID, domain.PurposeEnrollment, "1234", h.clock.Now().Add(-time.Minute))

	_, err := h.svc.SetTwoFactor(ctx, Identifier{Email: "swept@example.com"}, "1234", true)
	require.ErrorIs(t, err, ErrOTPExpired)

	hk := NewHousekeepingService(h.store, slog.New(slog.DiscardHandler), time.Hour)
	hk.Now = h.clock.Now
	require.Equal(t, int64(1), hk.Sweep(ctx))

	_, err = h.svc.SetTwoFactor(ctx, Identifier{Email: "swept@example.com"}, "1234", true)
	require.ErrorIs(t, err, ErrOTPExpired)
	_, err = h.svc.SetTwoFactor(ctx, Identifier{Email: "swept@example.com"}, "9999", true)
	require.ErrorIs(t, err, ErrOTPExpired)

	// The two-factor login gate sees the swept challenge as expired too.
	require.NoError(t, h.store.Accounts().SetTwoFactor(ctx, reg.Account.ID, domain.TwoFactorEnabled))
	h.setChallenge(t, reg.Account.ID, domain.PurposeTwoFactor, "4321", h.clock.Now().Add(-time.Minute))
	require.Equal(t, int64(1), hk.Sweep(ctx))

	_, err = h.svc.LoginTwoFactor(ctx, "swept@example.com", "4321")
	require.ErrorIs(t, err, ErrOTPExpired)
}

func TestHousekeeping_StartStop(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	hk := NewHousekeepingService(h.store, slog.New(slog.DiscardHandler), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
