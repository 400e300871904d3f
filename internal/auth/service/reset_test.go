package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/notify"
	"github.com/stretchr/testify/require"
)

func TestPasswordReset(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	reg := h.registerConfirmed(t, "zoe@example.com", "+2348030000040")

	_, err := h.svc.RequestPasswordReset(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrAccountNotFound)

	effects, err := h.svc.RequestPasswordReset(ctx, "ZOE@example.com")
	require.NoError(t, err)
	require.Len(t, effects, 1)
	require.Equal(t, notify.KindPasswordReset, effects[0].Kind)
	code := effects[0].Code

	_, err = h.svc.ResetPassword(ctx, ResetPasswordInput{AccountID: reg.Account.ID, Code: wrongCode(code), NewPassword: "fresh-password"})
	require.ErrorIs(t, err, ErrOTPMismatch)

	_, err = h.svc.ResetPassword(ctx, ResetPasswordInput{AccountID: "missing", Code: code, NewPassword: "fresh-password"})
	require.ErrorIs(t, err, ErrAccountNotFound)

	effects, err = h.svc.ResetPassword(ctx, ResetPasswordInput{AccountID: reg.Account.ID, Code: code, NewPassword: "fresh-password"})
	require.NoError(t, err)
	require.Len(t, effects, 1)
	require.Equal(t, notify.KindPasswordChanged, effects[0].Kind)
	require.Nil(t, h.account(t, reg.Account.ID).Challenge)

	_, _, err = h.svc.Login(ctx, "zoe@example.com", testPassword)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = h.svc.Login(ctx, "zoe@example.com", "fresh-password")
	require.NoError(t, err)

	// Codes are single use.
	_, err = h.svc.ResetPassword(ctx, ResetPasswordInput{AccountID: reg.Account.ID, Code: code, NewPassword: "again"})
	require.ErrorIs(t, err, ErrOTPMismatch)
}

func TestResetPassword_ByEmailAndExpiry(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	h.registerConfirmed(t, "amy@example.com", "+2348030000041")

	effects, err := h.svc.RequestPasswordReset(ctx, "amy@example.com")
	require.NoError(t, err)

	h.clock.Advance(DefaultChallengeTTL + time.Second)
	_, err = h.svc.ResetPassword(ctx, ResetPasswordInput{Email: "amy@example.com", Code: effects[0].Code, NewPassword: "late"})
	require.ErrorIs(t, err, ErrOTPExpired)

	_, err = h.svc.ResetPassword(ctx, ResetPasswordInput{Email: "amy@example.com", Code: effects[0].Code})
	require.ErrorIs(t, err, ErrValidation)
}

func TestResetPassword_RejectsOtherPurposes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	reg := h.registerConfirmed(t, "ben@example.com", "+2348030000042")

	_, effects, err := h.svc.RequestOTP(ctx, Identifier{Email: "ben@example.com"}, "pin_reset")
	require.NoError(t, err)

	_, err = h.svc.ResetPassword(ctx, ResetPasswordInput{AccountID: reg.Account.ID, Code: effects[0].Code, NewPassword: "nope"})
	require.ErrorIs(t, err, ErrOTPMismatch)
}
