package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/limiter"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want Kind
	}{
		{ErrAccountNotFound, KindNotFound},
		{ErrWalletNotFound, KindNotFound},
		{ErrEmailTaken, KindConflict},
		{ErrInvalidCredentials, KindInvalidCredential},
		{ErrOTPMismatch, KindInvalidCredential},
		{ErrPinMismatch, KindInvalidCredential},
		{ErrOTPExpired, KindExpired},
		{ErrTwoFactorDisabled, KindUnauthorized},
		{ErrEmailUnconfirmed, KindUnconfirmed},
		{ErrInvalidPIN, KindValidation},
		{ErrInvalidWalletNumber, KindValidation},
		{fmt.Errorf("%w: field", ErrValidation), KindValidation},
		{limiter.ErrTooManyAttempts, KindRateLimited},
		{fmt.Errorf("wrapped: %w", ErrOTPExpired), KindExpired},
		{errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, KindOf(tc.err), tc.err.Error())
	}
}

func TestChallengeTTLs_For(t *testing.T) {
	t.Parallel()

	ttls := ChallengeTTLs{PasswordReset: 0, TwoFactor: 5 * time.Minute}
	require.Equal(t, DefaultChallengeTTL, ttls.For("password_reset"))
	require.Equal(t, ttls.TwoFactor, ttls.For("two_factor"))
	require.Equal(t, DefaultChallengeTTL, ttls.For("unknown"))
}
