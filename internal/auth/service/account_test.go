package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/notify"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	res, effects, err := h.svc.Register(ctx, RegisterInput{
		Email:    "  Ada@Example.COM ",
		Phone:    "+2348030000001",
		FullName: "Ada Lovelace",
		Password: testPassword,
	})
	require.NoError(t, err)

	t.Run("normalises email and stores an unconfirmed standard account", func(t *testing.T) {
		acct := h.account(t, res.Account.ID)
		require.Equal(t, "ada@example.com", acct.Email)
		require.Equal(t, domain.RoleStandard, acct.Role)
		require.False(t, acct.EmailConfirmed)
		require.False(t, acct.TwoFactorEnabled())
		require.NoError(t, cryptox.VerifyPassword(testPassword, acct.PasswordHash))
	})

	t.Run("creates a default wallet without pin", func(t *testing.T) {
		require.Len(t, res.Wallet.Number, 10)
		require.Equal(t, DefaultCurrency, res.Wallet.Currency)
		require.False(t, res.Wallet.HasPin())

		wallets, err := h.store.Wallets().ListWalletsByAccount(ctx, res.Account.ID)
		require.NoError(t, err)
		require.Len(t, wallets, 1)
		require.Equal(t, res.Wallet.Number, wallets[0].Number)
	})

	t.Run("issues an email confirmation challenge", func(t *testing.T) {
		require.Len(t, effects, 1)
		e := effects[0]
		require.Equal(t, notify.KindSignup, e.Kind)
		require.Equal(t, "ada@example.com", e.Email)
		require.True(t, cryptox.WellFormedOTP(e.Code, cryptox.DefaultOTPDigits))

		acct := h.account(t, res.Account.ID)
		require.NotNil(t, acct.Challenge)
		require.Equal(t, domain.PurposeEmailConfirm, acct.Challenge.Purpose)
		require.WithinDuration(t, h.clock.Now().Add(DefaultChallengeTTL), acct.Challenge.ExpiresAt, time.Second)
	})

	t.Run("rejects duplicate email and phone", func(t *testing.T) {
		_, _, err := h.svc.Register(ctx, RegisterInput{
			Email: "ADA@example.com", Phone: "+1", FullName: "Other", Password: "pw",
		})
		require.ErrorIs(t, err, ErrEmailTaken)

		_, _, err = h.svc.Register(ctx, RegisterInput{
			Email: "other@example.com", Phone: "+2348030000001", FullName: "Other", Password: "pw",
		})
		require.ErrorIs(t, err, ErrPhoneTaken)
	})

	t.Run("validates required fields", func(t *testing.T) {
		cases := []RegisterInput{
			{Email: "no-at-sign", Phone: "1", FullName: "x", Password: "pw"},
			{Email: "a@b.c", Phone: "", FullName: "x", Password: "pw"},
			{Email: "a@b.c", Phone: "1", FullName: " ", Password: "pw"},
			{Email: "a@b.c", Phone: "1", FullName: "x", Password: ""},
		}
		for _, in := range cases {
			_, _, err := h.svc.Register(ctx, in)
			require.ErrorIs(t, err, ErrValidation)
		}
	})

	t.Run("configured admin email registers as admin", func(t *testing.T) {
		res, _ := h.register(t, "admin@example.com", "+2348030000099")
		require.Equal(t, domain.RoleAdmin, h.account(t, res.Account.ID).Role)
	})
}

func TestRegister_RollsBackWhenWalletFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.svc.Store = failingWalletStore{h.store}

	_, effects, err := h.svc.Register(context.Background(), RegisterInput{
		Email: "partial@example.com", Phone: "+10", FullName: "Partial", Password: testPassword,
	})
	require.Error(t, err)
	require.Empty(t, effects)
	require.Equal(t, KindInternal, KindOf(err))

	_, err = h.store.Accounts().GetAccountByEmail(context.Background(), "partial@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestConfirmEmail(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	res, code := h.register(t, "bob@example.com", "+2348030000002")

	_, err := h.svc.ConfirmEmail(ctx, "bob@example.com", wrongCode(code))
	require.ErrorIs(t, err, ErrOTPMismatch)
	require.False(t, h.account(t, res.Account.ID).EmailConfirmed)

	acct, err := h.svc.ConfirmEmail(ctx, "BOB@example.com", code)
	require.NoError(t, err)
	require.True(t, acct.EmailConfirmed)

	stored := h.account(t, res.Account.ID)
	require.True(t, stored.EmailConfirmed)
	require.Nil(t, stored.Challenge)

	_, err = h.svc.ConfirmEmail(ctx, "bob@example.com", code)
	require.ErrorIs(t, err, ErrAlreadyConfirmed)

	_, err = h.svc.ConfirmEmail(ctx, "nobody@example.com", code)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestConfirmEmail_Expired(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, code := h.register(t, "late@example.com", "+2348030000003")
	h.clock.Advance(DefaultChallengeTTL + time.Second)

	_, err := h.svc.ConfirmEmail(context.Background(), "late@example.com", code)
	require.ErrorIs(t, err, ErrOTPExpired)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	res := h.registerConfirmed(t, "carol@example.com", "+2348030000004")

	_, err := h.svc.ChangePassword(ctx, res.Account.ID, "wrong", "new-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = h.svc.ChangePassword(ctx, res.Account.ID, testPassword, "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.ChangePassword(ctx, "missing", testPassword, "new-password")
	require.ErrorIs(t, err, ErrAccountNotFound)

	effects, err := h.svc.ChangePassword(ctx, res.Account.ID, testPassword, "new-password")
	require.NoError(t, err)
	require.Len(t, effects, 1)
	require.Equal(t, notify.KindPasswordChanged, effects[0].Kind)

	_, _, err = h.svc.Login(ctx, "carol@example.com", testPassword)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = h.svc.Login(ctx, "carol@example.com", "new-password")
	require.NoError(t, err)
}

func TestGetProfileAndLookup(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	res := h.registerConfirmed(t, "dave@example.com", "+2348030000005")

	p, err := h.svc.GetProfile(ctx, res.Account.ID)
	require.NoError(t, err)
	require.Equal(t, "dave@example.com", p.Account.Email)
	require.Len(t, p.Wallets, 1)

	p, err = h.svc.LookupByEmail(ctx, "DAVE@example.com")
	require.NoError(t, err)
	require.Equal(t, res.Account.ID, p.Account.ID)

	_, err = h.svc.GetProfile(ctx, "missing")
	require.ErrorIs(t, err, ErrAccountNotFound)
}
