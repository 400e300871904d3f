package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/giftwallet/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newAccount(email, phone string) domain.Account {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		Phone:        phone,
		FullName:     "Test User",
		Role:         domain.RoleStandard,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMigrations(t *testing.T) {
	s := newTestStore(t)

	// Idempotent.
	require.NoError(t, s.ApplyMigrations())

	version, dirty, err := s.SchemaVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(2), version)
}

func TestAccounts_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newAccount("ada@example.com", "+2348030000001")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	byID, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Email, byID.Email)
	require.Equal(t, domain.RoleStandard, byID.Role)
	require.False(t, byID.EmailConfirmed)
	require.Nil(t, byID.Challenge)

	byEmail, err := s.Accounts().GetAccountByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, a.ID, byEmail.ID)

	byPhone, err := s.Accounts().GetAccountByPhone(ctx, "+2348030000001")
	require.NoError(t, err)
	require.Equal(t, a.ID, byPhone.ID)

	_, err = s.Accounts().GetAccountByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccounts_UniqueEmailAndPhone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Accounts().CreateAccount(ctx, newAccount("a@example.com", "1")))

	err := s.Accounts().CreateAccount(ctx, newAccount("a@example.com", "2"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	err = s.Accounts().CreateAccount(ctx, newAccount("b@example.com", "1"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAccounts_ChallengeLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newAccount("c@example.com", "3")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	expires := time.Now().UTC().Add(2 * time.Minute).Truncate(time.Second)
	require.NoError(t, s.Accounts().SetChallenge(ctx, a.ID, domain.Challenge{
		Purpose:   domain.PurposeEnrollment,
		Hash:      "hash",
		ExpiresAt: expires,
	}))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Challenge)
	require.Equal(t, domain.PurposeEnrollment, got.Challenge.Purpose)
	require.Equal(t, "hash", got.Challenge.Hash)
	require.True(t, expires.Equal(got.Challenge.ExpiresAt))

	require.NoError(t, s.Accounts().ClearChallenge(ctx, a.ID))
	got, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Nil(t, got.Challenge)

	require.ErrorIs(t, s.Accounts().ClearChallenge(ctx, "missing"), store.ErrNotFound)
}

func TestAccounts_FlagsAndPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newAccount("d@example.com", "4")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	require.NoError(t, s.Accounts().MarkEmailConfirmed(ctx, a.ID))
	require.NoError(t, s.Accounts().SetTwoFactor(ctx, a.ID, domain.TwoFactorEnabled))
	require.NoError(t, s.Accounts().UpdatePasswordHash(ctx, a.ID, "new-hash"))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.EmailConfirmed)
	require.True(t, got.TwoFactorEnabled())
	require.Equal(t, "new-hash", got.PasswordHash)

	require.ErrorIs(t, s.Accounts().UpdatePasswordHash(ctx, "missing", "x"), store.ErrNotFound)
}

func TestAccounts_ScrubExpiredChallenges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	expired := newAccount("e1@example.com", "51")
	live := newAccount("e2@example.com", "52")
	require.NoError(t, s.Accounts().CreateAccount(ctx, expired))
	require.NoError(t, s.Accounts().CreateAccount(ctx, live))

	require.NoError(t, s.Accounts().SetChallenge(ctx, expired.ID, domain.Challenge{
		Purpose: domain.PurposeTwoFactor, Hash: "h1", ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, s.Accounts().SetChallenge(ctx, live.ID, domain.Challenge{
		Purpose: domain.PurposeTwoFactor, Hash: "h2", ExpiresAt: now.Add(time.Minute),
	}))

	n, err := s.Accounts().ScrubExpiredChallenges(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := s.Accounts().GetAccountByID(ctx, expired.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Challenge)
	require.Equal(t, domain.PurposeTwoFactor, got.Challenge.Purpose)
	require.Empty(t, got.Challenge.Hash)
	require.WithinDuration(t, now.Add(-time.Minute), got.Challenge.ExpiresAt, time.Second)

	// Already scrubbed rows are not touched again.
	n, err = s.Accounts().ScrubExpiredChallenges(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)

	got, err = s.Accounts().GetAccountByID(ctx, live.ID)
	require.NoError(t, err)
	require.Equal(t, "h2", got.Challenge.Hash)
}

func TestWallets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newAccount("w@example.com", "6")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	now := time.Now().UTC()
	w := domain.Wallet{
		ID:        idx.New().String(),
		Number:    "0123456789",
		AccountID: a.ID,
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Wallets().CreateWallet(ctx, w))

	dup := w
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Wallets().CreateWallet(ctx, dup), store.ErrAlreadyExists)

	got, err := s.Wallets().GetWalletByNumber(ctx, "0123456789")
	require.NoError(t, err)
	require.Equal(t, w.ID, got.ID)
	require.False(t, got.HasPin())

	require.NoError(t, s.Wallets().UpdatePinHash(ctx, w.ID, "pin-hash"))
	list, err := s.Wallets().ListWalletsByAccount(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "pin-hash", list[0].PinHash)

	_, err = s.Wallets().GetWalletByNumber(ctx, "9999999999")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newAccount("tx@example.com", "7")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, a); err != nil {
			return err
		}
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().CreateAccount(ctx, a)
	}))
	_, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
}
