package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/notify"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/giftwallet/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct horse battery staple"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	svc    *AccountService
	store  *sqlite.Store
	tokens *jwtx.HS256
	clock  *fakeClock
}

// fastHash keeps bcrypt affordable in tests. VerifyPassword reads the cost
// from the hash, so production verification paths are unchanged.
func fastHash(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	return string(h), err
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := jwtx.NewHS256(jwtx.HS256Config{
		Secret:   []byte(strings.Repeat("k", jwtx.MinSecretLength)),
		Issuer:   "giftwallet-auth",
		Audience: "giftwallet-api",
	})
	require.NoError(t, err)

	clock := &fakeClock{t: time.Now().UTC()}

	return &harness{
		svc: &AccountService{
			Store:  st,
			Tokens: tokens,
			Hasher: fastHash,
			Config: Config{
				AdminEmail: "Admin@Example.com",
				SessionTTL: 24 * time.Hour,
			},
			Now: clock.Now,
		},
		store:  st,
		tokens: tokens,
		clock:  clock,
	}
}

// register creates an account and returns it with the signup code.
func (h *harness) register(t *testing.T, email, phone string) (RegisterResult, string) {
	t.Helper()

	res, effects, err := h.svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Phone:    phone,
		FullName: "Ada Lovelace",
		Password: testPassword,
	})
	require.NoError(t, err)
	require.Len(t, effects, 1)
	require.Equal(t, notify.KindSignup, effects[0].Kind)
	return res, effects[0].Code
}

// registerConfirmed creates an account whose email is already confirmed.
func (h *harness) registerConfirmed(t *testing.T, email, phone string) RegisterResult {
	t.Helper()

	res, code := h.register(t, email, phone)
	_, err := h.svc.ConfirmEmail(context.Background(), email, code)
	require.NoError(t, err)
	return res
}

// enableTwoFactor runs the enrollment flow for email.
func (h *harness) enableTwoFactor(t *testing.T, email string) {
	t.Helper()

	_, effects, err := h.svc.RequestOTP(context.Background(), Identifier{Email: email}, "enrollment")
	require.NoError(t, err)
	require.Len(t, effects, 1)

	acct, err := h.svc.SetTwoFactor(context.Background(), Identifier{Email: email}, effects[0].Code, true)
	require.NoError(t, err)
	require.True(t, acct.TwoFactorEnabled())
}

func (h *harness) account(t *testing.T, id string) domain.Account {
	t.Helper()
	acct, err := h.store.Accounts().GetAccountByID(context.Background(), id)
	require.NoError(t, err)
	return acct
}

// setChallenge plants a challenge with a known code.
func (h *harness) setChallenge(t *testing.T, accountID string, purpose domain.Purpose, code string, expiresAt time.Time) {
	t.Helper()
	hash, err := fastHash(code)
	require.NoError(t, err)
	require.NoError(t, h.store.Accounts().SetChallenge(context.Background(), accountID, domain.Challenge{
		Purpose:   purpose,
		Hash:      hash,
		ExpiresAt: expiresAt,
	}))
}

// wrongCode returns a well-formed code different from code.
func wrongCode(code string) string {
	if code == "0000" {
		return "1111"
	}
	return "0000"
}

// failingWalletStore fails every wallet insert made inside a transaction.
type failingWalletStore struct{ store.Store }

func (s failingWalletStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(failingWalletTx{txStore: tx})
	})
}

// txStore is named so the embedded field does not shadow the Tx method.
type txStore = store.Tx

type failingWalletTx struct{ txStore }

func (t failingWalletTx) Wallets() store.Wallets { return failingWallets{t.txStore.Wallets()} }

type failingWallets struct{ store.Wallets }

func (failingWallets) CreateWallet(context.Context, domain.Wallet) error {
	return errors.New("disk full")
}
