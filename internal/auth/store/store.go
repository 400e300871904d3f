package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// Sub-repositories are exposed as methods so a transaction-scoped Store can
// hand out the same repos bound to the open transaction.
type Store interface {
	Accounts() Accounts
	Wallets() Wallets

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account. Returns ErrAlreadyExists when the
	// email or phone is already registered.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail expects an already normalized email.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	GetAccountByPhone(ctx context.Context, phone string) (domain.Account, error)

	// UpdatePasswordHash sets password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID, hash string) error

	// MarkEmailConfirmed flips email_confirmed to true. It never sets it back.
	MarkEmailConfirmed(ctx context.Context, accountID string) error

	SetTwoFactor(ctx context.Context, accountID string, state domain.TwoFactorState) error

	// SetChallenge replaces the outstanding challenge. Purpose, hash and
	// expiry are written in a single statement.
	SetChallenge(ctx context.Context, accountID string, c domain.Challenge) error

	// ClearChallenge removes the outstanding challenge, if any.
	ClearChallenge(ctx context.Context, accountID string) error

	// ScrubExpiredChallenges blanks the hash of every challenge that expired
	// before now. Purpose and expiry stay so verification still reports the
	// challenge as expired. Returns the number of accounts touched.
	ScrubExpiredChallenges(ctx context.Context, now time.Time) (int64, error)
}

type Wallets interface {
	// CreateWallet inserts a new wallet. Returns ErrAlreadyExists when the
	// wallet number collides.
	CreateWallet(ctx context.Context, w domain.Wallet) error

	GetWalletByNumber(ctx context.Context, number string) (domain.Wallet, error)

	// ListWalletsByAccount returns the account's wallets oldest first.
	ListWalletsByAccount(ctx context.Context, accountID string) ([]domain.Wallet, error)

	// UpdatePinHash sets pin_hash and bumps updated_at.
	UpdatePinHash(ctx context.Context, walletID, hash string) error
}
