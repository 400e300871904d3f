package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/notify"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/pkg/cryptox"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

// LoginResult is either a session (TwoFactorRequired false) or a pending
// second factor, in which case Session is nil and only masked contact
// details are returned.
type LoginResult struct {
	Account domain.Account
	Wallets []domain.Wallet
	Session *domain.Session

	TwoFactorRequired bool
	MaskedPhone       string
	MaskedEmail       string

	// ExpiresIn is the session lifetime, or the challenge lifetime when a
	// second factor is required. ExpiresAt is the matching instant.
	ExpiresIn time.Duration
	ExpiresAt time.Time
}

// Login checks the password and either issues a session or, for accounts
// with two-factor enabled, sends a one-time code. The confirmation state is
// only revealed to callers that know the password.
func (s *AccountService) Login(ctx context.Context, email, password string) (res LoginResult, effects []notify.Effect, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.Login")
	defer func() { endSpan(span, err) }()

	now := s.now()
	var code string

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err := accountByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if err := cryptox.VerifyPassword(password, acct.PasswordHash); err != nil {
			return ErrInvalidCredentials
		}
		if !acct.EmailConfirmed {
			return ErrEmailUnconfirmed
		}

		res.Account = acct
		if acct.TwoFactorEnabled() {
			code, err = s.issueChallenge(ctx, tx, &res.Account, domain.PurposeTwoFactor, now)
			return err
		}

		res.Wallets, err = tx.Wallets().ListWalletsByAccount(ctx, acct.ID)
		if err != nil {
			return fmt.Errorf("failed to list wallets: %w", err)
		}
		return nil
	})
	if err != nil {
		return LoginResult{}, nil, err
	}

	acct := res.Account
	log := slogx.FromContext(ctx).With("account_id", acct.ID)

	if acct.TwoFactorEnabled() {
		res.Account.Challenge = nil
		res.TwoFactorRequired = true
		res.MaskedPhone = domain.MaskPhone(acct.Phone)
		res.MaskedEmail = domain.MaskEmail(acct.Email)
		res.ExpiresIn = acct.Challenge.ExpiresAt.Sub(now)
		res.ExpiresAt = acct.Challenge.ExpiresAt

		log.Info("login pending second factor")
		return res, []notify.Effect{
			notify.OTP(acct.ID, acct.Phone, acct.Email, code, acct.Challenge.ExpiresAt),
		}, nil
	}

	session, err := s.issueSession(acct, now)
	if err != nil {
		return LoginResult{}, nil, err
	}
	res.Session = &session
	res.ExpiresIn = session.ExpiresAt.Sub(session.IssuedAt)
	res.ExpiresAt = session.ExpiresAt

	log.Info("login succeeded")
	return res, nil, nil
}

// LoginTwoFactor completes a login started by Login for a two-factor
// account. The gates run in a fixed order: account, challenge expiry, email
// confirmation, two-factor enablement, code match.
func (s *AccountService) LoginTwoFactor(ctx context.Context, email, code string) (res LoginResult, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.LoginTwoFactor")
	defer func() { endSpan(span, err) }()

	now := s.now()

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err := accountByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if c := acct.Challenge; c != nil && c.Purpose == domain.PurposeTwoFactor && c.Expired(now) {
			return ErrOTPExpired
		}
		if !acct.EmailConfirmed {
			return ErrEmailUnconfirmed
		}
		if !acct.TwoFactorEnabled() {
			return ErrTwoFactorDisabled
		}
		if err := s.allowAttempt(ctx, "login_2fa", acct.ID); err != nil {
			return err
		}
		if err := s.checkChallenge(acct, domain.PurposeTwoFactor, code, now); err != nil {
			return err
		}

		if err := tx.Accounts().ClearChallenge(ctx, acct.ID); err != nil {
			return fmt.Errorf("failed to clear challenge: %w", err)
		}
		acct.Challenge = nil
		res.Account = acct

		res.Wallets, err = tx.Wallets().ListWalletsByAccount(ctx, acct.ID)
		if err != nil {
			return fmt.Errorf("failed to list wallets: %w", err)
		}
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}

	s.resetAttempts(ctx, "login_2fa", res.Account.ID)

	session, err := s.issueSession(res.Account, now)
	if err != nil {
		return LoginResult{}, err
	}
	res.Session = &session
	res.ExpiresIn = session.ExpiresAt.Sub(session.IssuedAt)
	res.ExpiresAt = session.ExpiresAt

	slogx.FromContext(ctx).Info("login succeeded", "account_id", res.Account.ID, "second_factor", true)
	return res, nil
}
