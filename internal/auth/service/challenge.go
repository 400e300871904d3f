package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/pkg/cryptox"
)

// newChallenge generates a fresh code for purpose and its stored form. The
// plaintext code is only ever handed to the notifier.
func (s *AccountService) newChallenge(purpose domain.Purpose, now time.Time) (string, domain.Challenge, error) {
	code, err := cryptox.GenerateOTP(s.otpDigits())
	if err != nil {
		return "", domain.Challenge{}, err
	}
	hash, err := s.hash(code)
	if err != nil {
		return "", domain.Challenge{}, fmt.Errorf("failed to hash otp: %w", err)
	}

	return code, domain.Challenge{
		Purpose:   purpose,
		Hash:      hash,
		ExpiresAt: now.Add(s.Config.ChallengeTTLs.For(purpose)),
	}, nil
}

// issueChallenge replaces the account's outstanding challenge.
func (s *AccountService) issueChallenge(ctx context.Context, tx store.Store, acct *domain.Account, purpose domain.Purpose, now time.Time) (string, error) {
	code, c, err := s.newChallenge(purpose, now)
	if err != nil {
		return "", err
	}
	if err := tx.Accounts().SetChallenge(ctx, acct.ID, c); err != nil {
		return "", fmt.Errorf("failed to store challenge: %w", err)
	}
	acct.Challenge = &c
	return code, nil
}

// checkChallenge verifies code against the outstanding challenge for
// purpose. A missing challenge or one for another purpose is ErrOTPMismatch.
// A challenge for purpose past its expiry is ErrOTPExpired whatever the
// code, so the outcome is the same before and after housekeeping blanks
// its hash. Otherwise a wrong code is ErrOTPMismatch.
func (s *AccountService) checkChallenge(acct domain.Account, purpose domain.Purpose, code string, now time.Time) error {
	c := acct.Challenge
	if c == nil || c.Purpose != purpose {
		return ErrOTPMismatch
	}
	if c.Expired(now) {
		return ErrOTPExpired
	}
	if !cryptox.WellFormedOTP(code, s.otpDigits()) || !cryptox.VerifyOTP(code, c.Hash, c.ExpiresAt, now) {
		return ErrOTPMismatch
	}
	return nil
}
