package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/notify"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

type RequestOTPResult struct {
	Purpose   domain.Purpose
	ExpiresAt time.Time
	// Minutes is the remaining validity in whole minutes.
	Minutes int
}

// RequestOTP issues a standalone code for two-factor enrollment, a PIN reset
// or, for an unconfirmed account, a fresh email confirmation. An empty
// purpose means enrollment. Every other purpose needs a confirmed email.
func (s *AccountService) RequestOTP(ctx context.Context, id Identifier, purpose string) (res RequestOTPResult, effects []notify.Effect, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.RequestOTP")
	defer func() { endSpan(span, err) }()

	p, ok := domain.ParsePurpose(purpose)
	if !ok {
		return RequestOTPResult{}, nil, ErrInvalidPurpose
	}
	span.SetAttributes(purposeAttr(string(p)))

	now := s.now()
	var (
		acct domain.Account
		code string
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err = accountByIdentifier(ctx, tx, id)
		if err != nil {
			return err
		}
		switch {
		case p == domain.PurposeEmailConfirm && acct.EmailConfirmed:
			return ErrAlreadyConfirmed
		case p != domain.PurposeEmailConfirm && !acct.EmailConfirmed:
			return ErrEmailUnconfirmed
		}
		code, err = s.issueChallenge(ctx, tx, &acct, p, now)
		return err
	})
	if err != nil {
		return RequestOTPResult{}, nil, err
	}

	expiresAt := acct.Challenge.ExpiresAt
	slogx.FromContext(ctx).Info("otp issued", "account_id", acct.ID, "purpose", string(p))

	res = RequestOTPResult{
		Purpose:   p,
		ExpiresAt: expiresAt,
		Minutes:   int(expiresAt.Sub(now) / time.Minute),
	}
	effect := notify.OTP(acct.ID, acct.Phone, acct.Email, code, expiresAt)
	if p == domain.PurposeEmailConfirm {
		effect = notify.Signup(acct.ID, acct.Email, acct.FullName, code, expiresAt)
	}
	return res, []notify.Effect{effect}, nil
}

// SetTwoFactor enables or disables the second factor after verifying an
// enrollment code. The challenge is cleared either way.
func (s *AccountService) SetTwoFactor(ctx context.Context, id Identifier, code string, enabled bool) (acct domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.SetTwoFactor")
	defer func() { endSpan(span, err) }()

	state := domain.TwoFactorDisabled
	if enabled {
		state = domain.TwoFactorEnabled
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err = accountByIdentifier(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.allowAttempt(ctx, "enrollment", acct.ID); err != nil {
			return err
		}
		if err := s.checkChallenge(acct, domain.PurposeEnrollment, code, s.now()); err != nil {
			return err
		}

		if err := tx.Accounts().SetTwoFactor(ctx, acct.ID, state); err != nil {
			return fmt.Errorf("failed to update two-factor state: %w", err)
		}
		if err := tx.Accounts().ClearChallenge(ctx, acct.ID); err != nil {
			return fmt.Errorf("failed to clear challenge: %w", err)
		}
		acct.TwoFactor = state
		acct.Challenge = nil
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	s.resetAttempts(ctx, "enrollment", acct.ID)
	slogx.FromContext(ctx).Info("two-factor updated", "account_id", acct.ID, "state", state.String())
	return acct, nil
}
