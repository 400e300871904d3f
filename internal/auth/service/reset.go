package service

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/notify"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

// RequestPasswordReset sends a password reset code to the account's email.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (effects []notify.Effect, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.RequestPasswordReset")
	defer func() { endSpan(span, err) }()

	var (
		acct domain.Account
		code string
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err = accountByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		code, err = s.issueChallenge(ctx, tx, &acct, domain.PurposePasswordReset, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("password reset requested", "account_id", acct.ID)
	return []notify.Effect{
		notify.PasswordReset(acct.ID, acct.Email, code, acct.Challenge.ExpiresAt),
	}, nil
}

// ResetPasswordInput identifies the account by ID or, when AccountID is
// empty, by email.
type ResetPasswordInput struct {
	AccountID   string
	Email       string
	Code        string
	NewPassword string
}

// ResetPassword consumes a password reset code and sets a new password.
func (s *AccountService) ResetPassword(ctx context.Context, in ResetPasswordInput) (effects []notify.Effect, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.ResetPassword")
	defer func() { endSpan(span, err) }()

	if in.NewPassword == "" {
		return nil, fmt.Errorf("%w: new password is required", ErrValidation)
	}

	var acct domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if in.AccountID != "" {
			acct, err = accountByID(ctx, tx, in.AccountID)
		} else {
			acct, err = accountByEmail(ctx, tx, in.Email)
		}
		if err != nil {
			return err
		}
		if err := s.allowAttempt(ctx, "password_reset", acct.ID); err != nil {
			return err
		}
		if err := s.checkChallenge(acct, domain.PurposePasswordReset, in.Code, s.now()); err != nil {
			return err
		}

		if err := s.replacePassword(ctx, tx, acct.ID, in.NewPassword); err != nil {
			return err
		}
		if err := tx.Accounts().ClearChallenge(ctx, acct.ID); err != nil {
			return fmt.Errorf("failed to clear challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.resetAttempts(ctx, "password_reset", acct.ID)
	slogx.FromContext(ctx).Info("password reset", "account_id", acct.ID)
	return []notify.Effect{notify.Notice(acct.ID, acct.Email, notify.KindPasswordChanged)}, nil
}
