package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/notify"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/pkg/cryptox"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

type ResetPinInput struct {
	WalletNumber string
	Code         string
	NewPin       int
}

// ResetPin sets a wallet PIN using a pin_reset code sent to the owner.
// The PIN is validated before anything else is looked up.
func (s *AccountService) ResetPin(ctx context.Context, in ResetPinInput) (wallet domain.Wallet, effects []notify.Effect, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.ResetPin")
	defer func() { endSpan(span, err) }()

	if cryptox.ValidatePIN(in.NewPin) != nil {
		return domain.Wallet{}, nil, ErrInvalidPIN
	}
	number := strings.TrimSpace(in.WalletNumber)
	if number == "" {
		return domain.Wallet{}, nil, ErrInvalidWalletNumber
	}

	var acct domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		wallet, err = walletByNumber(ctx, tx, number)
		if err != nil {
			return err
		}
		acct, err = accountByID(ctx, tx, wallet.AccountID)
		if err != nil {
			return err
		}
		if err := s.allowAttempt(ctx, "pin_reset", wallet.Number); err != nil {
			return err
		}
		if err := s.checkChallenge(acct, domain.PurposePinReset, in.Code, s.now()); err != nil {
			return err
		}

		if err := s.replacePin(ctx, tx, &wallet, in.NewPin); err != nil {
			return err
		}
		if err := tx.Accounts().ClearChallenge(ctx, acct.ID); err != nil {
			return fmt.Errorf("failed to clear challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Wallet{}, nil, err
	}

	s.resetAttempts(ctx, "pin_reset", wallet.Number)
	slogx.FromContext(ctx).Info("wallet pin reset", "account_id", acct.ID, "wallet_id", wallet.ID)
	return wallet, []notify.Effect{notify.Notice(acct.ID, acct.Email, notify.KindPinChanged)}, nil
}

type ChangePinInput struct {
	WalletNumber string
	CurrentPin   int
	NewPin       int
}

// ChangeWalletPin replaces a wallet PIN after checking the current one. A
// wallet without a PIN only accepts a current PIN of 0. Wallets owned by
// someone else are reported as not found unless the actor is an admin.
func (s *AccountService) ChangeWalletPin(ctx context.Context, actor Actor, in ChangePinInput) (wallet domain.Wallet, effects []notify.Effect, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.ChangeWalletPin")
	defer func() { endSpan(span, err) }()

	if cryptox.ValidatePIN(in.NewPin) != nil {
		return domain.Wallet{}, nil, ErrInvalidPIN
	}
	number := strings.TrimSpace(in.WalletNumber)
	if number == "" {
		return domain.Wallet{}, nil, ErrInvalidWalletNumber
	}

	var acct domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		wallet, err = walletByNumber(ctx, tx, number)
		if err != nil {
			return err
		}
		if wallet.AccountID != actor.ID && !actor.IsAdmin() {
			return ErrWalletNotFound
		}
		acct, err = accountByID(ctx, tx, wallet.AccountID)
		if err != nil {
			return err
		}

		if err := verifyCurrentPin(wallet, in.CurrentPin); err != nil {
			return err
		}
		return s.replacePin(ctx, tx, &wallet, in.NewPin)
	})
	if err != nil {
		return domain.Wallet{}, nil, err
	}

	slogx.FromContext(ctx).Info("wallet pin changed",
		"account_id", acct.ID,
		"actor_id", actor.ID,
		"wallet_id", wallet.ID,
	)
	return wallet, []notify.Effect{notify.Notice(acct.ID, acct.Email, notify.KindPinChanged)}, nil
}

func verifyCurrentPin(w domain.Wallet, current int) error {
	if !w.HasPin() {
		if current == 0 {
			return nil
		}
		return ErrPinMismatch
	}
	if err := cryptox.VerifyPIN(current, w.PinHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrPinMismatch
		}
		return fmt.Errorf("failed to verify pin: %w", err)
	}
	return nil
}

func (s *AccountService) replacePin(ctx context.Context, tx store.Store, w *domain.Wallet, pin int) error {
	hash, err := s.hash(cryptox.FormatPIN(pin))
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}
	if err := tx.Wallets().UpdatePinHash(ctx, w.ID, hash); err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	w.PinHash = hash
	w.UpdatedAt = s.now()
	return nil
}
