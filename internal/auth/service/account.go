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
	"github.com/aussiebroadwan/giftwallet/pkg/idx"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

const walletNumberAttempts = 3

type RegisterInput struct {
	Email    string
	Phone    string
	FullName string
	Password string
}

type RegisterResult struct {
	Account domain.Account
	Wallet  domain.Wallet
}

// Profile is an account together with its wallets.
type Profile struct {
	Account domain.Account
	Wallets []domain.Wallet
}

// Register creates an unconfirmed account with its default wallet and an
// email confirmation challenge. Nothing is persisted unless all three succeed.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (res RegisterResult, effects []notify.Effect, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.Register")
	defer func() { endSpan(span, err) }()

	email := domain.NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)
	fullName := strings.TrimSpace(in.FullName)
	if !strings.Contains(email, "@") || phone == "" || fullName == "" || in.Password == "" {
		return RegisterResult{}, nil, fmt.Errorf("%w: email, phone, full name and password are required", ErrValidation)
	}

	passwordHash, err := s.hash(in.Password)
	if errors.Is(err, cryptox.ErrPasswordTooLong) {
		return RegisterResult{}, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		return RegisterResult{}, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleStandard
	if s.Config.AdminEmail != "" && email == domain.NormalizeEmail(s.Config.AdminEmail) {
		role = domain.RoleAdmin
	}

	now := s.now()
	acct := domain.Account{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		Phone:        phone,
		FullName:     fullName,
		Role:         role,
		PasswordHash: passwordHash,
		TwoFactor:    domain.TwoFactorDisabled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var code string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Accounts().GetAccountByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if _, err := tx.Accounts().GetAccountByPhone(ctx, phone); err == nil {
			return ErrPhoneTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to check phone: %w", err)
		}

		var c domain.Challenge
		var err error
		code, c, err = s.newChallenge(domain.PurposeEmailConfirm, now)
		if err != nil {
			return err
		}
		acct.Challenge = &c

		if err := tx.Accounts().CreateAccount(ctx, acct); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create account: %w", err)
		}

		res.Wallet, err = s.createWallet(ctx, tx, acct.ID)
		return err
	})
	if err != nil {
		return RegisterResult{}, nil, err
	}

	res.Account = acct
	slogx.FromContext(ctx).Info("account registered",
		"account_id", acct.ID,
		"role", string(acct.Role),
		"wallet_id", res.Wallet.ID,
	)

	return res, []notify.Effect{
		notify.Signup(acct.ID, acct.Email, acct.FullName, code, acct.Challenge.ExpiresAt),
	}, nil
}

// createWallet inserts a wallet with a fresh random number, retrying on the
// rare number collision.
func (s *AccountService) createWallet(ctx context.Context, tx store.Store, accountID string) (domain.Wallet, error) {
	now := s.now()
	for range walletNumberAttempts {
		number, err := cryptox.RandomDigits(walletNumberLen)
		if err != nil {
			return domain.Wallet{}, err
		}

		w := domain.Wallet{
			ID:        idx.NewAt(now).String(),
			Number:    number,
			AccountID: accountID,
			Currency:  s.currency(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = tx.Wallets().CreateWallet(ctx, w)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return domain.Wallet{}, fmt.Errorf("failed to create wallet: %w", err)
		}
	}
	return domain.Wallet{}, errors.New("failed to allocate a unique wallet number")
}

// ConfirmEmail consumes the email confirmation challenge. Confirmation
// happens at most once.
func (s *AccountService) ConfirmEmail(ctx context.Context, email, code string) (acct domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.ConfirmEmail")
	defer func() { endSpan(span, err) }()

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err = accountByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if acct.EmailConfirmed {
			return ErrAlreadyConfirmed
		}
		if err := s.allowAttempt(ctx, "confirm_email", acct.ID); err != nil {
			return err
		}
		if err := s.checkChallenge(acct, domain.PurposeEmailConfirm, code, s.now()); err != nil {
			return err
		}

		if err := tx.Accounts().MarkEmailConfirmed(ctx, acct.ID); err != nil {
			return fmt.Errorf("failed to confirm email: %w", err)
		}
		if err := tx.Accounts().ClearChallenge(ctx, acct.ID); err != nil {
			return fmt.Errorf("failed to clear challenge: %w", err)
		}
		acct.EmailConfirmed = true
		acct.Challenge = nil
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	s.resetAttempts(ctx, "confirm_email", acct.ID)
	slogx.FromContext(ctx).Info("email confirmed", "account_id", acct.ID)
	return acct, nil
}

// ChangePassword replaces the password of an authenticated account after
// checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, current, next string) (effects []notify.Effect, err error) {
	ctx, span := tracer.Start(ctx, "AccountService.ChangePassword")
	defer func() { endSpan(span, err) }()

	if next == "" {
		return nil, fmt.Errorf("%w: new password is required", ErrValidation)
	}

	var acct domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err = accountByID(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if err := cryptox.VerifyPassword(current, acct.PasswordHash); err != nil {
			return ErrInvalidCredentials
		}
		return s.replacePassword(ctx, tx, acct.ID, next)
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("password changed", "account_id", acct.ID)
	return []notify.Effect{notify.Notice(acct.ID, acct.Email, notify.KindPasswordChanged)}, nil
}

func (s *AccountService) replacePassword(ctx context.Context, tx store.Store, accountID, password string) error {
	hash, err := s.hash(password)
	if errors.Is(err, cryptox.ErrPasswordTooLong) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := tx.Accounts().UpdatePasswordHash(ctx, accountID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// GetProfile returns the account and its wallets.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (Profile, error) {
	acct, err := accountByID(ctx, s.Store, accountID)
	if err != nil {
		return Profile{}, err
	}
	return s.profile(ctx, s.Store, acct)
}

// LookupByEmail is the admin lookup of an account by email.
func (s *AccountService) LookupByEmail(ctx context.Context, email string) (Profile, error) {
	acct, err := accountByEmail(ctx, s.Store, email)
	if err != nil {
		return Profile{}, err
	}
	return s.profile(ctx, s.Store, acct)
}

func (s *AccountService) profile(ctx context.Context, st store.Store, acct domain.Account) (Profile, error) {
	wallets, err := st.Wallets().ListWalletsByAccount(ctx, acct.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to list wallets: %w", err)
	}
	return Profile{Account: acct, Wallets: wallets}, nil
}
