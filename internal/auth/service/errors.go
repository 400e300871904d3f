package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/giftwallet/internal/auth/limiter"
)

var (
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrWalletNotFound     = errors.New("wallet_not_found")
	ErrEmailTaken         = errors.New("email_taken")
	ErrPhoneTaken         = errors.New("phone_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailUnconfirmed   = errors.New("email_unconfirmed")
	ErrAlreadyConfirmed   = errors.New("email_already_confirmed")
	ErrOTPExpired         = errors.New("otp_expired")
	ErrOTPMismatch        = errors.New("otp_mismatch")
	ErrTwoFactorDisabled  = errors.New("two_factor_disabled")
	ErrPinMismatch        = errors.New("pin_mismatch")
	ErrValidation         = errors.New("validation_failed")
	ErrTooManyAttempts    = errors.New("too_many_attempts")

	ErrInvalidPIN          = fmt.Errorf("invalid_pin: %w", ErrValidation)
	ErrInvalidWalletNumber = fmt.Errorf("invalid_wallet_number: %w", ErrValidation)
	ErrInvalidPurpose      = fmt.Errorf("invalid_purpose: %w", ErrValidation)
)

// Kind is the coarse class of a service error, used by transports to pick a
// status code.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidCredential
	KindExpired
	KindUnauthorized
	KindUnconfirmed
	KindValidation
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindExpired:
		return "expired"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnconfirmed:
		return "unconfirmed"
	case KindValidation:
		return "validation"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrAccountNotFound, KindNotFound},
	{ErrWalletNotFound, KindNotFound},
	{ErrEmailTaken, KindConflict},
	{ErrPhoneTaken, KindConflict},
	{ErrAlreadyConfirmed, KindConflict},
	{ErrInvalidCredentials, KindInvalidCredential},
	{ErrOTPMismatch, KindInvalidCredential},
	{ErrPinMismatch, KindInvalidCredential},
	{ErrOTPExpired, KindExpired},
	{ErrTwoFactorDisabled, KindUnauthorized},
	{ErrEmailUnconfirmed, KindUnconfirmed},
	{ErrValidation, KindValidation},
	{ErrTooManyAttempts, KindRateLimited},
	{limiter.ErrTooManyAttempts, KindRateLimited},
}

// KindOf classifies err. Anything unrecognised is KindInternal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
