package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/limiter"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/pkg/cryptox"
	"github.com/aussiebroadwan/giftwallet/pkg/jwtx"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
	"github.com/pquerna/otp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultChallengeTTL applies to every purpose without an explicit TTL.
const DefaultChallengeTTL = 2 * time.Minute

const (
	DefaultCurrency = "USD"
	walletNumberLen = 10
)

var tracer = otel.Tracer("github.com/aussiebroadwan/giftwallet/internal/auth/service")

// TokenIssuer mints session tokens. *jwtx.HS256 satisfies it.
type TokenIssuer interface {
	Issue(id jwtx.Identity, ttl time.Duration, now time.Time) (string, jwtx.Claims, error)
}

// ChallengeTTLs holds the OTP validity per purpose. Zero fields fall back to
// DefaultChallengeTTL.
type ChallengeTTLs struct {
	EmailConfirm  time.Duration
	PasswordReset time.Duration
	TwoFactor     time.Duration
	PinReset      time.Duration
	Enrollment    time.Duration
}

// For returns the TTL configured for purpose p.
func (t ChallengeTTLs) For(p domain.Purpose) time.Duration {
	var d time.Duration
	switch p {
	case domain.PurposeEmailConfirm:
		d = t.EmailConfirm
	case domain.PurposePasswordReset:
		d = t.PasswordReset
	case domain.PurposeTwoFactor:
		d = t.TwoFactor
	case domain.PurposePinReset:
		d = t.PinReset
	case domain.PurposeEnrollment:
		d = t.Enrollment
	}
	if d <= 0 {
		return DefaultChallengeTTL
	}
	return d
}

// Config is the account service configuration, resolved once at startup.
type Config struct {
	// AdminEmail registers as RoleAdmin. Empty disables the bootstrap admin.
	AdminEmail      string
	SessionTTL      time.Duration
	OTPDigits       otp.Digits
	ChallengeTTLs   ChallengeTTLs
	DefaultCurrency string
}

// AccountService implements the account lifecycle: registration, email
// confirmation, login with an optional second factor, password and PIN
// resets. Every transition that mutates state runs in a single transaction
// and returns the notifications to send once it has committed.
type AccountService struct {
	Store   store.Store
	Tokens  TokenIssuer
	Hasher  cryptox.Hasher
	Limiter limiter.Limiter
	Config  Config

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Actor is the authenticated caller of a protected transition.
type Actor struct {
	ID   string
	Role domain.Role
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// Identifier selects an account by email or, when Email is empty, by phone.
type Identifier struct {
	Email string
	Phone string
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AccountService) hash(secret string) (string, error) {
	if s.Hasher != nil {
		return s.Hasher(secret)
	}
	return cryptox.HashPassword(secret)
}

func (s *AccountService) sessionTTL() time.Duration {
	if s.Config.SessionTTL > 0 {
		return s.Config.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

func (s *AccountService) otpDigits() otp.Digits {
	if s.Config.OTPDigits > 0 {
		return s.Config.OTPDigits
	}
	return cryptox.DefaultOTPDigits
}

func (s *AccountService) currency() string {
	if s.Config.DefaultCurrency != "" {
		return s.Config.DefaultCurrency
	}
	return DefaultCurrency
}

// allowAttempt charges one OTP attempt against the limiter. A limiter that
// cannot be reached does not block verification.
func (s *AccountService) allowAttempt(ctx context.Context, scope, identifier string) error {
	if s.Limiter == nil {
		return nil
	}
	err := s.Limiter.Allow(ctx, scope, identifier)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, limiter.ErrTooManyAttempts):
		return ErrTooManyAttempts
	default:
		slogx.FromContext(ctx).Warn("otp attempt limiter unavailable", "scope", scope, "err", err)
		return nil
	}
}

func (s *AccountService) resetAttempts(ctx context.Context, scope, identifier string) {
	if s.Limiter == nil {
		return
	}
	if err := s.Limiter.Reset(ctx, scope, identifier); err != nil {
		slogx.FromContext(ctx).Warn("failed to reset otp attempts", "scope", scope, "err", err)
	}
}

// issueSession signs a token for acct valid for the configured session TTL.
// Both instants come from the signed claims, which hold whole seconds, so
// ExpiresAt - IssuedAt is exactly the TTL.
func (s *AccountService) issueSession(acct domain.Account, now time.Time) (domain.Session, error) {
	token, claims, err := s.Tokens.Issue(jwtx.Identity{
		Subject:  acct.ID,
		Email:    acct.Email,
		FullName: acct.FullName,
		Role:     string(acct.Role),
	}, s.sessionTTL(), now)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return domain.Session{
		Token:     token,
		TokenType: "Bearer",
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func accountByID(ctx context.Context, st store.Store, id string) (domain.Account, error) {
	if id == "" {
		return domain.Account{}, ErrAccountNotFound
	}
	acct, err := st.Accounts().GetAccountByID(ctx, id)
	return acct, mapAccountErr(err)
}

func accountByEmail(ctx context.Context, st store.Store, email string) (domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Account{}, ErrAccountNotFound
	}
	acct, err := st.Accounts().GetAccountByEmail(ctx, email)
	return acct, mapAccountErr(err)
}

func accountByIdentifier(ctx context.Context, st store.Store, id Identifier) (domain.Account, error) {
	if id.Email != "" {
		return accountByEmail(ctx, st, id.Email)
	}
	if id.Phone == "" {
		return domain.Account{}, fmt.Errorf("%w: email or phone is required", ErrValidation)
	}
	acct, err := st.Accounts().GetAccountByPhone(ctx, id.Phone)
	return acct, mapAccountErr(err)
}

func mapAccountErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrAccountNotFound
	default:
		return fmt.Errorf("failed to load account: %w", err)
	}
}

func walletByNumber(ctx context.Context, st store.Store, number string) (domain.Wallet, error) {
	w, err := st.Wallets().GetWalletByNumber(ctx, number)
	switch {
	case err == nil:
		return w, nil
	case errors.Is(err, store.ErrNotFound):
		return domain.Wallet{}, ErrWalletNotFound
	default:
		return domain.Wallet{}, fmt.Errorf("failed to load wallet: %w", err)
	}
}

// endSpan records err on span unless it is an expected domain outcome.
func endSpan(span trace.Span, err error) {
	if err != nil {
		kind := KindOf(err)
		span.SetAttributes(errorKindAttr(kind))
		if kind == KindInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
