package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret NewHS256 accepts.
const MinSecretLength = 32

// HS256Config is the process-wide token configuration, loaded once at startup.
type HS256Config struct {
	Secret   []byte
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// HS256 signs and verifies session tokens with a shared HMAC secret.
// Tokens are bound to a fixed issuer and audience.
type HS256 struct {
	secret   []byte
	issuer   string
	audience []string
	leeway   time.Duration
}

func NewHS256(cfg HS256Config) (*HS256, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, ErrMissingConfig
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("jwtx: invalid leeway configuration")
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &HS256{
		secret:   secret,
		issuer:   cfg.Issuer,
		audience: []string{cfg.Audience},
		leeway:   cfg.Leeway,
	}, nil
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

func (h *HS256) Issuer() string     { return h.issuer }
func (h *HS256) Audience() []string { return h.audience }

// Sign turns claims into a signed compact JWT.
func (h *HS256) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.secret)
}

// Issue builds session claims for id and signs them.
func (h *HS256) Issue(id Identity, ttl time.Duration, now time.Time) (string, Claims, error) {
	claims := NewSessionClaims(id, h.issuer, h.audience, ttl, now)
	token, err := h.Sign(claims)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwtx: sign: %w", err)
	}
	return token, claims, nil
}

// Verify validates signature, issuer, audience and expiry. It does not check
// that the subject still exists.
func (h *HS256) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(), // exp/nbf/iss/aud checked below with our own errors
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return Claims{}, ErrInvalidSig
		}
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(h.audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryWithLeeway(h.leeway); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
