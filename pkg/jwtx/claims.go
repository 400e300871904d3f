package jwtx

import (
	"slices"
	"time"

	"github.com/aussiebroadwan/giftwallet/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the session token lifetime when none is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims are session-token claims.
type Claims struct {
	jwt.RegisteredClaims

	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Identity is the account data embedded into a session token.
type Identity struct {
	Subject  string
	Email    string
	FullName string
	Role     string
}

// NewSessionClaims builds claims for id valid from now until now+ttl.
func NewSessionClaims(
	id Identity,
	issuer string,
	audience []string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.Subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.NewAt(now).String(),
		},
		Email:    id.Email,
		FullName: id.FullName,
		Role:     id.Role,
	}
}

// Identity returns the account data carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{
		Subject:  c.Subject,
		Email:    c.Email,
		FullName: c.FullName,
		Role:     c.Role,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
