package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"
)

var (
	// ErrTwoFactorRequired is returned by Authenticate for two-factor accounts.
	ErrTwoFactorRequired = errors.New("two-factor login required")

	// ErrSessionExpired is returned before sending a request with an expired token.
	ErrSessionExpired = errors.New("session expired")
)

// Session is an authenticated session. Tokens are not refreshable; once
// the session expires the caller must log in again.
type Session struct {
	client *SDKClient

	mu        sync.RWMutex
	accountID string
	token     string
	expiresAt time.Time
}

// AccountID is the subject of the session token.
func (s *Session) AccountID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountID
}

// Token returns the bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Expired reports whether the token is past its advertised expiry.
func (s *Session) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.expiresAt.IsZero() && time.Now().After(s.expiresAt)
}

func (s *Session) call(ctx context.Context, method, path string, body, target any, expectedStatus int) error {
	if s.Expired() {
		return ErrSessionExpired
	}
	headers := map[string]string{"Authorization": "Bearer " + s.Token()}
	return s.client.call(ctx, method, path, body, headers, target, expectedStatus)
}

// GetProfile returns an account and its wallets. Only the owner or an
// admin may read it.
func (s *Session) GetProfile(ctx context.Context, accountID string) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := s.call(ctx, http.MethodGet, accountPath(accountID), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the password of accountID.
func (s *Session) ChangePassword(ctx context.Context, accountID string, req ChangePasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := s.call(ctx, http.MethodPut, accountPath(accountID)+"/password", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeWalletPin replaces the PIN of a wallet owned by the session.
func (s *Session) ChangeWalletPin(ctx context.Context, walletNumber string, req ChangePinRequest) (*WalletResponse, error) {
	var out WalletResponse
	path := "/v1/wallets/" + url.PathEscape(walletNumber) + "/pin"
	if err := s.call(ctx, http.MethodPut, path, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupAccount finds an account by email. Requires the admin role.
func (s *Session) LookupAccount(ctx context.Context, email string) (*ProfileResponse, error) {
	var out ProfileResponse
	path := "/v1/admin/accounts?" + url.Values{"email": {email}}.Encode()
	if err := s.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
