package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WebhookSecretHeader carries the shared secret on webhook calls.
const WebhookSecretHeader = "X-Webhook-Secret"

// SDKClient is a client for the giftwallet auth service. It provides the
// public account flows and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account. A confirmation code is sent to the email.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.call(ctx, http.MethodPost, "/v1/auth/register", req, nil, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmEmail consumes the confirmation code sent on registration.
func (c *SDKClient) ConfirmEmail(ctx context.Context, email, otp string) (*AccountResponse, error) {
	var out AccountResponse
	req := ConfirmEmailRequest{Email: email, OTP: otp}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/confirm-email", req, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email and password. For accounts with two-factor
// enabled the response has TwoFactorRequired set and no token; finish with
// LoginTwoFactor.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/login", req, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginTwoFactor completes a two-factor login.
func (c *SDKClient) LoginTwoFactor(ctx context.Context, email, otp string) (*LoginResponse, error) {
	var out LoginResponse
	req := LoginTwoFactorRequest{Email: email, OTP: otp}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/login/2fa", req, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate logs in and returns a Session. It fails with
// ErrTwoFactorRequired for two-factor accounts.
func (c *SDKClient) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if resp.TwoFactorRequired {
		return nil, ErrTwoFactorRequired
	}
	return c.NewSession(resp), nil
}

// ForgotPassword sends a password reset code to email.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	req := ForgotPasswordRequest{Email: email}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/password/forgot", req, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password using a reset code.
func (c *SDKClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.call(ctx, http.MethodPost, "/v1/auth/password/reset", req, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestOTP issues a standalone one-time code.
func (c *SDKClient) RequestOTP(ctx context.Context, req RequestOTPRequest) (*OTPResponse, error) {
	var out OTPResponse
	if err := c.call(ctx, http.MethodPost, "/v1/auth/otp", req, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTwoFactor enables or disables two-factor login with an enrollment code.
func (c *SDKClient) SetTwoFactor(ctx context.Context, req TwoFactorRequest) (*AccountResponse, error) {
	var out AccountResponse
	if err := c.call(ctx, http.MethodPost, "/v1/auth/2fa", req, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPin sets a wallet PIN using a pin_reset code.
func (c *SDKClient) ResetPin(ctx context.Context, req ResetPinRequest) (*WalletResponse, error) {
	var out WalletResponse
	if err := c.call(ctx, http.MethodPost, "/v1/wallets/pin/reset", req, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendWalletWebhook posts a wallet event with the shared secret.
func (c *SDKClient) SendWalletWebhook(ctx context.Context, secret string, req WalletWebhookRequest) (*MessageResponse, error) {
	var out MessageResponse
	headers := map[string]string{WebhookSecretHeader: secret}
	if err := c.call(ctx, http.MethodPost, "/v1/webhooks/wallet", req, headers, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewSession creates an authenticated session from a login response.
func (c *SDKClient) NewSession(resp *LoginResponse) *Session {
	return &Session{
		client:    c,
		accountID: resp.Data.ID,
		token:     resp.Token,
		expiresAt: resp.ExpiresAt,
	}
}

// NewSessionFromToken creates a session from a token obtained elsewhere.
func (c *SDKClient) NewSessionFromToken(accountID, token string, expiresAt time.Time) *Session {
	return &Session{
		client:    c,
		accountID: accountID,
		token:     token,
		expiresAt: expiresAt,
	}
}

func accountPath(id string) string {
	return "/v1/users/" + url.PathEscape(id)
}
