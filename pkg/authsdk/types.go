package authsdk

import "time"

// ============================================================================
// Accounts
// ============================================================================

// Account is the public view of an account. Password, PIN and OTP hashes
// never leave the service.
type Account struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Phone          string    `json:"phoneNumber"`
	FullName       string    `json:"fullName"`
	Role           string    `json:"role"`
	EmailConfirmed bool      `json:"emailConfirmed"`
	TwoFactor      bool      `json:"is2FactorEnabled"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Wallet is the public view of a wallet.
type Wallet struct {
	ID        string    `json:"id"`
	Number    string    `json:"walletNumber"`
	Currency  string    `json:"currency"`
	HasPin    bool      `json:"hasPin"`
	CreatedAt time.Time `json:"createdAt"`
}

// ============================================================================
// Requests
// ============================================================================

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phoneNumber"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// ConfirmEmailRequest is the body of POST /v1/auth/confirm-email.
type ConfirmEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginTwoFactorRequest is the body of POST /v1/auth/login/2fa.
type LoginTwoFactorRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ForgotPasswordRequest is the body of POST /v1/auth/password/forgot.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /v1/auth/password/reset. The
// account is identified by ID or, when ID is empty, by email.
type ResetPasswordRequest struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email,omitempty"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

// RequestOTPRequest is the body of POST /v1/auth/otp. Purpose is one of
// "enrollment" (default), "pin_reset" or "email_confirm".
type RequestOTPRequest struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phoneNumber,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// TwoFactorRequest is the body of POST /v1/auth/2fa.
type TwoFactorRequest struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phoneNumber,omitempty"`
	OTP     string `json:"otp"`
	Enabled bool   `json:"enabled"`
}

// ResetPinRequest is the body of POST /v1/wallets/pin/reset.
type ResetPinRequest struct {
	WalletNumber string `json:"walletNumber"`
	OTP          string `json:"otp"`
	Pin          int    `json:"pin"`
}

// ChangePinRequest is the body of PUT /v1/wallets/{number}/pin. OldPin is
// 0 for a wallet that has no PIN yet.
type ChangePinRequest struct {
	OldPin int `json:"oldPin"`
	NewPin int `json:"newPin"`
}

// ChangePasswordRequest is the body of PUT /v1/users/{id}/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// WalletWebhookRequest is an event pushed by the wallet ledger.
type WalletWebhookRequest struct {
	Event        string `json:"event"`
	WalletNumber string `json:"walletNumber"`
	Reference    string `json:"reference,omitempty"`
}

// ============================================================================
// Responses
// ============================================================================

// MessageResponse is the envelope of every response without a payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    Account `json:"data"`
	Wallet  Wallet  `json:"wallet"`
}

// LoginResponse is either a session (TwoFactorRequired false, Token set) or
// a pending second factor, in which case Token is empty and ExpiresIn is the
// validity of the code that was sent.
type LoginResponse struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	TwoFactorRequired bool     `json:"is2FactorEnabled"`
	Data              Account  `json:"data"`
	Wallets           []Wallet `json:"wallets,omitempty"`
	Token             string   `json:"token,omitempty"`
	TokenType         string   `json:"tokenType,omitempty"`
	// ExpiresIn is in seconds.
	ExpiresIn int64     `json:"expiresIn"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccountResponse wraps a single account.
type AccountResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    Account `json:"data"`
}

// ProfileResponse is an account with its wallets.
type ProfileResponse struct {
	Success bool     `json:"success"`
	Data    Account  `json:"data"`
	Wallets []Wallet `json:"wallets"`
}

// WalletResponse wraps a single wallet.
type WalletResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Wallet `json:"data"`
}

// OTPResponse reports a freshly issued one-time code.
type OTPResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Limiter  string `json:"limiter,omitempty"`
}
