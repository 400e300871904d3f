package http

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/giftwallet/internal/auth/service"
	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/aussiebroadwan/giftwallet/pkg/httpx"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

// AuthHandler serves the public account flows under /v1/auth.
type AuthHandler struct {
	Accounts *service.AccountService
	Effects  Dispatcher
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register an account
//	@Description	Creates an unconfirmed account with a default wallet and emails a confirmation code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"Account details"
//	@Success		201		{object}	authsdk.RegisterResponse	"Account created"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Missing or invalid fields"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Email or phone already registered"
//	@Failure		429		{object}	authsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	res, effects, err := h.Accounts.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Phone:    req.Phone,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	h.Effects.Dispatch(r.Context(), effects...)

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully created user: %s, an email has been sent to %s",
			res.Account.FullName, res.Account.Email),
		Data:   accountView(res.Account),
		Wallet: walletView(res.Wallet),
	})
}

// HandleConfirmEmail handles POST /v1/auth/confirm-email
//
//	@Summary		Confirm an email address
//	@Description	Consumes the confirmation code sent on registration. An account is confirmed at most once.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ConfirmEmailRequest	true	"Email and code"
//	@Success		200		{object}	authsdk.AccountResponse		"Email confirmed"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Code mismatched or expired, or already confirmed"
//	@Failure		404		{object}	authsdk.ErrorResponse		"Account not found"
//	@Failure		429		{object}	authsdk.ErrorResponse		"Too many attempts"
//	@Router			/v1/auth/confirm-email [post].
func (h *AuthHandler) HandleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ConfirmEmailRequest
	if !decode(w, r, &req) {
		return
	}

	acct, err := h.Accounts.ConfirmEmail(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{
		Success: true,
		Message: "email confirmed",
		Data:    accountView(acct),
	})
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in with email and password
//	@Description	Returns a session token, or for accounts with two-factor enabled sends a one-time code
//	@Description	and returns is2FactorEnabled=true without a token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse	"Session or pending second factor"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Email not confirmed"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Wrong password"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Account not found"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	res, effects, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	h.Effects.Dispatch(r.Context(), effects...)

	if res.TwoFactorRequired {
		slogx.FromContext(r.Context()).Info("second factor required", "account_id", res.Account.ID)
		httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
			Success:           true,
			Message:           fmt.Sprintf("An OTP has been sent to: %s and %s", res.MaskedPhone, res.MaskedEmail),
			TwoFactorRequired: true,
			Data:              accountView(res.Account),
			ExpiresIn:         int64(res.ExpiresIn.Seconds()),
			ExpiresAt:         res.ExpiresAt,
		})
		return
	}

	writeSession(w, res)
}

// HandleLoginTwoFactor handles POST /v1/auth/login/2fa
//
//	@Summary		Complete a two-factor login
//	@Description	Verifies the code sent by /v1/auth/login and returns a session token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginTwoFactorRequest	true	"Email and code"
//	@Success		200		{object}	authsdk.LoginResponse			"Session"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Code expired, email not confirmed or two-factor disabled"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Wrong OTP"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Account not found"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Too many attempts"
//	@Router			/v1/auth/login/2fa [post].
func (h *AuthHandler) HandleLoginTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginTwoFactorRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.Accounts.LoginTwoFactor(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeError(w, r, err, overrides{service.ErrOTPMismatch: authsdk.ErrWrongOTP})
		return
	}

	writeSession(w, res)
}

func writeSession(w http.ResponseWriter, res service.LoginResult) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Success:   true,
		Message:   "Login Successfull",
		Data:      accountView(res.Account),
		Wallets:   walletViews(res.Wallets),
		Token:     res.Session.Token,
		TokenType: res.Session.TokenType,
		ExpiresIn: res.Session.ExpiresIn(),
		ExpiresAt: res.Session.ExpiresAt,
	})
}
