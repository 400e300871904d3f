package http

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/giftwallet/internal/auth/service"
	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/aussiebroadwan/giftwallet/pkg/httpx"
)

// HandleRequestOTP handles POST /v1/auth/otp
//
//	@Summary		Request a one-time code
//	@Description	Issues a code for two-factor enrollment (default), a wallet PIN reset or, for an unconfirmed account, email confirmation.
//	@Description	The account is identified by email or phone number.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RequestOTPRequest	true	"Account and purpose"
//	@Success		200		{object}	authsdk.OTPResponse			"Code sent"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Unknown purpose or wrong confirmation state"
//	@Failure		404		{object}	authsdk.ErrorResponse		"Account not found"
//	@Failure		429		{object}	authsdk.ErrorResponse		"Rate limit exceeded"
//	@Router			/v1/auth/otp [post].
func (h *AuthHandler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RequestOTPRequest
	if !decode(w, r, &req) {
		return
	}

	id := service.Identifier{Email: req.Email, Phone: req.Phone}
	res, effects, err := h.Accounts.RequestOTP(r.Context(), id, req.Purpose)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	h.Effects.Dispatch(r.Context(), effects...)

	httpx.WriteJSON(w, http.StatusOK, authsdk.OTPResponse{
		Success:   true,
		Message:   fmt.Sprintf("otp sent and expires in %d minutes", res.Minutes),
		Purpose:   string(res.Purpose),
		ExpiresAt: res.ExpiresAt,
	})
}

// HandleSetTwoFactor handles POST /v1/auth/2fa
//
//	@Summary		Enable or disable two-factor login
//	@Description	Verifies an enrollment code from /v1/auth/otp and switches two-factor login on or off.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TwoFactorRequest	true	"Account, code and desired state"
//	@Success		200		{object}	authsdk.AccountResponse		"Two-factor state updated"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Code expired"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Code mismatched"
//	@Failure		404		{object}	authsdk.ErrorResponse		"Account not found"
//	@Failure		429		{object}	authsdk.ErrorResponse		"Too many attempts"
//	@Router			/v1/auth/2fa [post].
func (h *AuthHandler) HandleSetTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TwoFactorRequest
	if !decode(w, r, &req) {
		return
	}

	id := service.Identifier{Email: req.Email, Phone: req.Phone}
	acct, err := h.Accounts.SetTwoFactor(r.Context(), id, req.OTP, req.Enabled)
	if err != nil {
		writeError(w, r, err, overrides{service.ErrOTPMismatch: authsdk.ErrOTPNotMatching})
		return
	}

	msg := "2 factor authentication deactivated"
	if acct.TwoFactorEnabled() {
		msg = "2 factor authentication activated"
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountResponse{
		Success: true,
		Message: msg,
		Data:    accountView(acct),
	})
}
