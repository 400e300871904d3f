package http

import (
	"net/http"

	"github.com/aussiebroadwan/giftwallet/internal/auth/service"
	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/aussiebroadwan/giftwallet/pkg/httpx"
)

// HandleForgotPassword handles POST /v1/auth/password/forgot
//
//	@Summary		Request a password reset code
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	authsdk.MessageResponse			"Code sent"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Account not found"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Rate limit exceeded"
//	@Router			/v1/auth/password/forgot [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	effects, err := h.Accounts.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	h.Effects.Dispatch(r.Context(), effects...)

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Success: true,
		Message: "an email has been sent with the reset otp",
	})
}

// HandleResetPassword handles POST /v1/auth/password/reset
//
//	@Summary		Reset a password with a code
//	@Description	The account is identified by id or, when id is empty, by email.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ResetPasswordRequest	true	"Account, code and new password"
//	@Success		200		{object}	authsdk.MessageResponse			"Password changed"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Code mismatched or expired"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Account not found"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Too many attempts"
//	@Router			/v1/auth/password/reset [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	effects, err := h.Accounts.ResetPassword(r.Context(), service.ResetPasswordInput{
		AccountID:   req.ID,
		Email:       req.Email,
		Code:        req.OTP,
		NewPassword: req.Password,
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	h.Effects.Dispatch(r.Context(), effects...)

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Success: true,
		Message: "Password changed successfully.",
	})
}

// HandleChangePassword handles PUT /v1/users/{id}/password
//
//	@Summary		Change a password
//	@Description	Replaces the password after checking the current one. Only the owner or an admin may call it.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Account ID"
//	@Param			request	body		authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	authsdk.MessageResponse			"Password changed"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Not authorized or old password incorrect"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Account not found"
//	@Router			/v1/users/{id}/password [put].
func (h *UsersHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	effects, err := h.Accounts.ChangePassword(r.Context(), r.PathValue("id"), req.OldPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, err, overrides{service.ErrInvalidCredentials: authsdk.ErrOldPasswordInvalid})
		return
	}
	h.Effects.Dispatch(r.Context(), effects...)

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Success: true,
		Message: "Changed Password Successfully",
	})
}
