package http

import (
	"net/http"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/service"
	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/aussiebroadwan/giftwallet/pkg/httpx"
)

// WalletsHandler serves the wallet PIN flows.
type WalletsHandler struct {
	Accounts *service.AccountService
	Effects  Dispatcher
}

// HandleResetPin handles POST /v1/wallets/pin/reset
//
//	@Summary		Reset a wallet PIN with a code
//	@Description	Sets the PIN of a wallet using a pin_reset code sent to its owner. PINs have four digits.
//	@Tags			Wallets
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ResetPinRequest	true	"Wallet, code and new PIN"
//	@Success		200		{object}	authsdk.WalletResponse	"PIN changed"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid PIN or wallet number, code mismatched or expired"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Wallet not found"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Too many attempts"
//	@Router			/v1/wallets/pin/reset [post].
func (h *WalletsHandler) HandleResetPin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPinRequest
	if !decode(w, r, &req) {
		return
	}

	wallet, effects, err := h.Accounts.ResetPin(r.Context(), service.ResetPinInput{
		WalletNumber: req.WalletNumber,
		Code:         req.OTP,
		NewPin:       req.Pin,
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	h.Effects.Dispatch(r.Context(), effects...)

	httpx.WriteJSON(w, http.StatusOK, authsdk.WalletResponse{
		Success: true,
		Message: "Wallet Pin changed successfully.",
		Data:    walletView(wallet),
	})
}

// HandleChangePin handles PUT /v1/wallets/{number}/pin
//
//	@Summary		Change a wallet PIN
//	@Description	Replaces the PIN after checking the current one. A wallet without a PIN accepts oldPin 0.
//	@Tags			Wallets
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			number	path		string					true	"Wallet number"
//	@Param			request	body		authsdk.ChangePinRequest	true	"Current and new PIN"
//	@Success		200		{object}	authsdk.WalletResponse	"PIN changed"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Invalid PIN or old PIN incorrect"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Not authorized"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Wallet not found"
//	@Router			/v1/wallets/{number}/pin [put].
func (h *WalletsHandler) HandleChangePin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangePinRequest
	if !decode(w, r, &req) {
		return
	}

	actor := service.Actor{
		ID:   httpx.SubjectFromContext(r.Context()),
		Role: domain.Role(httpx.RoleFromContext(r.Context())),
	}
	wallet, effects, err := h.Accounts.ChangeWalletPin(r.Context(), actor, service.ChangePinInput{
		WalletNumber: r.PathValue("number"),
		CurrentPin:   req.OldPin,
		NewPin:       req.NewPin,
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	h.Effects.Dispatch(r.Context(), effects...)

	httpx.WriteJSON(w, http.StatusOK, authsdk.WalletResponse{
		Success: true,
		Message: "Wallet Pin changed successfully.",
		Data:    walletView(wallet),
	})
}
