package http

import (
	"net/http"

	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/aussiebroadwan/giftwallet/pkg/httpx"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

// WalletWebhookHandler godoc
//
//	@Summary		Wallet ledger webhook
//	@Description	Receives wallet events from the ledger. Callers authenticate with the shared secret
//	@Description	in the X-Webhook-Secret header. Events are logged and acknowledged.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			X-Webhook-Secret	header		string							true	"Shared secret"
//	@Param			request				body		authsdk.WalletWebhookRequest	true	"Wallet event"
//	@Success		200					{object}	authsdk.MessageResponse			"Event accepted"
//	@Failure		400					{object}	authsdk.ErrorResponse			"Malformed event"
//	@Failure		401					{object}	authsdk.ErrorResponse			"Secret mismatch"
//	@Router			/v1/webhooks/wallet [post].
func WalletWebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.WalletWebhookRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Event == "" {
			authsdk.NewAPIError(http.StatusBadRequest, "event is required").WriteError(w)
			return
		}

		slogx.FromContext(r.Context()).Info("wallet event received",
			"event", req.Event,
			"wallet_number", req.WalletNumber,
			"reference", req.Reference,
		)
		httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
			Success: true,
			Message: "event received",
		})
	}
}
