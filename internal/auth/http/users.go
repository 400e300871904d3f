package http

import (
	"net/http"

	"github.com/aussiebroadwan/giftwallet/internal/auth/service"
	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/aussiebroadwan/giftwallet/pkg/httpx"
)

// UsersHandler serves account reads and password changes for signed-in
// callers.
type UsersHandler struct {
	Accounts *service.AccountService
	Effects  Dispatcher
}

// HandleGetProfile handles GET /v1/users/{id}
//
//	@Summary		Get an account
//	@Description	Returns the account and its wallets. Only the owner or an admin may read it.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string					true	"Account ID"
//	@Success		200	{object}	authsdk.ProfileResponse	"Account and wallets"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Not authorized"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Account not found"
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Accounts.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeProfile(w, profile)
}

// HandleLookup handles GET /v1/admin/accounts
//
//	@Summary		Find an account by email
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			email	query		string					true	"Account email"
//	@Success		200		{object}	authsdk.ProfileResponse	"Account and wallets"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Not authorized"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Caller is not an admin"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Account not found"
//	@Router			/v1/admin/accounts [get].
func (h *UsersHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Accounts.LookupByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeProfile(w, profile)
}

func writeProfile(w http.ResponseWriter, p service.Profile) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.ProfileResponse{
		Success: true,
		Data:    accountView(p.Account),
		Wallets: walletViews(p.Wallets),
	})
}
