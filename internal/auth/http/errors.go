package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/giftwallet/internal/auth/service"
	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/aussiebroadwan/giftwallet/pkg/httpx"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

// responses maps service errors to their wire form. Entries are matched in
// order with errors.Is, so the wrapped validation errors come before
// ErrValidation.
var responses = []struct {
	err  error
	resp *authsdk.APIError
}{
	{service.ErrAccountNotFound, authsdk.ErrAccountNotFound},
	{service.ErrWalletNotFound, authsdk.ErrWalletNotFound},
	{service.ErrEmailTaken, authsdk.ErrEmailTaken},
	{service.ErrPhoneTaken, authsdk.ErrPhoneTaken},
	{service.ErrInvalidCredentials, authsdk.ErrBadCredentials},
	{service.ErrEmailUnconfirmed, authsdk.ErrEmailUnconfirmed},
	{service.ErrAlreadyConfirmed, authsdk.ErrAlreadyConfirmed},
	{service.ErrOTPExpired, authsdk.ErrOTPExpired},
	{service.ErrOTPMismatch, authsdk.ErrOTPNotMatched},
	{service.ErrTwoFactorDisabled, authsdk.ErrTwoFactorDisabled},
	{service.ErrPinMismatch, authsdk.ErrOldPinIncorrect},
	{service.ErrInvalidPIN, authsdk.ErrInvalidPIN},
	{service.ErrInvalidWalletNumber, authsdk.ErrInvalidWallet},
	{service.ErrInvalidPurpose, authsdk.NewAPIError(http.StatusBadRequest, "invalid otp purpose")},
}

// overrides replaces the default response for specific errors on a single
// route, e.g. a mismatched OTP is "Wrong OTP" on the 2FA login.
type overrides map[error]*authsdk.APIError

// writeError translates err into a response. Unknown errors are logged and
// answered with 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, o overrides) {
	for target, resp := range o {
		if errors.Is(err, target) {
			resp.WriteError(w)
			return
		}
	}
	for _, m := range responses {
		if errors.Is(err, m.err) {
			m.resp.WriteError(w)
			return
		}
	}

	switch service.KindOf(err) {
	case service.KindValidation:
		msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
		authsdk.NewAPIError(http.StatusBadRequest, msg).WriteError(w)
	case service.KindRateLimited:
		authsdk.ErrTooManyRequests.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

// decode reads a JSON body and answers 400 on failure. It reports whether
// the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to parse request", "err", err)
		authsdk.ErrInvalidRequest.WriteError(w)
		return false
	}
	return true
}
