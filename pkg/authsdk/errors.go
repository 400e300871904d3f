package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/giftwallet/pkg/httpx"
)

// APIError is an error response from the wallet service. It is used by the
// server to write responses and by the client to represent them.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Message is the human-readable reason, e.g. "otp expired"
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteMessage(w, e.StatusCode, e.Message)
}

// Is matches another *APIError with the same status and message, so that
// errors.Is(err, authsdk.ErrOTPExpired) works on client errors.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Message == t.Message
}

// NewAPIError creates an APIError with the given status code and message.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

// Messages shared by the server and the client.
var (
	ErrInvalidRequest     = NewAPIError(http.StatusBadRequest, "invalid request body")
	ErrServerError        = NewAPIError(http.StatusInternalServerError, "internal server error")
	ErrAccountNotFound    = NewAPIError(http.StatusNotFound, "User not found")
	ErrEmailTaken         = NewAPIError(http.StatusUnauthorized, "email already exists")
	ErrPhoneTaken         = NewAPIError(http.StatusUnauthorized, "phone number already exists")
	ErrBadCredentials     = NewAPIError(http.StatusUnauthorized, "Username or Password incorrect")
	ErrEmailUnconfirmed   = NewAPIError(http.StatusBadRequest, "email not yet confirmed, please check your email or create new otp")
	ErrAlreadyConfirmed   = NewAPIError(http.StatusBadRequest, "email already confirmed")
	ErrOTPExpired         = NewAPIError(http.StatusBadRequest, "otp expired")
	ErrOTPNotMatched      = NewAPIError(http.StatusBadRequest, "otp not matched")
	ErrWrongOTP           = NewAPIError(http.StatusUnauthorized, "Wrong OTP")
	ErrOTPNotMatching     = NewAPIError(http.StatusUnauthorized, "otp not matching")
	ErrTwoFactorDisabled  = NewAPIError(http.StatusBadRequest, "Two Factor Authentication not enabled")
	ErrInvalidPIN         = NewAPIError(http.StatusBadRequest, "invalid pin")
	ErrInvalidWallet      = NewAPIError(http.StatusBadRequest, "invalid wallet number")
	ErrWalletNotFound     = NewAPIError(http.StatusNotFound, "wallet not found")
	ErrOldPinIncorrect    = NewAPIError(http.StatusBadRequest, "old pin incorrect")
	ErrOldPasswordInvalid = NewAPIError(http.StatusUnauthorized, "Old Password incorrect")
	ErrTooManyRequests    = NewAPIError(http.StatusTooManyRequests, "Too many requests. Please try again later.")
	ErrNotAuthorized      = NewAPIError(http.StatusUnauthorized, httpx.MsgNotAuthorized)
)

// parseErrorResponse converts a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return NewAPIError(resp.StatusCode, errResp.Message)
	}

	return NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode))
}
