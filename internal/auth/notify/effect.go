// Package notify delivers the side effects produced by account transitions:
// sign-up codes, OTPs, reset codes and change notices.
package notify

import "time"

// Kind names the message an Effect asks to deliver.
type Kind string

const (
	KindSignup          Kind = "signup"
	KindOTP             Kind = "otp"
	KindPasswordReset   Kind = "password_reset"
	KindPasswordChanged Kind = "password_changed"
	KindPinChanged      Kind = "pin_changed"
)

// Effect is a notification requested by a committed transition. Code is the
// plaintext OTP and must never be logged outside development.
type Effect struct {
	Kind      Kind
	AccountID string
	Email     string
	Phone     string
	FullName  string
	Code      string
	ExpiresAt time.Time
}

func Signup(accountID, email, fullName, code string, expiresAt time.Time) Effect {
	return Effect{Kind: KindSignup, AccountID: accountID, Email: email, FullName: fullName, Code: code, ExpiresAt: expiresAt}
}

func OTP(accountID, phone, email, code string, expiresAt time.Time) Effect {
	return Effect{Kind: KindOTP, AccountID: accountID, Phone: phone, Email: email, Code: code, ExpiresAt: expiresAt}
}

func PasswordReset(accountID, email, code string, expiresAt time.Time) Effect {
	return Effect{Kind: KindPasswordReset, AccountID: accountID, Email: email, Code: code, ExpiresAt: expiresAt}
}

// Notice is a code-less informational message such as "your password changed".
func Notice(accountID, email string, kind Kind) Effect {
	return Effect{Kind: kind, AccountID: accountID, Email: email}
}
