package domain

import "time"

// TwoFactorState is the enrollment state of an account's second factor.
// An outstanding OTP is tracked separately by Account.Challenge so that
// "no challenge" is an explicit nil rather than an empty hash.
type TwoFactorState int

const (
	TwoFactorDisabled TwoFactorState = iota
	TwoFactorEnabled
)

func (s TwoFactorState) String() string {
	if s == TwoFactorEnabled {
		return "enabled"
	}
	return "disabled"
}

// Purpose tags a challenge with the flow allowed to consume it.
type Purpose string

const (
	PurposeEmailConfirm  Purpose = "email_confirm"
	PurposePasswordReset Purpose = "password_reset"
	PurposeTwoFactor     Purpose = "two_factor"
	PurposePinReset      Purpose = "pin_reset"
	PurposeEnrollment    Purpose = "enrollment"
)

// ParsePurpose accepts the purposes a client may request directly.
// PurposeTwoFactor is only issued by a password login and
// PurposePasswordReset only by the forgot-password flow.
func ParsePurpose(s string) (Purpose, bool) {
	switch p := Purpose(s); p {
	case PurposeEmailConfirm, PurposePinReset, PurposeEnrollment:
		return p, true
	case "":
		return PurposeEnrollment, true
	}
	return "", false
}

// Challenge is a single outstanding OTP. Purpose, Hash and ExpiresAt are
// written and cleared together. Housekeeping blanks the Hash of an expired
// challenge and keeps the rest, so it still reads as expired.
type Challenge struct {
	Purpose   Purpose
	Hash      string
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its validity at now.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
