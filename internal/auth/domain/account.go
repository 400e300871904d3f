package domain

import (
	"strings"
	"time"
)

// Account is a registered user of the wallet service.
type Account struct {
	ID             string
	Email          string // lower-cased, unique
	Phone          string // unique
	FullName       string
	Role           Role
	PasswordHash   string // bcrypt (or legacy argon2id PHC)
	EmailConfirmed bool
	TwoFactor      TwoFactorState
	Challenge      *Challenge // nil when no OTP challenge is outstanding
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TwoFactorEnabled reports whether login requires a second factor.
func (a Account) TwoFactorEnabled() bool {
	return a.TwoFactor == TwoFactorEnabled
}

// NormalizeEmail trims and lower-cases an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskPhone keeps the first seven characters and the last two, e.g. "+234803...89".
func MaskPhone(phone string) string {
	if len(phone) <= 9 {
		return phone
	}
	return phone[:7] + "..." + phone[len(phone)-2:]
}

// MaskEmail hides the middle of the local part, e.g. "jo...e@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local, host := email[:at], email[at:]
	if len(local) <= 3 {
		return local[:1] + "..." + host
	}
	return local[:2] + "..." + local[len(local)-1:] + host
}
