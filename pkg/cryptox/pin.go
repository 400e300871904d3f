package cryptox

import (
	"errors"
	"strconv"
)

const (
	MinPIN = 1000
	MaxPIN = 9999
)

var ErrInvalidPIN = errors.New("pin must be a 4 digit number between 1000 and 9999")

// ValidatePIN rejects anything outside [MinPIN, MaxPIN]. Callers run it
// before hashing or touching storage.
func ValidatePIN(pin int) error {
	if pin < MinPIN || pin > MaxPIN {
		return ErrInvalidPIN
	}
	return nil
}

// FormatPIN is the canonical string form fed to the Hasher.
func FormatPIN(pin int) string {
	return strconv.Itoa(pin)
}

// VerifyPIN checks pin against a hash produced by any Hasher. An empty hash
// never matches.
func VerifyPIN(pin int, hash string) error {
	if hash == "" {
		return ErrPasswordMismatch
	}
	return VerifyPassword(FormatPIN(pin), hash)
}
