package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/pquerna/otp"
)

// DefaultOTPDigits is the code length sent to users.
const DefaultOTPDigits = otp.Digits(4)

// GenerateOTP returns a uniformly random, zero padded numeric code.
func GenerateOTP(digits otp.Digits) (string, error) {
	if digits != otp.DigitsSix && digits != otp.DigitsEight && digits != DefaultOTPDigits {
		return "", fmt.Errorf("unsupported otp length %d", digits.Length())
	}

	limit := big.NewInt(1)
	for range digits.Length() {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return digits.Format(int32(n.Int64())), nil // #nosec G115 - bounded by 10^8
}

// WellFormedOTP reports whether code is exactly digits long and numeric.
func WellFormedOTP(code string, digits otp.Digits) bool {
	if len(code) != digits.Length() {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// VerifyOTP fails closed: the code must match the stored hash and now must
// not be after expiresAt. Both checks always run.
func VerifyOTP(code, hash string, expiresAt, now time.Time) bool {
	matched := hash != "" && VerifyPassword(code, hash) == nil
	fresh := !now.After(expiresAt)
	return matched && fresh
}

// RandomDigits returns n random decimal digits. Used for wallet numbers.
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("digit count must be positive, got %d", n)
	}
	buf := make([]byte, n)
	for i := range buf {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate digits: %w", err)
		}
		buf[i] = byte('0' + d.Int64())
	}
	return string(buf), nil
}
