package auth_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitLoginEndpoint verifies that /v1/auth/login is rate limited.
// This endpoint has strict limits (5 req/min) to prevent brute force attacks.
func TestRateLimitLoginEndpoint(t *testing.T) {
	env, cleanup := setupAuthContainerWithDefaultRateLimits(t)
	defer cleanup()
	ctx := t.Context()

	// Make requests until we hit the rate limit (strict limit is 5 req/min)
	// We'll make 6 requests rapidly and expect the 6th to be rate limited
	var lastErr error
	for i := range 6 {
		_, err := env.Client.Login(ctx, "nobody@example.com", "wrong-password")
		if i < 5 {
			// First 5 should fail with an authentication error (not rate limit)
			require.Error(t, err, "Invalid credentials should fail")
			require.False(t, isRateLimited(err), "Should not be rate limited yet (request %d)", i+1)
		} else {
			// 6th request should be rate limited
			lastErr = err
		}
	}

	require.True(t, isRateLimited(lastErr), "Should be rate limited after 5 requests, got: %v", lastErr)
	t.Logf("Successfully rate limited after 5 requests to /v1/auth/login")
}

// TestRateLimitConfirmEmailEndpoint verifies that OTP verification is rate
// limited by IP so 4-digit codes cannot be enumerated.
func TestRateLimitConfirmEmailEndpoint(t *testing.T) {
	env, cleanup := setupAuthContainerWithDefaultRateLimits(t)
	defer cleanup()
	ctx := t.Context()

	var lastErr error
	for range 6 {
		_, lastErr = env.Client.ConfirmEmail(ctx, "nobody@example.com", "0000")
		require.Error(t, lastErr)
	}

	require.True(t, isRateLimited(lastErr), "Should be rate limited after 5 requests, got: %v", lastErr)
}

func isRateLimited(err error) bool {
	var apiErr *authsdk.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
