package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestForgotAndResetPassword resets a password with the emailed code.
func TestForgotAndResetPassword(t *testing.T) {
	env, cleanup := setupAuthContainer(t)
	defer cleanup()
	ctx := t.Context()

	registerConfirmed(t, env, "ada@example.com", "+2348030000089", "Ada Lovelace")

	code := env.nextCode(t, "ada@example.com", func() {
		resp, err := env.Client.ForgotPassword(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, "an email has been sent with the reset otp", resp.Message)
	})

	const newPassword = "Battery-Staple-77"

	resp, err := env.Client.ResetPassword(ctx, authsdk.ResetPasswordRequest{
		Email:    "ada@example.com",
		OTP:      code,
		Password: newPassword,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)

	_, err = env.Client.Login(ctx, "ada@example.com", userPassword)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrBadCredentials.Message)

	login(t, env, "ada@example.com", newPassword)

	// The reset code is single use
	_, err = env.Client.ResetPassword(ctx, authsdk.ResetPasswordRequest{
		Email:    "ada@example.com",
		OTP:      code,
		Password: "Another-Password-1",
	})
	require.Error(t, err)
}

// TestChangePassword verifies an authenticated password change.
func TestChangePassword(t *testing.T) {
	env, cleanup := setupAuthContainer(t)
	defer cleanup()
	ctx := t.Context()

	ada := registerConfirmed(t, env, "ada@example.com", "+2348030000089", "Ada Lovelace")
	session := login(t, env, "ada@example.com", userPassword)

	_, err := session.ChangePassword(ctx, ada.Data.ID, authsdk.ChangePasswordRequest{
		OldPassword: "not-my-password",
		NewPassword: "Battery-Staple-77",
	})
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrOldPasswordInvalid.Message)

	resp, err := session.ChangePassword(ctx, ada.Data.ID, authsdk.ChangePasswordRequest{
		OldPassword: userPassword,
		NewPassword: "Battery-Staple-77",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)

	login(t, env, "ada@example.com", "Battery-Staple-77")
}
