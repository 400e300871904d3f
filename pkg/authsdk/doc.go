/*
Package authsdk provides a client SDK for the giftwallet auth service, along
with the request and response types the service speaks.

# SDKClient vs Session

  - SDKClient: public account flows (register, confirm, login, resets, OTP)
  - Session: calls that need a bearer token (profile, password and PIN changes, admin lookup)

	client := authsdk.NewSDKClient("https://auth.example.com")

	_, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:    "ada@example.com",
		Phone:    "+2348030000089",
		FullName: "Ada Lovelace",
		Password: "correct horse",
	})

	// The confirmation code arrives by email.
	_, err = client.ConfirmEmail(ctx, "ada@example.com", code)

	session, err := client.Authenticate(ctx, "ada@example.com", "correct horse")
	if errors.Is(err, authsdk.ErrTwoFactorRequired) {
		resp, err := client.LoginTwoFactor(ctx, "ada@example.com", smsCode)
		...
		session = client.NewSession(resp)
	}

	profile, err := session.GetProfile(ctx, session.AccountID())

# Errors

Every non-2xx response is returned as an *APIError carrying the status and
the service message. The predefined values match with errors.Is:

	if errors.Is(err, authsdk.ErrOTPExpired) {
		// request a new code
	}

# Thread Safety

SDKClient and Session are safe for concurrent use.
*/
package authsdk
