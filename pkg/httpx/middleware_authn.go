package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/giftwallet/pkg/jwtx"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

// MsgNotAuthorized is the body message for every authentication failure.
const MsgNotAuthorized = "not authorized"

// RequireAuth extracts and verifies the bearer token and attaches its claims
// to the request context. Any failure ends the chain with 401.
func RequireAuth(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
			if raw == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = slogx.WithAccount(contextWithAuth(ctx, claims), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750 bearer challenge plus the JSON message clients expect.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteMessage(w, http.StatusUnauthorized, MsgNotAuthorized)
}
