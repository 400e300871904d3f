package httpx

import (
	"crypto/subtle"
	"net/http"

	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

// MsgNotAllowed is the body message for role and shared-secret failures.
const MsgNotAllowed = "User not allowed."

// AdminRole bypasses ownership checks in RequireSelfOrAdmin.
const AdminRole = "admin"

// RequireRole lets the request through only when the authenticated role is
// one of roles. Must run after RequireAuth.
func RequireRole(roles ...string) Middleware {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if _, ok := allowed[role]; !ok || role == "" {
				slogx.FromContext(r.Context()).Warn("role not allowed",
					"role", role,
					"account_id", SubjectFromContext(r.Context()),
				)
				WriteMessage(w, http.StatusForbidden, MsgNotAllowed)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrAdmin allows the request when the authenticated subject equals
// the path value named ownerParam, or when the caller is an admin. A failed
// check always ends the chain.
func RequireSelfOrAdmin(ownerParam string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			subject := SubjectFromContext(ctx)
			owner := r.PathValue(ownerParam)

			if subject != "" && (subject == owner || RoleFromContext(ctx) == AdminRole) {
				next.ServeHTTP(w, r)
				return
			}

			slogx.FromContext(ctx).Warn("ownership check failed",
				"account_id", subject,
				"owner_id", owner,
			)
			WriteMessage(w, http.StatusUnauthorized, MsgNotAuthorized)
		})
	}
}

// RequireSharedSecret authenticates webhook callers by comparing header
// against secret in constant time. An empty secret rejects everything.
func RequireSharedSecret(header, secret string) Middleware {
	want := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(header))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				slogx.FromContext(r.Context()).Warn("shared secret mismatch", "header", header)
				WriteMessage(w, http.StatusUnauthorized, MsgNotAllowed)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
