package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/service"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
	"github.com/aussiebroadwan/giftwallet/pkg/httpx"
	"github.com/aussiebroadwan/giftwallet/pkg/jwtx"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"

	_ "github.com/aussiebroadwan/giftwallet/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Accounts *service.AccountService
	Effects  Dispatcher

	// Limiter is reported on /readyz when set.
	Limiter Pinger

	// WebhookSecret guards /v1/webhooks/wallet. Empty rejects every call.
	WebhookSecret string
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// Use appends global middleware. It must be called before ServeHTTP.
func (r *Router) Use(mws ...httpx.Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerWallets()
	r.registerUsers()
	r.registerAdmin()
	r.registerWebhooks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			GiftWallet Authentication Service API
//	@version		0.1.0
//	@description	Account lifecycle for the giftwallet backend: registration, email confirmation,
//	@description	password and two-factor login, password and wallet PIN resets.
//	@description
//	@description				Session tokens are HS256-signed JWTs sent as "Authorization: Bearer {token}".
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/giftwallet
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Accounts: r.Accounts, Effects: r.Effects}

	// Public account flows - strict rate limit by IP
	strict := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIP(httpx.StrictLimit))
	}

	// Login - strict rate limit by IP + email
	byEmail := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"))
	}

	r.Mux.Handle("POST /v1/auth/register", strict(h.HandleRegister))
	r.Mux.Handle("POST /v1/auth/confirm-email", strict(h.HandleConfirmEmail))
	r.Mux.Handle("POST /v1/auth/login", byEmail(h.HandleLogin))
	r.Mux.Handle("POST /v1/auth/login/2fa", byEmail(h.HandleLoginTwoFactor))
	r.Mux.Handle("POST /v1/auth/password/forgot", strict(h.HandleForgotPassword))
	r.Mux.Handle("POST /v1/auth/password/reset", strict(h.HandleResetPassword))
	r.Mux.Handle("POST /v1/auth/otp", strict(h.HandleRequestOTP))
	r.Mux.Handle("POST /v1/auth/2fa", strict(h.HandleSetTwoFactor))
}

func (r *Router) registerWallets() {
	h := &WalletsHandler{Accounts: r.Accounts, Effects: r.Effects}

	r.Mux.Handle("POST /v1/wallets/pin/reset",
		httpx.Chain(http.HandlerFunc(h.HandleResetPin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// PUT /v1/wallets/{number}/pin - ownership is checked by the service
	r.Mux.Handle("PUT /v1/wallets/{number}/pin",
		httpx.Chain(http.HandlerFunc(h.HandleChangePin),
			httpx.RequireAuth(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Accounts: r.Accounts, Effects: r.Effects}

	secured := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireAuth(r.verifier),  // verify JWT (iss/aud/exp)
			httpx.RequireSelfOrAdmin("id"), // owner of {id} or admin
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("GET /v1/users/{id}", secured(h.HandleGetProfile, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/users/{id}/password", secured(h.HandleChangePassword, httpx.StrictLimit))
}

func (r *Router) registerAdmin() {
	h := &UsersHandler{Accounts: r.Accounts, Effects: r.Effects}

	r.Mux.Handle("GET /v1/admin/accounts",
		httpx.Chain(http.HandlerFunc(h.HandleLookup),
			httpx.RequireAuth(r.verifier),
			httpx.RequireRole(httpx.AdminRole),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerWebhooks() {
	r.Mux.Handle("POST /v1/webhooks/wallet",
		httpx.Chain(WalletWebhookHandler(),
			httpx.RequireSharedSecret(authsdk.WebhookSecretHeader, r.WebhookSecret),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Limiter),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
