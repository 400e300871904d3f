package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	httpapi "github.com/aussiebroadwan/giftwallet/internal/auth/http"
	"github.com/aussiebroadwan/giftwallet/internal/auth/limiter"
	"github.com/aussiebroadwan/giftwallet/internal/auth/notify"
	"github.com/aussiebroadwan/giftwallet/internal/auth/service"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
	"github.com/aussiebroadwan/giftwallet/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/giftwallet/pkg/cryptox"
	"github.com/aussiebroadwan/giftwallet/pkg/jwtx"
	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	serviceName = "giftwallet-auth"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	tokens  *jwtx.HS256
	hasher  cryptox.Hasher
	redis   *redis.Client // nil without REDIS_ADDR
	limiter limiter.Limiter

	// Services
	accountService      *service.AccountService
	housekeepingService *service.HousekeepingService
	dispatcher          *notify.Dispatcher

	shutdownTracing func(context.Context) error

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	shutdownTracing, err := SetupTracing(ctx, cfg.OTel, serviceName, BuildVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.shutdownTracing = shutdownTracing

	tokens, err := InitTokens(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.tokens = tokens

	hasher, err := InitPasswordHasher(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.hasher = hasher

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initLimiter(ctx)
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start background workers
	app.dispatcher.Start()
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application. In-flight requests finish
// first so their effects are queued before the dispatcher drains.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "err", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "err", err)
		}
	}

	// Stop the background workers
	app.housekeepingService.Stop()
	app.dispatcher.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "err", err)
		}
	}

	if err := app.shutdownTracing(ctx); err != nil {
		app.logger.Error("error flushing traces", "err", err)
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "err", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initLimiter connects the OTP attempt limiter. Without REDIS_ADDR attempts
// are not counted. An unreachable redis at startup is logged, not fatal:
// the limiter fails open and /readyz reports it.
func (app *Application) initLimiter(ctx context.Context) {
	if app.cfg.RedisAddr == "" {
		app.limiter = limiter.Noop{}
		app.logger.Info("otp attempt limiter disabled")
		return
	}

	app.redis = redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})
	rl := limiter.NewRedis(app.redis, app.cfg.OTP.MaxAttempts, app.cfg.OTP.AttemptWindow)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rl.Ping(pingCtx); err != nil {
		app.logger.Warn("otp attempt limiter unreachable", "addr", app.cfg.RedisAddr, "err", err)
	}

	app.limiter = rl
	app.logger.Info("otp attempt limiter enabled",
		"addr", app.cfg.RedisAddr,
		"max_attempts", rl.MaxAttempts,
		"window", rl.Window,
	)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.accountService = &service.AccountService{
		Store:   app.db,
		Tokens:  app.tokens,
		Hasher:  app.hasher,
		Limiter: app.limiter,
		Config:  app.cfg.ServiceConfig(),
	}

	app.dispatcher = notify.NewDispatcher(
		notify.LogSender{Logger: app.logger, LogCodes: app.cfg.Notify.LogCodes},
		app.logger,
		app.cfg.Notify.Workers,
		app.cfg.Notify.QueueSize,
	)
	if app.cfg.Notify.LogCodes && !app.cfg.IsDev() {
		app.logger.Warn("NOTIFY_LOG_CODES is set outside dev; one-time codes will be logged")
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.Accounts = app.accountService
	router.Effects = app.dispatcher
	router.Limiter = app.limiter
	router.WebhookSecret = app.cfg.WebhookSecret
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 3 * time.Second,
	}
}
