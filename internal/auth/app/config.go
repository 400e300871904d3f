package app

import (
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pquerna/otp"

	"github.com/aussiebroadwan/giftwallet/internal/auth/service"
	"github.com/aussiebroadwan/giftwallet/pkg/cryptox"
)

type Config struct {
	// JWTSecret is the HMAC secret, at least 32 bytes. Required outside dev
	// unless JWTSecretFile is set.
	JWTSecret     string        `env:"AUTH_JWT_SECRET"`
	JWTSecretFile string        `env:"AUTH_JWT_SECRET_FILE"`
	Issuer        string        `env:"AUTH_ISSUER"          envDefault:"giftwallet-auth"`
	Audience      string        `env:"AUTH_AUDIENCE"        envDefault:"giftwallet-api"`
	SessionTTL    time.Duration `env:"AUTH_SESSION_TTL"     envDefault:"168h"`

	// AdminEmail registers as admin. WebhookSecret guards the wallet
	// webhook; empty rejects every call.
	AdminEmail    string `env:"AUTH_ADMIN_EMAIL"`
	WebhookSecret string `env:"AUTH_WEBHOOK_SECRET"`

	DatabaseFile   string `env:"AUTH_DATABASE_FILE"   envDefault:"auth.db"`
	PepperFile     string `env:"AUTH_PEPPER_FILE"     envDefault:"pepper"`
	PasswordHasher string `env:"AUTH_PASSWORD_HASHER" envDefault:"bcrypt"` // bcrypt or argon2id

	OTP    OTPConfig    `envPrefix:"OTP_"`
	Notify NotifyConfig `envPrefix:"NOTIFY_"`
	OTel   OTelConfig   `envPrefix:"OTEL_"`

	// RedisAddr enables the OTP attempt limiter when set.
	RedisAddr       string `env:"REDIS_ADDR"`
	DefaultCurrency string `env:"WALLET_DEFAULT_CURRENCY" envDefault:"USD"`

	Env                  string        `env:"ENV"                   envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                 int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// OTPConfig controls one-time code length, lifetime per purpose and the
// attempt limiter.
type OTPConfig struct {
	Digits           int           `env:"DIGITS"             envDefault:"4"`
	TTLEmailConfirm  time.Duration `env:"TTL_EMAIL_CONFIRM"  envDefault:"2m"`
	TTLPasswordReset time.Duration `env:"TTL_PASSWORD_RESET" envDefault:"2m"`
	TTLTwoFactor     time.Duration `env:"TTL_TWO_FACTOR"     envDefault:"2m"`
	TTLPinReset      time.Duration `env:"TTL_PIN_RESET"      envDefault:"2m"`
	TTLEnrollment    time.Duration `env:"TTL_ENROLLMENT"     envDefault:"2m"`
	MaxAttempts      int           `env:"MAX_ATTEMPTS"       envDefault:"5"`
	AttemptWindow    time.Duration `env:"ATTEMPT_WINDOW"     envDefault:"10m"`
}

// NotifyConfig sizes the notification worker pool. LogCodes writes OTP codes
// to the log and is meant for dev and e2e runs only.
type NotifyConfig struct {
	Workers   int  `env:"WORKERS"    envDefault:"4"`
	QueueSize int  `env:"QUEUE_SIZE" envDefault:"256"`
	LogCodes  bool `env:"LOG_CODES"`
}

// OTelConfig enables trace export. Tracing is off unless Endpoint is set.
type OTelConfig struct {
	Endpoint string `env:"ENDPOINT"`
	Enabled  bool   `env:"ENABLED" envDefault:"true"`
}

// LoadConfig parses the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var supportedDigits = []int{4, 6, 8}

// Validate checks the values env parsing cannot. The JWT secret is resolved
// later by LoadJWTSecret.
func (c Config) Validate() error {
	var errs []error

	if c.Issuer == "" {
		errs = append(errs, errors.New("AUTH_ISSUER must not be empty"))
	}
	if c.Audience == "" {
		errs = append(errs, errors.New("AUTH_AUDIENCE must not be empty"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("AUTH_SESSION_TTL must be positive"))
	}
	if c.AdminEmail != "" {
		if _, err := mail.ParseAddress(c.AdminEmail); err != nil {
			errs = append(errs, fmt.Errorf("AUTH_ADMIN_EMAIL is invalid: %w", err))
		}
	}
	if _, err := cryptox.NewHasher(c.PasswordHasher); err != nil {
		errs = append(errs, fmt.Errorf("AUTH_PASSWORD_HASHER: %w", err))
	}
	if !slices.Contains(supportedDigits, c.OTP.Digits) {
		errs = append(errs, fmt.Errorf("OTP_DIGITS must be one of 4, 6 or 8, got %d", c.OTP.Digits))
	}
	for name, ttl := range map[string]time.Duration{
		"OTP_TTL_EMAIL_CONFIRM":  c.OTP.TTLEmailConfirm,
		"OTP_TTL_PASSWORD_RESET": c.OTP.TTLPasswordReset,
		"OTP_TTL_TWO_FACTOR":     c.OTP.TTLTwoFactor,
		"OTP_TTL_PIN_RESET":      c.OTP.TTLPinReset,
		"OTP_TTL_ENROLLMENT":     c.OTP.TTLEnrollment,
	} {
		if ttl < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if c.OTP.MaxAttempts < 1 {
		errs = append(errs, errors.New("OTP_MAX_ATTEMPTS must be at least 1"))
	}
	if c.OTP.AttemptWindow <= 0 {
		errs = append(errs, errors.New("OTP_ATTEMPT_WINDOW must be positive"))
	}
	if c.Notify.Workers < 1 {
		errs = append(errs, errors.New("NOTIFY_WORKERS must be at least 1"))
	}
	if c.Notify.QueueSize < 1 {
		errs = append(errs, errors.New("NOTIFY_QUEUE_SIZE must be at least 1"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if len(strings.TrimSpace(c.DefaultCurrency)) != 3 {
		errs = append(errs, fmt.Errorf("WALLET_DEFAULT_CURRENCY must be a 3 letter code, got %q", c.DefaultCurrency))
	}

	return errors.Join(errs...)
}

// IsDev reports whether the service runs in the dev environment.
func (c Config) IsDev() bool { return strings.EqualFold(c.Env, "dev") }

// ServiceConfig is the account service view of c.
func (c Config) ServiceConfig() service.Config {
	return service.Config{
		AdminEmail:      c.AdminEmail,
		SessionTTL:      c.SessionTTL,
		OTPDigits:       otp.Digits(c.OTP.Digits),
		DefaultCurrency: strings.ToUpper(strings.TrimSpace(c.DefaultCurrency)),
		ChallengeTTLs: service.ChallengeTTLs{
			EmailConfirm:  c.OTP.TTLEmailConfirm,
			PasswordReset: c.OTP.TTLPasswordReset,
			TwoFactor:     c.OTP.TTLTwoFactor,
			PinReset:      c.OTP.TTLPinReset,
			Enrollment:    c.OTP.TTLEnrollment,
		},
	}
}
