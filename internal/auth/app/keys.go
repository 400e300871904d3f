package app

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aussiebroadwan/giftwallet/pkg/cryptox"
	"github.com/aussiebroadwan/giftwallet/pkg/jwtx"
)

// ErrMissingSecret is returned outside dev when neither AUTH_JWT_SECRET nor
// AUTH_JWT_SECRET_FILE is set.
var ErrMissingSecret = errors.New("AUTH_JWT_SECRET or AUTH_JWT_SECRET_FILE is required")

// LoadJWTSecret resolves the HMAC secret used to sign session tokens.
//
// Resolution order:
//   - AUTH_JWT_SECRET, used verbatim.
//   - AUTH_JWT_SECRET_FILE, trimmed of surrounding whitespace.
//   - In dev only, a random secret generated at startup. Every session
//     becomes invalid when the service restarts.
func LoadJWTSecret(cfg Config, logger *slog.Logger) ([]byte, error) {
	switch {
	case cfg.JWTSecret != "":
		return []byte(cfg.JWTSecret), nil

	case cfg.JWTSecretFile != "":
		raw, err := os.ReadFile(cfg.JWTSecretFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read jwt secret file: %w", err)
		}
		secret := strings.TrimSpace(string(raw))
		if secret == "" {
			return nil, fmt.Errorf("jwt secret file %s is empty", cfg.JWTSecretFile)
		}
		return []byte(secret), nil

	case cfg.IsDev():
		secret := make([]byte, jwtx.MinSecretLength)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		logger.Warn("no jwt secret configured, using an ephemeral secret; sessions will not survive restarts")
		return secret, nil

	default:
		return nil, ErrMissingSecret
	}
}

// InitTokens builds the session token signer and verifier.
func InitTokens(cfg Config, logger *slog.Logger) (*jwtx.HS256, error) {
	secret, err := LoadJWTSecret(cfg, logger)
	if err != nil {
		return nil, err
	}

	tokens, err := jwtx.NewHS256(jwtx.HS256Config{
		Secret:   secret,
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}

	logger.Info("session tokens configured",
		"alg", tokens.Alg(),
		"issuer", cfg.Issuer,
		"audience", cfg.Audience,
		"session_ttl", cfg.SessionTTL,
	)
	return tokens, nil
}

// InitPasswordHasher points the argon2id pepper at its file and returns the
// configured Hasher. The pepper is loaded eagerly so a bad path fails here.
func InitPasswordHasher(cfg Config, logger *slog.Logger) (cryptox.Hasher, error) {
	cryptox.SetPepperPath(cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	hasher, err := cryptox.NewHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, err
	}
	logger.Info("password hasher configured", "scheme", strings.ToLower(cfg.PasswordHasher))
	return hasher, nil
}
