package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithAccount tags the contextual logger with the acting account.
func WithAccount(ctx context.Context, accountID string) context.Context {
	if accountID == "" {
		return ctx
	}
	return WithContext(ctx, FromContext(ctx).With("account_id", accountID))
}
