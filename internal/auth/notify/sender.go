package notify

import (
	"context"
	"log/slog"
)

// Sender delivers a single effect. Implementations wrap a mailer or SMS
// gateway; they must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, e Effect) error
}

// LogSender writes effects to the log instead of delivering them. Codes are
// only included when LogCodes is set, which is meant for dev and e2e runs.
type LogSender struct {
	Logger   *slog.Logger
	LogCodes bool
}

func (s LogSender) Send(ctx context.Context, e Effect) error {
	attrs := []any{
		"kind", string(e.Kind),
		"account_id", e.AccountID,
		"email", e.Email,
	}
	if e.Phone != "" {
		attrs = append(attrs, "phone", e.Phone)
	}
	if !e.ExpiresAt.IsZero() {
		attrs = append(attrs, "expires_at", e.ExpiresAt)
	}
	if s.LogCodes && e.Code != "" {
		attrs = append(attrs, "code", e.Code)
	}

	s.Logger.InfoContext(ctx, "notification", attrs...)
	return nil
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, e Effect) error

func (f SenderFunc) Send(ctx context.Context, e Effect) error { return f(ctx, e) }
