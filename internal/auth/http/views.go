package http

import (
	"context"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
	"github.com/aussiebroadwan/giftwallet/internal/auth/notify"
	"github.com/aussiebroadwan/giftwallet/pkg/authsdk"
)

// Dispatcher runs the effects of a committed transition. *notify.Dispatcher
// satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, effects ...notify.Effect)
}

func accountView(a domain.Account) authsdk.Account {
	return authsdk.Account{
		ID:             a.ID,
		Email:          a.Email,
		Phone:          a.Phone,
		FullName:       a.FullName,
		Role:           string(a.Role),
		EmailConfirmed: a.EmailConfirmed,
		TwoFactor:      a.TwoFactorEnabled(),
		CreatedAt:      a.CreatedAt,
	}
}

func walletView(w domain.Wallet) authsdk.Wallet {
	return authsdk.Wallet{
		ID:        w.ID,
		Number:    w.Number,
		Currency:  w.Currency,
		HasPin:    w.HasPin(),
		CreatedAt: w.CreatedAt,
	}
}

func walletViews(ws []domain.Wallet) []authsdk.Wallet {
	out := make([]authsdk.Wallet, 0, len(ws))
	for _, w := range ws {
		out = append(out, walletView(w))
	}
	return out
}
