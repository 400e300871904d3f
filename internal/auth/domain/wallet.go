package domain

import "time"

type Wallet struct {
	ID        string
	Number    string // 10 digit public wallet number
	AccountID string
	Currency  string
	PinHash   string // empty until the owner sets a PIN
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *Wallet) HasPin() bool {
	return w.PinHash != ""
}
