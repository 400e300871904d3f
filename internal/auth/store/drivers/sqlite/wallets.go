package sqlite

import (
	"context"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
)

const walletColumns = `id, number, account_id, currency, pin_hash, created_at, updated_at`

type walletsRepo struct {
	db dbtx
}

func (r *walletsRepo) CreateWallet(ctx context.Context, w domain.Wallet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (`+walletColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Number, w.AccountID, w.Currency, w.PinHash,
		w.CreatedAt.UTC(), w.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *walletsRepo) GetWalletByNumber(ctx context.Context, number string) (domain.Wallet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE number = ?`, number)

	var w domain.Wallet
	if err := row.Scan(
		&w.ID, &w.Number, &w.AccountID, &w.Currency, &w.PinHash, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return domain.Wallet{}, mapNotFound(err)
	}
	return w, nil
}

func (r *walletsRepo) ListWalletsByAccount(ctx context.Context, accountID string) ([]domain.Wallet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE account_id = ? ORDER BY created_at, id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(
			&w.ID, &w.Number, &w.AccountID, &w.Currency, &w.PinHash, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *walletsRepo) UpdatePinHash(ctx context.Context, walletID, hash string) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE wallets SET pin_hash = ?, updated_at = ? WHERE id = ?`,
		hash, now(), walletID,
	))
}
