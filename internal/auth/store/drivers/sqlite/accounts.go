package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/domain"
)

const accountColumns = `id, email, phone, full_name, role, password_hash, email_confirmed,
	two_factor_enabled, challenge_purpose, challenge_hash, challenge_expires_at,
	created_at, updated_at`

type accountsRepo struct {
	db dbtx
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	var (
		purpose, hash sql.NullString
		expiresAt     sql.NullTime
	)
	if a.Challenge != nil {
		purpose = sql.NullString{String: string(a.Challenge.Purpose), Valid: true}
		hash = sql.NullString{String: a.Challenge.Hash, Valid: true}
		expiresAt = sql.NullTime{Time: a.Challenge.ExpiresAt.UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.Phone, a.FullName, string(a.Role), a.PasswordHash,
		boolToInt(a.EmailConfirmed), boolToInt(a.TwoFactorEnabled()),
		purpose, hash, expiresAt,
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
}

func (r *accountsRepo) GetAccountByPhone(ctx context.Context, phone string) (domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE phone = ?`, phone)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, accountID, hash string) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, now(), accountID,
	))
}

func (r *accountsRepo) MarkEmailConfirmed(ctx context.Context, accountID string) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE accounts SET email_confirmed = 1, updated_at = ? WHERE id = ?`,
		now(), accountID,
	))
}

func (r *accountsRepo) SetTwoFactor(
	ctx context.Context,
	accountID string,
	state domain.TwoFactorState,
) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE accounts SET two_factor_enabled = ?, updated_at = ? WHERE id = ?`,
		boolToInt(state == domain.TwoFactorEnabled), now(), accountID,
	))
}

func (r *accountsRepo) SetChallenge(ctx context.Context, accountID string, c domain.Challenge) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE accounts
		SET challenge_purpose = ?, challenge_hash = ?, challenge_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		string(c.Purpose), c.Hash, c.ExpiresAt.UTC(), now(), accountID,
	))
}

func (r *accountsRepo) ClearChallenge(ctx context.Context, accountID string) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE accounts
		SET challenge_purpose = NULL, challenge_hash = NULL, challenge_expires_at = NULL, updated_at = ?
		WHERE id = ?`,
		now(), accountID,
	))
}

func (r *accountsRepo) ScrubExpiredChallenges(ctx context.Context, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET challenge_hash = '', updated_at = ?
		WHERE challenge_expires_at IS NOT NULL AND challenge_expires_at < ? AND challenge_hash <> ''`,
		now(), at.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *accountsRepo) getOne(ctx context.Context, query string, arg any) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, query, arg)

	var (
		a                domain.Account
		role             string
		confirmed, twoFA int
		purpose, hash    sql.NullString
		expiresAt        sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.Phone, &a.FullName, &role, &a.PasswordHash, &confirmed,
		&twoFA, &purpose, &hash, &expiresAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.Role = domain.Role(role)
	a.EmailConfirmed = confirmed == 1
	if twoFA == 1 {
		a.TwoFactor = domain.TwoFactorEnabled
	}
	if exp := mapNullTimePtr(expiresAt); exp != nil && purpose.Valid {
		a.Challenge = &domain.Challenge{
			Purpose:   domain.Purpose(purpose.String),
			Hash:      mapNullString(hash),
			ExpiresAt: *exp,
		}
	}
	return a, nil
}

func now() time.Time { return time.Now().UTC() }
