package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
)

type accountsRepo struct {
	db DBTX
}

const accountColumns = `id, email, password_hash, confirmed_at, created_at, updated_at`

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, normaliseEmail(a.Email), a.PasswordHash, mapOptionalTime(a.ConfirmedAt), ts, ts,
	)
	return mapConstraint(err)
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, normaliseEmail(email)))
}

func (r *accountsRepo) Confirm(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET confirmed_at = COALESCE(confirmed_at, ?), updated_at = ? WHERE id = ?`,
		at.UTC(), now(), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) ListOrphaned(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.email, a.password_hash, a.confirmed_at, a.created_at, a.updated_at
		FROM accounts a
		LEFT JOIN users u ON u.id = a.id
		WHERE u.id IS NULL
		ORDER BY a.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountsRepo) DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoff = cutoff.UTC()
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM users WHERE id IN (
			SELECT id FROM accounts WHERE confirmed_at IS NULL AND created_at < ?
		)`, cutoff); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE confirmed_at IS NULL AND created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		a         domain.Account
		confirmed sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &confirmed, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.ConfirmedAt = mapNullTimePtr(confirmed)
	return a, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
