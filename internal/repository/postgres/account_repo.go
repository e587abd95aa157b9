package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
)

// AccountRepository stores accounts in the accounts table.
type AccountRepository struct {
	pool *pgxpool.Pool
}

var _ domain.TitledStore[*domain.Account] = (*AccountRepository)(nil)

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, title, amount, account_type, currency_id, closed, ` + auditColumns

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	var deletedAt pgtype.Timestamptz
	var deletedBy pgtype.Text
	err := row.Scan(
		&a.ID, &a.Title, &a.Amount, &a.Type, &a.CurrencyID, &a.Closed,
		&a.Position, &a.CreatedAt, &a.CreatedBy, &a.UpdatedAt, &a.UpdatedBy,
		&deletedAt, &deletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.DeletedAt = timePtr(deletedAt)
	a.DeletedBy = textPtr(deletedBy)
	return &a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *AccountRepository) FindByTitle(ctx context.Context, title string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE title = $1
		 ORDER BY (deleted_at IS NULL) DESC, updated_at DESC
		 LIMIT 1`, title)
	return scanAccount(row)
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) Save(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (title, amount, account_type, currency_id, closed,
		                       position, created_at, created_by, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		a.Title, a.Amount, a.Type, a.CurrencyID, a.Closed,
		a.Position, a.CreatedAt, a.CreatedBy, a.UpdatedAt, a.UpdatedBy,
	).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) update(ctx context.Context, db execer, a *domain.Account) error {
	tag, err := db.Exec(ctx,
		`UPDATE accounts
		 SET title = $2, amount = $3, account_type = $4, currency_id = $5,
		     closed = $6, position = $7, updated_at = $8, updated_by = $9,
		     deleted_at = $10, deleted_by = $11
		 WHERE id = $1`,
		a.ID, a.Title, a.Amount, a.Type, a.CurrencyID, a.Closed,
		a.Position, a.UpdatedAt, a.UpdatedBy,
		nullableTime(a.DeletedAt), nullableText(a.DeletedBy),
	)
	if err != nil {
		return fmt.Errorf("update account %d: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if err := r.update(ctx, r.pool, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) UpdateAll(ctx context.Context, accounts []*domain.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range accounts {
		if err := r.update(ctx, tx, a); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
