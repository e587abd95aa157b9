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

// CurrencyRepository stores currencies in the currencies table. Exchange
// rates live in a NUMERIC column and round-trip through decimal.Decimal.
type CurrencyRepository struct {
	pool *pgxpool.Pool
}

var _ domain.TitledStore[*domain.Currency] = (*CurrencyRepository)(nil)

func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}

const currencyColumns = `id, title, short_name, exchange_rate, ` + auditColumns

func scanCurrency(row pgx.Row) (*domain.Currency, error) {
	var c domain.Currency
	var rate pgtype.Numeric
	var deletedAt pgtype.Timestamptz
	var deletedBy pgtype.Text
	err := row.Scan(
		&c.ID, &c.Title, &c.ShortName, &rate,
		&c.Position, &c.CreatedAt, &c.CreatedBy, &c.UpdatedAt, &c.UpdatedBy,
		&deletedAt, &deletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan currency: %w", err)
	}
	c.ExchangeRate = numericToDecimal(rate)
	c.DeletedAt = timePtr(deletedAt)
	c.DeletedBy = textPtr(deletedBy)
	return &c, nil
}

func (r *CurrencyRepository) FindByID(ctx context.Context, id int64) (*domain.Currency, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE id = $1`, id)
	return scanCurrency(row)
}

func (r *CurrencyRepository) FindByTitle(ctx context.Context, title string) (*domain.Currency, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE title = $1
		 ORDER BY (deleted_at IS NULL) DESC, updated_at DESC
		 LIMIT 1`, title)
	return scanCurrency(row)
}

func (r *CurrencyRepository) FindAll(ctx context.Context) ([]*domain.Currency, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+currencyColumns+` FROM currencies ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query currencies: %w", err)
	}
	defer rows.Close()

	var currencies []*domain.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

func (r *CurrencyRepository) Save(ctx context.Context, c *domain.Currency) (*domain.Currency, error) {
	rate, err := decimalToNumeric(c.ExchangeRate)
	if err != nil {
		return nil, fmt.Errorf("encode exchange rate: %w", err)
	}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO currencies (title, short_name, exchange_rate,
		                         position, created_at, created_by, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		c.Title, c.ShortName, rate,
		c.Position, c.CreatedAt, c.CreatedBy, c.UpdatedAt, c.UpdatedBy,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert currency: %w", err)
	}
	return c, nil
}

func (r *CurrencyRepository) update(ctx context.Context, db execer, c *domain.Currency) error {
	rate, err := decimalToNumeric(c.ExchangeRate)
	if err != nil {
		return fmt.Errorf("encode exchange rate: %w", err)
	}
	tag, err := db.Exec(ctx,
		`UPDATE currencies
		 SET title = $2, short_name = $3, exchange_rate = $4, position = $5,
		     updated_at = $6, updated_by = $7, deleted_at = $8, deleted_by = $9
		 WHERE id = $1`,
		c.ID, c.Title, c.ShortName, rate, c.Position,
		c.UpdatedAt, c.UpdatedBy, nullableTime(c.DeletedAt), nullableText(c.DeletedBy),
	)
	if err != nil {
		return fmt.Errorf("update currency %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CurrencyRepository) Update(ctx context.Context, c *domain.Currency) (*domain.Currency, error) {
	if err := r.update(ctx, r.pool, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CurrencyRepository) UpdateAll(ctx context.Context, currencies []*domain.Currency) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range currencies {
		if err := r.update(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
