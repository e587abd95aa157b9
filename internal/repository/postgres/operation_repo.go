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

// OperationRepository stores operations in the operations table. The three
// transfer columns are nullable and set together or not at all.
type OperationRepository struct {
	pool *pgxpool.Pool
}

var _ domain.Store[*domain.Operation] = (*OperationRepository)(nil)

func NewOperationRepository(pool *pgxpool.Pool) *OperationRepository {
	return &OperationRepository{pool: pool}
}

const operationColumns = `id, operation_type, date, amount, comment,
	category_id, account_id, currency_id, to_account_id, to_currency_id, to_amount, ` + auditColumns

func scanOperation(row pgx.Row) (*domain.Operation, error) {
	var o domain.Operation
	var toAccountID, toCurrencyID, toAmount pgtype.Int8
	var deletedAt pgtype.Timestamptz
	var deletedBy pgtype.Text
	err := row.Scan(
		&o.ID, &o.Type, &o.Date, &o.Amount, &o.Comment,
		&o.CategoryID, &o.AccountID, &o.CurrencyID,
		&toAccountID, &toCurrencyID, &toAmount,
		&o.Position, &o.CreatedAt, &o.CreatedBy, &o.UpdatedAt, &o.UpdatedBy,
		&deletedAt, &deletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan operation: %w", err)
	}
	o.ToAccountID = idPtr(toAccountID)
	o.ToCurrencyID = idPtr(toCurrencyID)
	o.ToAmount = idPtr(toAmount)
	o.DeletedAt = timePtr(deletedAt)
	o.DeletedBy = textPtr(deletedBy)
	return &o, nil
}

func (r *OperationRepository) FindByID(ctx context.Context, id int64) (*domain.Operation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+operationColumns+` FROM operations WHERE id = $1`, id)
	return scanOperation(row)
}

func (r *OperationRepository) FindAll(ctx context.Context) ([]*domain.Operation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+operationColumns+` FROM operations ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var operations []*domain.Operation
	for rows.Next() {
		o, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		operations = append(operations, o)
	}
	return operations, rows.Err()
}

func (r *OperationRepository) Save(ctx context.Context, o *domain.Operation) (*domain.Operation, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO operations (operation_type, date, amount, comment,
		                         category_id, account_id, currency_id,
		                         to_account_id, to_currency_id, to_amount,
		                         position, created_at, created_by, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		o.Type, o.Date, o.Amount, o.Comment,
		o.CategoryID, o.AccountID, o.CurrencyID,
		nullableID(o.ToAccountID), nullableID(o.ToCurrencyID), nullableID(o.ToAmount),
		o.Position, o.CreatedAt, o.CreatedBy, o.UpdatedAt, o.UpdatedBy,
	).Scan(&o.ID)
	if err != nil {
		return nil, fmt.Errorf("insert operation: %w", err)
	}
	return o, nil
}

func (r *OperationRepository) update(ctx context.Context, db execer, o *domain.Operation) error {
	tag, err := db.Exec(ctx,
		`UPDATE operations
		 SET operation_type = $2, date = $3, amount = $4, comment = $5,
		     category_id = $6, account_id = $7, currency_id = $8,
		     to_account_id = $9, to_currency_id = $10, to_amount = $11,
		     position = $12, updated_at = $13, updated_by = $14,
		     deleted_at = $15, deleted_by = $16
		 WHERE id = $1`,
		o.ID, o.Type, o.Date, o.Amount, o.Comment,
		o.CategoryID, o.AccountID, o.CurrencyID,
		nullableID(o.ToAccountID), nullableID(o.ToCurrencyID), nullableID(o.ToAmount),
		o.Position, o.UpdatedAt, o.UpdatedBy,
		nullableTime(o.DeletedAt), nullableText(o.DeletedBy),
	)
	if err != nil {
		return fmt.Errorf("update operation %d: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OperationRepository) Update(ctx context.Context, o *domain.Operation) (*domain.Operation, error) {
	if err := r.update(ctx, r.pool, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OperationRepository) UpdateAll(ctx context.Context, operations []*domain.Operation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, o := range operations {
		if err := r.update(ctx, tx, o); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
