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

// BudgetRepository stores budgets in the budgets table.
type BudgetRepository struct {
	pool *pgxpool.Pool
}

var _ domain.Store[*domain.Budget] = (*BudgetRepository)(nil)

func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, amount, currency_id, category_id, ` + auditColumns

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var categoryID pgtype.Int8
	var deletedAt pgtype.Timestamptz
	var deletedBy pgtype.Text
	err := row.Scan(
		&b.ID, &b.Amount, &b.CurrencyID, &categoryID,
		&b.Position, &b.CreatedAt, &b.CreatedBy, &b.UpdatedAt, &b.UpdatedBy,
		&deletedAt, &deletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan budget: %w", err)
	}
	b.CategoryID = idPtr(categoryID)
	b.DeletedAt = timePtr(deletedAt)
	b.DeletedBy = textPtr(deletedBy)
	return &b, nil
}

func (r *BudgetRepository) FindByID(ctx context.Context, id int64) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)
	return scanBudget(row)
}

func (r *BudgetRepository) FindAll(ctx context.Context) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) Save(ctx context.Context, b *domain.Budget) (*domain.Budget, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO budgets (amount, currency_id, category_id,
		                      position, created_at, created_by, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		b.Amount, b.CurrencyID, nullableID(b.CategoryID),
		b.Position, b.CreatedAt, b.CreatedBy, b.UpdatedAt, b.UpdatedBy,
	).Scan(&b.ID)
	if err != nil {
		return nil, fmt.Errorf("insert budget: %w", err)
	}
	return b, nil
}

func (r *BudgetRepository) update(ctx context.Context, db execer, b *domain.Budget) error {
	tag, err := db.Exec(ctx,
		`UPDATE budgets
		 SET amount = $2, currency_id = $3, category_id = $4, position = $5,
		     updated_at = $6, updated_by = $7, deleted_at = $8, deleted_by = $9
		 WHERE id = $1`,
		b.ID, b.Amount, b.CurrencyID, nullableID(b.CategoryID), b.Position,
		b.UpdatedAt, b.UpdatedBy, nullableTime(b.DeletedAt), nullableText(b.DeletedBy),
	)
	if err != nil {
		return fmt.Errorf("update budget %d: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BudgetRepository) Update(ctx context.Context, b *domain.Budget) (*domain.Budget, error) {
	if err := r.update(ctx, r.pool, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BudgetRepository) UpdateAll(ctx context.Context, budgets []*domain.Budget) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, b := range budgets {
		if err := r.update(ctx, tx, b); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
