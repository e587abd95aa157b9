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

// CategoryRepository stores categories in the categories table.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

var _ domain.TitledStore[*domain.Category] = (*CategoryRepository)(nil)

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, title, operation_type, category_type, parent_id, ` + auditColumns

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var parentID pgtype.Int8
	var deletedAt pgtype.Timestamptz
	var deletedBy pgtype.Text
	err := row.Scan(
		&c.ID, &c.Title, &c.OperationType, &c.Type, &parentID,
		&c.Position, &c.CreatedAt, &c.CreatedBy, &c.UpdatedAt, &c.UpdatedBy,
		&deletedAt, &deletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.ParentID = idPtr(parentID)
	c.DeletedAt = timePtr(deletedAt)
	c.DeletedBy = textPtr(deletedBy)
	return &c, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (r *CategoryRepository) FindByTitle(ctx context.Context, title string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE title = $1
		 ORDER BY (deleted_at IS NULL) DESC, updated_at DESC
		 LIMIT 1`, title)
	return scanCategory(row)
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Save(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (title, operation_type, category_type, parent_id,
		                         position, created_at, created_by, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		c.Title, c.OperationType, c.Type, nullableID(c.ParentID),
		c.Position, c.CreatedAt, c.CreatedBy, c.UpdatedAt, c.UpdatedBy,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) update(ctx context.Context, db execer, c *domain.Category) error {
	tag, err := db.Exec(ctx,
		`UPDATE categories
		 SET title = $2, operation_type = $3, category_type = $4, parent_id = $5,
		     position = $6, updated_at = $7, updated_by = $8,
		     deleted_at = $9, deleted_by = $10
		 WHERE id = $1`,
		c.ID, c.Title, c.OperationType, c.Type, nullableID(c.ParentID),
		c.Position, c.UpdatedAt, c.UpdatedBy,
		nullableTime(c.DeletedAt), nullableText(c.DeletedBy),
	)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if err := r.update(ctx, r.pool, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) UpdateAll(ctx context.Context, categories []*domain.Category) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range categories {
		if err := r.update(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
