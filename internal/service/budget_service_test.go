package service

import (
	"context"
	"testing"
	"time"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/lifecycle"
	"github.com/moneykeeper/moneykeeper-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type budgetFixture struct {
	svc        *BudgetService
	categories *CategoryService
}

func newBudgetFixture(t *testing.T) *budgetFixture {
	t.Helper()
	currencies := testutil.NewCurrencyStore()
	main := &domain.Currency{Title: "Euro", ShortName: "EUR", ExchangeRate: decimal.NewFromInt(1)}
	main.ID = 1
	main.Position = 1
	lifecycle.Init(main, "seeder", time.Now().UTC())
	currencies.Add(main)

	categoryStore := testutil.NewCategoryStore()
	return &budgetFixture{
		svc:        NewBudgetService(testutil.NewBudgetStore(), currencies, categoryStore),
		categories: NewCategoryService(categoryStore),
	}
}

func (f *budgetFixture) category(t *testing.T, title string) *domain.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), "alice", CreateCategoryInput{
		Title: title, OperationType: domain.OperationTypeExpense, Type: domain.CategoryTypeParent,
	})
	require.NoError(t, err)
	return c
}

func TestBudgetService_Create(t *testing.T) {
	f := newBudgetFixture(t)
	ctx := context.Background()
	food := f.category(t, "Food")

	budget, err := f.svc.Create(ctx, "alice", CreateBudgetInput{
		Amount: 50000, CurrencyID: 1, CategoryID: &food.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), budget.Position)
	assert.Equal(t, int64(50000), budget.Amount)

	// A second, uncategorized budget is fine.
	free, err := f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: 10000, CurrencyID: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(2), free.Position)
	assert.Nil(t, free.CategoryID)
}

func TestBudgetService_Create_Validation(t *testing.T) {
	f := newBudgetFixture(t)
	ctx := context.Background()

	var ve *domain.ValidationError

	_, err := f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: domain.MinAmount - 1, CurrencyID: 1})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amount", ve.Field)

	_, err = f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: 100, CurrencyID: 99})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "currencyId", ve.Field)
	assert.Equal(t, domain.RuleReference, ve.Rule)

	missing := int64(42)
	_, err = f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: 100, CurrencyID: 1, CategoryID: &missing})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "categoryId", ve.Field)
}

func TestBudgetService_OneActiveBudgetPerCategory(t *testing.T) {
	f := newBudgetFixture(t)
	ctx := context.Background()
	food := f.category(t, "Food")

	first, err := f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: 100, CurrencyID: 1, CategoryID: &food.ID})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: 200, CurrencyID: 1, CategoryID: &food.ID})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "categoryId", ve.Field)
	assert.Equal(t, domain.RuleOnePerCategory, ve.Rule)

	// Deleting the holder frees the category.
	ok, err := f.svc.Delete(ctx, "alice", first.ID)
	require.NoError(t, err)
	require.True(t, ok)

	second, err := f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: 200, CurrencyID: 1, CategoryID: &food.ID})
	require.NoError(t, err)

	// And the deleted one can no longer be restored while the category is
	// taken.
	_, err = f.svc.Restore(ctx, "alice", first.ID)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.RuleOnePerCategory, ve.Rule)

	// Freeing the category again allows the restore.
	ok, err = f.svc.Delete(ctx, "alice", second.ID)
	require.NoError(t, err)
	require.True(t, ok)
	restored, err := f.svc.Restore(ctx, "alice", first.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
}

func TestBudgetService_Update_MoveToTakenCategory(t *testing.T) {
	f := newBudgetFixture(t)
	ctx := context.Background()
	food := f.category(t, "Food")
	fun := f.category(t, "Fun")

	_, err := f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: 100, CurrencyID: 1, CategoryID: &food.ID})
	require.NoError(t, err)
	other, err := f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: 200, CurrencyID: 1, CategoryID: &fun.ID})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "alice", other.ID, UpdateBudgetInput{CategoryID: &food.ID})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.RuleOnePerCategory, ve.Rule)

	// Detaching works.
	updated, err := f.svc.Update(ctx, "alice", other.ID, UpdateBudgetInput{ClearCategory: true})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}

func TestBudgetService_GetByCategory(t *testing.T) {
	f := newBudgetFixture(t)
	ctx := context.Background()
	food := f.category(t, "Food")

	_, err := f.svc.GetByCategory(ctx, food.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	budget, err := f.svc.Create(ctx, "alice", CreateBudgetInput{Amount: 100, CurrencyID: 1, CategoryID: &food.ID})
	require.NoError(t, err)

	found, err := f.svc.GetByCategory(ctx, food.ID)
	require.NoError(t, err)
	assert.Equal(t, budget.ID, found.ID)
}
