package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/lifecycle"
	"github.com/moneykeeper/moneykeeper-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type operationFixture struct {
	svc      *OperationService
	account  *domain.Account
	account2 *domain.Account
	category *domain.Category
	currency *domain.Currency
}

func newOperationFixture(t *testing.T) *operationFixture {
	t.Helper()
	now := time.Now().UTC()

	currencies := testutil.NewCurrencyStore()
	eur := &domain.Currency{Title: "Euro", ShortName: "EUR", ExchangeRate: decimal.NewFromInt(1)}
	eur.ID = 1
	eur.Position = 1
	lifecycle.Init(eur, "seeder", now)
	currencies.Add(eur)

	accounts := testutil.NewAccountStore()
	main := &domain.Account{Title: "Main", Type: domain.AccountTypeCurrent, CurrencyID: 1}
	main.ID = 1
	main.Position = 1
	lifecycle.Init(main, "seeder", now)
	accounts.Add(main)
	savings := &domain.Account{Title: "Savings", Type: domain.AccountTypeSavings, CurrencyID: 1}
	savings.ID = 2
	savings.Position = 2
	lifecycle.Init(savings, "seeder", now)
	accounts.Add(savings)

	categories := testutil.NewCategoryStore()
	food := &domain.Category{Title: "Food", OperationType: domain.OperationTypeExpense, Type: domain.CategoryTypeParent}
	food.ID = 1
	food.Position = 1
	lifecycle.Init(food, "seeder", now)
	categories.Add(food)

	return &operationFixture{
		svc:      NewOperationService(testutil.NewOperationStore(), accounts, categories, currencies),
		account:  main,
		account2: savings,
		category: food,
		currency: eur,
	}
}

func (f *operationFixture) expense(t *testing.T, amount int64) *domain.Operation {
	t.Helper()
	o, err := f.svc.Create(context.Background(), "alice", CreateOperationInput{
		Type:       domain.OperationTypeExpense,
		Amount:     amount,
		CategoryID: f.category.ID,
		AccountID:  f.account.ID,
		CurrencyID: f.currency.ID,
	})
	require.NoError(t, err)
	return o
}

func TestOperationService_Create(t *testing.T) {
	f := newOperationFixture(t)

	op := f.expense(t, 1250)
	assert.Equal(t, int32(1), op.Position)
	assert.False(t, op.Date.IsZero(), "zero date defaults to now")
	assert.False(t, op.IsTransfer())

	second := f.expense(t, 900)
	assert.Equal(t, int32(2), second.Position)
}

func TestOperationService_Create_Validation(t *testing.T) {
	f := newOperationFixture(t)
	ctx := context.Background()
	var ve *domain.ValidationError

	_, err := f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: "loan", Amount: 100, CategoryID: 1, AccountID: 1, CurrencyID: 1,
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Field)

	_, err = f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: domain.OperationTypeExpense, Amount: 100,
		Comment:    strings.Repeat("x", domain.MaxCommentLength+1),
		CategoryID: 1, AccountID: 1, CurrencyID: 1,
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "comment", ve.Field)

	_, err = f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: domain.OperationTypeExpense, Amount: 100, CategoryID: 9, AccountID: 1, CurrencyID: 1,
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "categoryId", ve.Field)

	_, err = f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: domain.OperationTypeExpense, Amount: 100, CategoryID: 1, AccountID: 9, CurrencyID: 1,
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "accountId", ve.Field)
}

func TestOperationService_Create_TransferAllOrNone(t *testing.T) {
	f := newOperationFixture(t)
	ctx := context.Background()
	toAmount := int64(500)

	// Partial transfer fields are rejected.
	_, err := f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: domain.OperationTypeExpense, Amount: 500,
		CategoryID: 1, AccountID: 1, CurrencyID: 1,
		ToAccountID: &f.account2.ID,
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.RuleTransferFields, ve.Rule)

	// All three together form a transfer.
	transfer, err := f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: domain.OperationTypeExpense, Amount: 500,
		CategoryID: 1, AccountID: 1, CurrencyID: 1,
		ToAccountID: &f.account2.ID, ToCurrencyID: &f.currency.ID, ToAmount: &toAmount,
	})
	require.NoError(t, err)
	assert.True(t, transfer.IsTransfer())

	// The destination must exist.
	missing := int64(9)
	_, err = f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: domain.OperationTypeExpense, Amount: 500,
		CategoryID: 1, AccountID: 1, CurrencyID: 1,
		ToAccountID: &missing, ToCurrencyID: &f.currency.ID, ToAmount: &toAmount,
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "toAccountId", ve.Field)
	assert.Equal(t, domain.RuleReference, ve.Rule)
}

func TestOperationService_Update_Patch(t *testing.T) {
	f := newOperationFixture(t)
	ctx := context.Background()
	op := f.expense(t, 1000)

	amount := int64(1500)
	comment := "groceries"
	updated, err := f.svc.Update(ctx, "bob", op.ID, UpdateOperationInput{
		Amount: &amount, Comment: &comment,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.Amount)
	assert.Equal(t, "groceries", updated.Comment)
	assert.Equal(t, op.Type, updated.Type)
	assert.Equal(t, "bob", updated.UpdatedBy)
}

func TestOperationService_Update_ClearTransfer(t *testing.T) {
	f := newOperationFixture(t)
	ctx := context.Background()
	toAmount := int64(500)

	transfer, err := f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: domain.OperationTypeExpense, Amount: 500,
		CategoryID: 1, AccountID: 1, CurrencyID: 1,
		ToAccountID: &f.account2.ID, ToCurrencyID: &f.currency.ID, ToAmount: &toAmount,
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, "alice", transfer.ID, UpdateOperationInput{ClearTransfer: true})
	require.NoError(t, err)
	assert.False(t, updated.IsTransfer())
	assert.Nil(t, updated.ToAmount)
}

func TestOperationService_Update_PartialTransferPatchRejected(t *testing.T) {
	f := newOperationFixture(t)
	op := f.expense(t, 1000)

	// Adding only one leg field leaves the operation invalid.
	_, err := f.svc.Update(context.Background(), "alice", op.ID, UpdateOperationInput{
		ToAccountID: &f.account2.ID,
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.RuleTransferFields, ve.Rule)
}

func TestOperationService_Filters(t *testing.T) {
	f := newOperationFixture(t)
	ctx := context.Background()
	toAmount := int64(500)

	f.expense(t, 100)
	income, err := f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: domain.OperationTypeIncome, Amount: 5000,
		CategoryID: 1, AccountID: 2, CurrencyID: 1,
	})
	require.NoError(t, err)
	transfer, err := f.svc.Create(ctx, "alice", CreateOperationInput{
		Type: domain.OperationTypeExpense, Amount: 500,
		CategoryID: 1, AccountID: 1, CurrencyID: 1,
		ToAccountID: &f.account2.ID, ToCurrencyID: &f.currency.ID, ToAmount: &toAmount,
	})
	require.NoError(t, err)

	byType, err := f.svc.GetByType(ctx, domain.OperationTypeIncome)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, income.ID, byType[0].ID)

	// Account 2 sees its own operations plus incoming transfer legs.
	byAccount, err := f.svc.GetByAccount(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byAccount, 2)

	byCategory, err := f.svc.GetByCategory(ctx, f.category.ID)
	require.NoError(t, err)
	assert.Len(t, byCategory, 3)

	// Deleted operations drop out of the filtered reads.
	ok, err := f.svc.Delete(ctx, "alice", transfer.ID)
	require.NoError(t, err)
	require.True(t, ok)
	byAccount, err = f.svc.GetByAccount(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, byAccount, 1)
}
