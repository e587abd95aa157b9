package service

import (
	"context"
	"testing"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCurrencyService() *CurrencyService {
	return NewCurrencyService(testutil.NewCurrencyStore())
}

func createCurrency(t *testing.T, svc *CurrencyService, title, short, rate string) *domain.Currency {
	t.Helper()
	c, err := svc.Create(context.Background(), "alice", CreateCurrencyInput{
		Title:        title,
		ShortName:    short,
		ExchangeRate: decimal.RequireFromString(rate),
	})
	require.NoError(t, err)
	return c
}

func TestCurrencyService_Create(t *testing.T) {
	svc := newCurrencyService()

	eur := createCurrency(t, svc, "Euro", "EUR", "1")
	usd := createCurrency(t, svc, "US Dollar", "USD", "0.9")

	assert.Equal(t, int32(1), eur.Position)
	assert.Equal(t, int32(2), usd.Position)
	assert.True(t, eur.IsMain())
	assert.False(t, usd.IsMain())
}

func TestCurrencyService_Create_Validation(t *testing.T) {
	svc := newCurrencyService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", CreateCurrencyInput{Title: "", ShortName: "EUR", ExchangeRate: decimal.NewFromInt(1)})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)

	_, err = svc.Create(ctx, "alice", CreateCurrencyInput{Title: "Euro", ShortName: "", ExchangeRate: decimal.NewFromInt(1)})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "shortName", ve.Field)

	for _, rate := range []string{"0", "-0.5"} {
		_, err = svc.Create(ctx, "alice", CreateCurrencyInput{
			Title: "Euro", ShortName: "EUR", ExchangeRate: decimal.RequireFromString(rate),
		})
		require.ErrorAs(t, err, &ve, "rate %s", rate)
		assert.Equal(t, "exchangeRate", ve.Field)
		assert.Equal(t, domain.RulePositiveRate, ve.Rule)
	}
}

func TestCurrencyService_Create_DuplicateTitle(t *testing.T) {
	svc := newCurrencyService()
	createCurrency(t, svc, "Euro", "EUR", "1")

	_, err := svc.Create(context.Background(), "alice", CreateCurrencyInput{
		Title: "Euro", ShortName: "EU2", ExchangeRate: decimal.NewFromInt(2),
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.RuleUnique, ve.Rule)
}

func TestCurrencyService_Main(t *testing.T) {
	svc := newCurrencyService()
	ctx := context.Background()

	_, err := svc.Main(ctx)
	assert.ErrorIs(t, err, domain.ErrNoMainCurrency)

	createCurrency(t, svc, "US Dollar", "USD", "0.9")
	eur := createCurrency(t, svc, "Euro", "EUR", "1")

	main, err := svc.Main(ctx)
	require.NoError(t, err)
	assert.Equal(t, eur.ID, main.ID)
}

func TestCurrencyService_Convert(t *testing.T) {
	svc := newCurrencyService()
	ctx := context.Background()
	usd := createCurrency(t, svc, "US Dollar", "USD", "0.012")

	toMain, err := svc.ConvertToMain(ctx, usd.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(120), toMain)

	fromMain, err := svc.ConvertFromMain(ctx, usd.ID, 120)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), fromMain)

	_, err = svc.ConvertToMain(ctx, 42, 100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCurrencyService_ReverseRate(t *testing.T) {
	svc := newCurrencyService()
	ctx := context.Background()
	usd := createCurrency(t, svc, "US Dollar", "USD", "0.8")

	rev, err := svc.ReverseRate(ctx, usd.ID)
	require.NoError(t, err)
	assert.True(t, rev.Equal(decimal.RequireFromString("1.25")), "got %s", rev)
}

func TestCurrencyService_GetOrCreate(t *testing.T) {
	svc := newCurrencyService()
	ctx := context.Background()

	created, err := svc.GetOrCreate(ctx, "alice", "Tugrik")
	require.NoError(t, err)
	assert.Equal(t, "TUG", created.ShortName)
	assert.True(t, created.ExchangeRate.Equal(decimal.NewFromInt(1)))

	again, err := svc.GetOrCreate(ctx, "bob", "Tugrik")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	ok, err := svc.Delete(ctx, "alice", created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	revived, err := svc.GetOrCreate(ctx, "carol", "Tugrik")
	require.NoError(t, err)
	assert.Equal(t, created.ID, revived.ID)
	assert.Nil(t, revived.DeletedAt)
}

func TestCurrencyService_Update(t *testing.T) {
	svc := newCurrencyService()
	ctx := context.Background()
	usd := createCurrency(t, svc, "US Dollar", "USD", "0.9")

	rate := decimal.RequireFromString("0.95")
	updated, err := svc.Update(ctx, "bob", usd.ID, UpdateCurrencyInput{ExchangeRate: &rate})
	require.NoError(t, err)
	assert.True(t, updated.ExchangeRate.Equal(rate))
	assert.Equal(t, "USD", updated.ShortName)
	assert.Equal(t, "bob", updated.UpdatedBy)

	bad := decimal.Zero
	_, err = svc.Update(ctx, "bob", usd.ID, UpdateCurrencyInput{ExchangeRate: &bad})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.RulePositiveRate, ve.Rule)
}
