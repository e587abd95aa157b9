package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/lifecycle"
	"github.com/moneykeeper/moneykeeper-backend/internal/money"
	"github.com/shopspring/decimal"
)

// CurrencyService manages the currency collection and the conversion
// routines built on its exchange rates.
type CurrencyService struct {
	*collection[*domain.Currency]
	currencies domain.TitledStore[*domain.Currency]
}

// NewCurrencyService creates a CurrencyService.
func NewCurrencyService(currencies domain.TitledStore[*domain.Currency]) *CurrencyService {
	return &CurrencyService{
		collection: newCollection[*domain.Currency](currencies),
		currencies: currencies,
	}
}

// CreateCurrencyInput holds the input for creating a currency.
type CreateCurrencyInput struct {
	Title        string
	ShortName    string
	ExchangeRate decimal.Decimal
}

// UpdateCurrencyInput patches a currency; nil fields keep the stored value.
type UpdateCurrencyInput struct {
	Title        *string
	ShortName    *string
	ExchangeRate *decimal.Decimal
}

// Create validates and persists a new currency at the next free position.
func (s *CurrencyService) Create(ctx context.Context, actor string, in CreateCurrencyInput) (*domain.Currency, error) {
	title, err := validTitle("title", in.Title)
	if err != nil {
		return nil, err
	}
	used, err := titleInUse(ctx, s.currencies, title, 0)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, domain.Validation("title", domain.RuleUnique, title)
	}
	shortName, err := validShortName(in.ShortName)
	if err != nil {
		return nil, err
	}
	if !in.ExchangeRate.IsPositive() {
		return nil, domain.Validation("exchangeRate", domain.RulePositiveRate, in.ExchangeRate.String())
	}

	currency := &domain.Currency{
		Title:        title,
		ShortName:    shortName,
		ExchangeRate: in.ExchangeRate,
	}
	return s.insert(ctx, actor, currency)
}

// GetOrCreate looks a currency up by title. An active match is returned
// as-is, a soft-deleted match is restored, and a missing title is created
// with a rate of 1.
func (s *CurrencyService) GetOrCreate(ctx context.Context, actor string, title string) (*domain.Currency, error) {
	trimmed, err := validTitle("title", title)
	if err != nil {
		return nil, err
	}
	existing, err := s.currencies.FindByTitle(ctx, trimmed)
	if err == nil {
		if existing.Deleted() {
			return s.Restore(ctx, actor, existing.ID)
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.Create(ctx, actor, CreateCurrencyInput{
		Title:        trimmed,
		ShortName:    defaultShortName(trimmed),
		ExchangeRate: decimal.NewFromInt(1),
	})
}

// Update patches a currency. A soft-deleted currency is implicitly
// restored before the field changes apply.
func (s *CurrencyService) Update(ctx context.Context, actor string, id int64, in UpdateCurrencyInput) (*domain.Currency, error) {
	currency, err := s.currencies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title, err := validTitle("title", *in.Title)
		if err != nil {
			return nil, err
		}
		used, err := titleInUse(ctx, s.currencies, title, id)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, domain.Validation("title", domain.RuleUnique, title)
		}
		currency.Title = title
	}
	if in.ShortName != nil {
		shortName, err := validShortName(*in.ShortName)
		if err != nil {
			return nil, err
		}
		currency.ShortName = shortName
	}
	if in.ExchangeRate != nil {
		if !in.ExchangeRate.IsPositive() {
			return nil, domain.Validation("exchangeRate", domain.RulePositiveRate, in.ExchangeRate.String())
		}
		currency.ExchangeRate = *in.ExchangeRate
	}

	now := s.now()
	reviveIfDeleted(currency, actor, now)
	lifecycle.Touch(currency, actor, now)
	return s.currencies.Update(ctx, currency)
}

// Main returns the pivot currency, the active one with a rate of exactly 1.
func (s *CurrencyService) Main(ctx context.Context) (*domain.Currency, error) {
	active, err := s.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, c := range active {
		if c.IsMain() {
			return c, nil
		}
	}
	return nil, domain.ErrNoMainCurrency
}

// ConvertToMain converts an amount in minor units of the given currency to
// minor units of the main currency.
func (s *CurrencyService) ConvertToMain(ctx context.Context, currencyID int64, amount int64) (int64, error) {
	currency, err := s.currencies.FindByID(ctx, currencyID)
	if err != nil {
		return 0, err
	}
	return money.ConvertToMain(amount, currency.ExchangeRate)
}

// ConvertFromMain converts an amount in minor units of the main currency
// to minor units of the given currency.
func (s *CurrencyService) ConvertFromMain(ctx context.Context, currencyID int64, amount int64) (int64, error) {
	currency, err := s.currencies.FindByID(ctx, currencyID)
	if err != nil {
		return 0, err
	}
	return money.ConvertFromMain(amount, currency.ExchangeRate)
}

// ReverseRate returns the inverted exchange rate of the given currency.
func (s *CurrencyService) ReverseRate(ctx context.Context, currencyID int64) (decimal.Decimal, error) {
	currency, err := s.currencies.FindByID(ctx, currencyID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return money.ReverseRate(currency.ExchangeRate)
}

func validShortName(shortName string) (string, error) {
	shortName = strings.TrimSpace(shortName)
	if shortName == "" {
		return "", domain.Validation("shortName", domain.RuleRequired, "")
	}
	if utf8.RuneCountInString(shortName) > domain.MaxShortNameLength {
		return "", domain.Validation("shortName", domain.RuleTooLong, shortName)
	}
	return shortName, nil
}

// defaultShortName derives a code for currencies created through
// get-or-create, where only a title is supplied.
func defaultShortName(title string) string {
	runes := []rune(strings.ToUpper(title))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
