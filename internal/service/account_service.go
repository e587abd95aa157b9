package service

import (
	"context"
	"errors"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/lifecycle"
)

// AccountService manages the account collection.
type AccountService struct {
	*collection[*domain.Account]
	accounts   domain.TitledStore[*domain.Account]
	currencies domain.TitledStore[*domain.Currency]
}

// NewAccountService creates an AccountService.
func NewAccountService(accounts domain.TitledStore[*domain.Account], currencies domain.TitledStore[*domain.Currency]) *AccountService {
	return &AccountService{
		collection: newCollection[*domain.Account](accounts),
		accounts:   accounts,
		currencies: currencies,
	}
}

// CreateAccountInput holds the input for creating an account.
type CreateAccountInput struct {
	Title      string
	Amount     int64
	Type       domain.AccountType
	CurrencyID int64
}

// UpdateAccountInput patches an account; nil fields keep the stored value.
type UpdateAccountInput struct {
	Title      *string
	Amount     *int64
	Type       *domain.AccountType
	CurrencyID *int64
	Closed     *bool
}

// Create validates and persists a new account at the next free position.
func (s *AccountService) Create(ctx context.Context, actor string, in CreateAccountInput) (*domain.Account, error) {
	title, err := validTitle("title", in.Title)
	if err != nil {
		return nil, err
	}
	used, err := titleInUse(ctx, s.accounts, title, 0)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, domain.Validation("title", domain.RuleUnique, title)
	}
	if err := validAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if !domain.ValidAccountType(in.Type) {
		return nil, domain.Validation("type", domain.RuleUnknownValue, string(in.Type))
	}
	if _, err := mustExist(ctx, s.currencies, "currencyId", in.CurrencyID); err != nil {
		return nil, err
	}

	account := &domain.Account{
		Title:      title,
		Amount:     in.Amount,
		Type:       in.Type,
		CurrencyID: in.CurrencyID,
	}
	return s.insert(ctx, actor, account)
}

// GetOrCreate looks an account up by title. An active match is returned
// as-is, a soft-deleted match is restored, and a missing title is created
// as a current account in the main currency with a zero balance.
func (s *AccountService) GetOrCreate(ctx context.Context, actor string, title string) (*domain.Account, error) {
	trimmed, err := validTitle("title", title)
	if err != nil {
		return nil, err
	}
	existing, err := s.accounts.FindByTitle(ctx, trimmed)
	if err == nil {
		if existing.Deleted() {
			return s.Restore(ctx, actor, existing.ID)
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	main, err := findMain(ctx, s.currencies)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, actor, CreateAccountInput{
		Title:      trimmed,
		Type:       domain.AccountTypeCurrent,
		CurrencyID: main.ID,
	})
}

// Update patches an account. A soft-deleted account is implicitly restored
// before the field changes apply.
func (s *AccountService) Update(ctx context.Context, actor string, id int64, in UpdateAccountInput) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title, err := validTitle("title", *in.Title)
		if err != nil {
			return nil, err
		}
		used, err := titleInUse(ctx, s.accounts, title, id)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, domain.Validation("title", domain.RuleUnique, title)
		}
		account.Title = title
	}
	if in.Amount != nil {
		if err := validAmount("amount", *in.Amount); err != nil {
			return nil, err
		}
		account.Amount = *in.Amount
	}
	if in.Type != nil {
		if !domain.ValidAccountType(*in.Type) {
			return nil, domain.Validation("type", domain.RuleUnknownValue, string(*in.Type))
		}
		account.Type = *in.Type
	}
	if in.CurrencyID != nil {
		if _, err := mustExist(ctx, s.currencies, "currencyId", *in.CurrencyID); err != nil {
			return nil, err
		}
		account.CurrencyID = *in.CurrencyID
	}
	if in.Closed != nil {
		account.Closed = *in.Closed
	}

	now := s.now()
	reviveIfDeleted(account, actor, now)
	lifecycle.Touch(account, actor, now)
	return s.accounts.Update(ctx, account)
}

// SetClosed flips the closed flag. Closing is independent of the
// soft-delete lifecycle.
func (s *AccountService) SetClosed(ctx context.Context, actor string, id int64, closed bool) (*domain.Account, error) {
	return s.Update(ctx, actor, id, UpdateAccountInput{Closed: &closed})
}

// GetByCurrency lists the active accounts held in the given currency.
func (s *AccountService) GetByCurrency(ctx context.Context, currencyID int64) ([]*domain.Account, error) {
	active, err := s.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Account, 0, len(active))
	for _, a := range active {
		if a.CurrencyID == currencyID {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// findMain locates the active pivot currency (rate exactly 1).
func findMain(ctx context.Context, currencies domain.TitledStore[*domain.Currency]) (*domain.Currency, error) {
	all, err := currencies.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if !c.Deleted() && c.IsMain() {
			return c, nil
		}
	}
	return nil, domain.ErrNoMainCurrency
}
