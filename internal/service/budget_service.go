package service

import (
	"context"
	"strconv"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/lifecycle"
)

// BudgetService manages the budget collection. At most one active budget
// may reference any category; the rule lives here, not in the store.
type BudgetService struct {
	*collection[*domain.Budget]
	budgets    domain.Store[*domain.Budget]
	currencies domain.TitledStore[*domain.Currency]
	categories domain.TitledStore[*domain.Category]
}

// NewBudgetService creates a BudgetService.
func NewBudgetService(budgets domain.Store[*domain.Budget], currencies domain.TitledStore[*domain.Currency], categories domain.TitledStore[*domain.Category]) *BudgetService {
	return &BudgetService{
		collection: newCollection[*domain.Budget](budgets),
		budgets:    budgets,
		currencies: currencies,
		categories: categories,
	}
}

// CreateBudgetInput holds the input for creating a budget.
type CreateBudgetInput struct {
	Amount     int64
	CurrencyID int64
	CategoryID *int64
}

// UpdateBudgetInput patches a budget; nil fields keep the stored value.
// ClearCategory detaches the budget from its category.
type UpdateBudgetInput struct {
	Amount        *int64
	CurrencyID    *int64
	CategoryID    *int64
	ClearCategory bool
}

// Create validates and persists a new budget at the next free position.
func (s *BudgetService) Create(ctx context.Context, actor string, in CreateBudgetInput) (*domain.Budget, error) {
	if err := validAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if _, err := mustExist(ctx, s.currencies, "currencyId", in.CurrencyID); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if err := s.categoryFree(ctx, *in.CategoryID, 0); err != nil {
			return nil, err
		}
	}

	budget := &domain.Budget{
		Amount:     in.Amount,
		CurrencyID: in.CurrencyID,
		CategoryID: in.CategoryID,
	}
	return s.insert(ctx, actor, budget)
}

// Update patches a budget. A soft-deleted budget is implicitly restored
// before the field changes apply, which re-checks the one-per-category
// rule against the budget's resulting category.
func (s *BudgetService) Update(ctx context.Context, actor string, id int64, in UpdateBudgetInput) (*domain.Budget, error) {
	budget, err := s.budgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		if err := validAmount("amount", *in.Amount); err != nil {
			return nil, err
		}
		budget.Amount = *in.Amount
	}
	if in.CurrencyID != nil {
		if _, err := mustExist(ctx, s.currencies, "currencyId", *in.CurrencyID); err != nil {
			return nil, err
		}
		budget.CurrencyID = *in.CurrencyID
	}
	switch {
	case in.ClearCategory:
		budget.CategoryID = nil
	case in.CategoryID != nil:
		budget.CategoryID = in.CategoryID
	}

	// The budget may be coming back from deleted state, or moving to a new
	// category; either way its resulting category must be free.
	if budget.CategoryID != nil && (in.CategoryID != nil || budget.Deleted()) {
		if err := s.categoryFree(ctx, *budget.CategoryID, id); err != nil {
			return nil, err
		}
	}

	now := s.now()
	reviveIfDeleted(budget, actor, now)
	lifecycle.Touch(budget, actor, now)
	return s.budgets.Update(ctx, budget)
}

// Restore brings a soft-deleted budget back, provided its category has not
// been taken by another active budget in the meantime.
func (s *BudgetService) Restore(ctx context.Context, actor string, id int64) (*domain.Budget, error) {
	budget, err := s.budgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if budget.Deleted() && budget.CategoryID != nil {
		if err := s.categoryFree(ctx, *budget.CategoryID, id); err != nil {
			return nil, err
		}
	}
	return s.collection.Restore(ctx, actor, id)
}

// GetByCategory returns the single active budget for a category, or
// domain.ErrNotFound.
func (s *BudgetService) GetByCategory(ctx context.Context, categoryID int64) (*domain.Budget, error) {
	active, err := s.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, b := range active {
		if b.CategoryID != nil && *b.CategoryID == categoryID {
			return b, nil
		}
	}
	return nil, domain.ErrNotFound
}

// categoryFree checks that categoryID exists, is active, and carries no
// active budget other than selfID.
func (s *BudgetService) categoryFree(ctx context.Context, categoryID, selfID int64) error {
	category, err := mustExist(ctx, s.categories, "categoryId", categoryID)
	if err != nil {
		return err
	}
	if category.Deleted() {
		return domain.Validation("categoryId", domain.RuleReference, strconv.FormatInt(categoryID, 10))
	}

	active, err := s.GetAll(ctx, false)
	if err != nil {
		return err
	}
	for _, b := range active {
		if b.ID != selfID && b.CategoryID != nil && *b.CategoryID == categoryID {
			return domain.Validation("categoryId", domain.RuleOnePerCategory, strconv.FormatInt(categoryID, 10))
		}
	}
	return nil
}
