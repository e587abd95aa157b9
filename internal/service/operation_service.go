package service

import (
	"context"
	"time"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/lifecycle"
)

// OperationService manages the operation collection. A transfer is a
// single operation carrying a second leg in the three to-fields, which are
// present together or absent together.
type OperationService struct {
	*collection[*domain.Operation]
	operations domain.Store[*domain.Operation]
	accounts   domain.TitledStore[*domain.Account]
	categories domain.TitledStore[*domain.Category]
	currencies domain.TitledStore[*domain.Currency]
}

// NewOperationService creates an OperationService.
func NewOperationService(
	operations domain.Store[*domain.Operation],
	accounts domain.TitledStore[*domain.Account],
	categories domain.TitledStore[*domain.Category],
	currencies domain.TitledStore[*domain.Currency],
) *OperationService {
	return &OperationService{
		collection: newCollection[*domain.Operation](operations),
		operations: operations,
		accounts:   accounts,
		categories: categories,
		currencies: currencies,
	}
}

// CreateOperationInput holds the input for creating an operation. The
// transfer fields must all be set or all be nil. A zero Date defaults to
// the current time.
type CreateOperationInput struct {
	Type       domain.OperationType
	Date       time.Time
	Amount     int64
	Comment    string
	CategoryID int64
	AccountID  int64
	CurrencyID int64

	ToAccountID  *int64
	ToCurrencyID *int64
	ToAmount     *int64
}

// UpdateOperationInput patches an operation; nil fields keep the stored
// value. ClearTransfer removes the second leg; setting any transfer field
// requires the resulting operation to carry all three.
type UpdateOperationInput struct {
	Type       *domain.OperationType
	Date       *time.Time
	Amount     *int64
	Comment    *string
	CategoryID *int64
	AccountID  *int64
	CurrencyID *int64

	ToAccountID   *int64
	ToCurrencyID  *int64
	ToAmount      *int64
	ClearTransfer bool
}

// Create validates and persists a new operation at the next free position.
func (s *OperationService) Create(ctx context.Context, actor string, in CreateOperationInput) (*domain.Operation, error) {
	if !domain.ValidOperationType(in.Type) {
		return nil, domain.Validation("type", domain.RuleUnknownValue, string(in.Type))
	}
	if err := validAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if len(in.Comment) > domain.MaxCommentLength {
		return nil, domain.Validation("comment", domain.RuleTooLong, in.Comment)
	}
	if _, err := mustExist(ctx, s.categories, "categoryId", in.CategoryID); err != nil {
		return nil, err
	}
	if _, err := mustExist(ctx, s.accounts, "accountId", in.AccountID); err != nil {
		return nil, err
	}
	if _, err := mustExist(ctx, s.currencies, "currencyId", in.CurrencyID); err != nil {
		return nil, err
	}

	operation := &domain.Operation{
		Type:         in.Type,
		Date:         in.Date,
		Amount:       in.Amount,
		Comment:      in.Comment,
		CategoryID:   in.CategoryID,
		AccountID:    in.AccountID,
		CurrencyID:   in.CurrencyID,
		ToAccountID:  in.ToAccountID,
		ToCurrencyID: in.ToCurrencyID,
		ToAmount:     in.ToAmount,
	}
	if operation.Date.IsZero() {
		operation.Date = s.now()
	}
	if err := s.validTransfer(ctx, operation); err != nil {
		return nil, err
	}
	return s.insert(ctx, actor, operation)
}

// Update patches an operation. A soft-deleted operation is implicitly
// restored before the field changes apply.
func (s *OperationService) Update(ctx context.Context, actor string, id int64, in UpdateOperationInput) (*domain.Operation, error) {
	operation, err := s.operations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Type != nil {
		if !domain.ValidOperationType(*in.Type) {
			return nil, domain.Validation("type", domain.RuleUnknownValue, string(*in.Type))
		}
		operation.Type = *in.Type
	}
	if in.Date != nil {
		operation.Date = *in.Date
	}
	if in.Amount != nil {
		if err := validAmount("amount", *in.Amount); err != nil {
			return nil, err
		}
		operation.Amount = *in.Amount
	}
	if in.Comment != nil {
		if len(*in.Comment) > domain.MaxCommentLength {
			return nil, domain.Validation("comment", domain.RuleTooLong, *in.Comment)
		}
		operation.Comment = *in.Comment
	}
	if in.CategoryID != nil {
		if _, err := mustExist(ctx, s.categories, "categoryId", *in.CategoryID); err != nil {
			return nil, err
		}
		operation.CategoryID = *in.CategoryID
	}
	if in.AccountID != nil {
		if _, err := mustExist(ctx, s.accounts, "accountId", *in.AccountID); err != nil {
			return nil, err
		}
		operation.AccountID = *in.AccountID
	}
	if in.CurrencyID != nil {
		if _, err := mustExist(ctx, s.currencies, "currencyId", *in.CurrencyID); err != nil {
			return nil, err
		}
		operation.CurrencyID = *in.CurrencyID
	}

	if in.ClearTransfer {
		operation.ToAccountID = nil
		operation.ToCurrencyID = nil
		operation.ToAmount = nil
	} else {
		if in.ToAccountID != nil {
			operation.ToAccountID = in.ToAccountID
		}
		if in.ToCurrencyID != nil {
			operation.ToCurrencyID = in.ToCurrencyID
		}
		if in.ToAmount != nil {
			operation.ToAmount = in.ToAmount
		}
	}
	if err := s.validTransfer(ctx, operation); err != nil {
		return nil, err
	}

	now := s.now()
	reviveIfDeleted(operation, actor, now)
	lifecycle.Touch(operation, actor, now)
	return s.operations.Update(ctx, operation)
}

// GetByAccount lists the active operations charged to the given account,
// transfer destinations included.
func (s *OperationService) GetByAccount(ctx context.Context, accountID int64) ([]*domain.Operation, error) {
	return s.filter(ctx, func(o *domain.Operation) bool {
		if o.AccountID == accountID {
			return true
		}
		return o.ToAccountID != nil && *o.ToAccountID == accountID
	})
}

// GetByCategory lists the active operations in the given category.
func (s *OperationService) GetByCategory(ctx context.Context, categoryID int64) ([]*domain.Operation, error) {
	return s.filter(ctx, func(o *domain.Operation) bool { return o.CategoryID == categoryID })
}

// GetByType lists the active operations of the given type.
func (s *OperationService) GetByType(ctx context.Context, t domain.OperationType) ([]*domain.Operation, error) {
	return s.filter(ctx, func(o *domain.Operation) bool { return o.Type == t })
}

func (s *OperationService) filter(ctx context.Context, keep func(*domain.Operation) bool) ([]*domain.Operation, error) {
	active, err := s.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Operation, 0, len(active))
	for _, o := range active {
		if keep(o) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// validTransfer enforces the all-or-none transfer contract on the
// operation's final state and resolves the second leg's references.
func (s *OperationService) validTransfer(ctx context.Context, o *domain.Operation) error {
	set := 0
	if o.ToAccountID != nil {
		set++
	}
	if o.ToCurrencyID != nil {
		set++
	}
	if o.ToAmount != nil {
		set++
	}
	if set == 0 {
		return nil
	}
	if set != 3 {
		return domain.Validation("toAccountId", domain.RuleTransferFields, "")
	}
	if _, err := mustExist(ctx, s.accounts, "toAccountId", *o.ToAccountID); err != nil {
		return err
	}
	if _, err := mustExist(ctx, s.currencies, "toCurrencyId", *o.ToCurrencyID); err != nil {
		return err
	}
	return validAmount("toAmount", *o.ToAmount)
}
