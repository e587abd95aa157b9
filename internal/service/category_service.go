package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/lifecycle"
)

// maxCategoryDepth bounds the ancestor walk; the tree is shallow in
// practice, this only guards against corrupted parent chains.
const maxCategoryDepth = 100

// CategoryService manages the category collection and its parent/child
// tree.
type CategoryService struct {
	*collection[*domain.Category]
	categories domain.TitledStore[*domain.Category]
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories domain.TitledStore[*domain.Category]) *CategoryService {
	return &CategoryService{
		collection: newCollection[*domain.Category](categories),
		categories: categories,
	}
}

// CreateCategoryInput holds the input for creating a category.
type CreateCategoryInput struct {
	Title         string
	OperationType domain.OperationType
	Type          domain.CategoryType
	ParentID      *int64
}

// UpdateCategoryInput patches a category; nil fields keep the stored
// value. ClearParent detaches the category from its parent.
type UpdateCategoryInput struct {
	Title         *string
	OperationType *domain.OperationType
	Type          *domain.CategoryType
	ParentID      *int64
	ClearParent   bool
}

// Create validates and persists a new category at the next free position.
// Category titles are not unique; a parent reference must point at an
// existing active category.
func (s *CategoryService) Create(ctx context.Context, actor string, in CreateCategoryInput) (*domain.Category, error) {
	title, err := validTitle("title", in.Title)
	if err != nil {
		return nil, err
	}
	if !domain.ValidOperationType(in.OperationType) {
		return nil, domain.Validation("operationType", domain.RuleUnknownValue, string(in.OperationType))
	}
	if !domain.ValidCategoryType(in.Type) {
		return nil, domain.Validation("type", domain.RuleUnknownValue, string(in.Type))
	}
	if in.ParentID != nil {
		if err := s.validParent(ctx, 0, *in.ParentID); err != nil {
			return nil, err
		}
	}

	category := &domain.Category{
		Title:         title,
		OperationType: in.OperationType,
		Type:          in.Type,
		ParentID:      in.ParentID,
	}
	return s.insert(ctx, actor, category)
}

// GetOrCreate looks a category up by title. An active match is returned
// as-is, a soft-deleted match is restored, and a missing title is created
// as a parent expense category.
func (s *CategoryService) GetOrCreate(ctx context.Context, actor string, title string) (*domain.Category, error) {
	trimmed, err := validTitle("title", title)
	if err != nil {
		return nil, err
	}
	existing, err := s.categories.FindByTitle(ctx, trimmed)
	if err == nil {
		if existing.Deleted() {
			return s.Restore(ctx, actor, existing.ID)
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.Create(ctx, actor, CreateCategoryInput{
		Title:         trimmed,
		OperationType: domain.OperationTypeExpense,
		Type:          domain.CategoryTypeParent,
	})
}

// Update patches a category. A soft-deleted category is implicitly
// restored before the field changes apply.
func (s *CategoryService) Update(ctx context.Context, actor string, id int64, in UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title, err := validTitle("title", *in.Title)
		if err != nil {
			return nil, err
		}
		category.Title = title
	}
	if in.OperationType != nil {
		if !domain.ValidOperationType(*in.OperationType) {
			return nil, domain.Validation("operationType", domain.RuleUnknownValue, string(*in.OperationType))
		}
		category.OperationType = *in.OperationType
	}
	if in.Type != nil {
		if !domain.ValidCategoryType(*in.Type) {
			return nil, domain.Validation("type", domain.RuleUnknownValue, string(*in.Type))
		}
		category.Type = *in.Type
	}
	switch {
	case in.ClearParent:
		category.ParentID = nil
	case in.ParentID != nil:
		if err := s.validParent(ctx, id, *in.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = in.ParentID
	}

	now := s.now()
	reviveIfDeleted(category, actor, now)
	lifecycle.Touch(category, actor, now)
	return s.categories.Update(ctx, category)
}

// GetByOperationType lists the active categories of the given operation
// type.
func (s *CategoryService) GetByOperationType(ctx context.Context, t domain.OperationType) ([]*domain.Category, error) {
	active, err := s.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Category, 0, len(active))
	for _, c := range active {
		if c.OperationType == t {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// validParent checks that parentID points at an existing active category
// and that attaching selfID under it creates no cycle: a category must not
// be its own ancestor. selfID is 0 for a category not yet created.
func (s *CategoryService) validParent(ctx context.Context, selfID, parentID int64) error {
	if parentID == selfID {
		return domain.Validation("parentId", domain.RuleCycle, strconv.FormatInt(parentID, 10))
	}
	parent, err := mustExist(ctx, s.categories, "parentId", parentID)
	if err != nil {
		return err
	}
	if parent.Deleted() {
		return domain.Validation("parentId", domain.RuleReference, strconv.FormatInt(parentID, 10))
	}

	// Walk up from the parent; hitting selfID means selfID would become
	// its own ancestor.
	current := parent
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if current.ParentID == nil {
			return nil
		}
		next := *current.ParentID
		if next == selfID {
			return domain.Validation("parentId", domain.RuleCycle, strconv.FormatInt(parentID, 10))
		}
		current, err = s.categories.FindByID(ctx, next)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
	}
	return domain.Validation("parentId", domain.RuleCycle, strconv.FormatInt(parentID, 10))
}
