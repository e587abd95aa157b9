package domain

// OperationType classifies an operation or a category's operations.
type OperationType string

const (
	OperationTypeIncome  OperationType = "income"
	OperationTypeExpense OperationType = "expense"
)

// ValidOperationType reports whether t is a known operation type.
func ValidOperationType(t OperationType) bool {
	return t == OperationTypeIncome || t == OperationTypeExpense
}

// CategoryType distinguishes parent categories from their children.
type CategoryType string

const (
	CategoryTypeParent CategoryType = "parent"
	CategoryTypeChild  CategoryType = "child"
)

// ValidCategoryType reports whether t is a known category type.
func ValidCategoryType(t CategoryType) bool {
	return t == CategoryTypeParent || t == CategoryTypeChild
}

// Category groups operations. ParentID forms a tree; a category must never
// be its own ancestor.
type Category struct {
	Base
	Title         string        `json:"title"`
	OperationType OperationType `json:"operationType"`
	Type          CategoryType  `json:"type"`
	ParentID      *int64        `json:"parentId,omitempty"`
}
