package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyDeleted = errors.New("entity is already deleted")
	ErrNotDeleted     = errors.New("entity is not deleted")
	ErrInvalidRate    = errors.New("exchange rate must be positive")
	ErrNoMainCurrency = errors.New("no main currency configured")
)

// Validation constants
const (
	MaxTitleLength     = 64
	MaxShortNameLength = 8
	MaxCommentLength   = 255

	// Amount bounds in minor units.
	MaxAmount int64 = 999_999_999_999_999
	MinAmount int64 = -MaxAmount
)

// Validation rules referenced by ValidationError.Rule.
const (
	RuleRequired       = "required"
	RuleTooLong        = "too_long"
	RulePrintable      = "printable"
	RuleOutOfRange     = "out_of_range"
	RuleUnknownValue   = "unknown_value"
	RuleUnique         = "unique"
	RuleReference      = "reference"
	RuleCycle          = "cycle"
	RuleOnePerCategory = "one_per_category"
	RuleTransferFields = "transfer_fields"
	RulePositiveRate   = "positive_rate"
)

// ValidationError describes a single domain-rule violation on an input
// field. The core never formats user-facing text; callers render messages
// from Field/Rule/Value.
type ValidationError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (got %q)", e.Field, e.Rule, e.Value)
}

// Validation builds a ValidationError.
func Validation(field, rule, value string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Value: value}
}

// PositionError reports a reposition request outside [1, Max].
type PositionError struct {
	Requested int32 `json:"requested"`
	Max       int32 `json:"max"`
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position %d out of range [1, %d]", e.Requested, e.Max)
}
