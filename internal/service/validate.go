package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
)

// validTitle trims and checks a display title: required, bounded length,
// no control characters. Returns the trimmed value.
func validTitle(field, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", domain.Validation(field, domain.RuleRequired, "")
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return "", domain.Validation(field, domain.RuleTooLong, title)
	}
	if strings.ContainsFunc(title, unicode.IsControl) {
		return "", domain.Validation(field, domain.RulePrintable, title)
	}
	return title, nil
}

// validAmount checks a minor-unit amount against the domain bounds.
func validAmount(field string, v int64) error {
	if v < domain.MinAmount || v > domain.MaxAmount {
		return domain.Validation(field, domain.RuleOutOfRange, strconv.FormatInt(v, 10))
	}
	return nil
}

// titleInUse reports whether an ACTIVE entity other than selfID already
// carries the title. Soft-deleted rows do not block reuse.
func titleInUse[T domain.Entity](ctx context.Context, store domain.TitledStore[T], title string, selfID int64) (bool, error) {
	e, err := store.FindByTitle(ctx, title)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !e.Audit().Deleted() && e.Key() != selfID, nil
}

// mustExist resolves a foreign-key reference, mapping a missing row to a
// reference validation error on the given field.
func mustExist[T domain.Entity](ctx context.Context, store domain.Store[T], field string, id int64) (T, error) {
	e, err := store.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		var zero T
		return zero, domain.Validation(field, domain.RuleReference, strconv.FormatInt(id, 10))
	}
	return e, err
}
