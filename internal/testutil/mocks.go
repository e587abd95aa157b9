// Package testutil provides in-memory store implementations for service
// and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
)

// MemStore is an in-memory domain.Store. Rows are cloned on the way in and
// out so tests cannot mutate stored state through returned pointers.
// UpdateAll is trivially atomic under the store mutex.
type MemStore[T domain.Entity] struct {
	mu     sync.Mutex
	rows   map[int64]T
	nextID int64
	clone  func(T) T
	title  func(T) string

	// SaveErr and UpdateErr, when set, are returned by the corresponding
	// methods. Used to exercise store-failure paths.
	SaveErr   error
	UpdateErr error
}

// NewMemStore creates a MemStore for entities without a title.
func NewMemStore[T domain.Entity](clone func(T) T) *MemStore[T] {
	return &MemStore[T]{
		rows:   make(map[int64]T),
		nextID: 1,
		clone:  clone,
	}
}

// NewTitledMemStore creates a MemStore that also supports FindByTitle.
func NewTitledMemStore[T domain.Entity](clone func(T) T, title func(T) string) *MemStore[T] {
	s := NewMemStore[T](clone)
	s.title = title
	return s
}

// FindByID retrieves a row by id, deleted rows included.
func (s *MemStore[T]) FindByID(_ context.Context, id int64) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.rows[id]
	if !ok {
		return zero, domain.ErrNotFound
	}
	return s.clone(e), nil
}

// FindByTitle retrieves a row by title, preferring an active match and
// falling back to the most recently updated deleted one.
func (s *MemStore[T]) FindByTitle(_ context.Context, title string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	var deletedMatch T
	found := false
	for _, e := range s.rows {
		if s.title(e) != title {
			continue
		}
		if !e.Audit().Deleted() {
			return s.clone(e), nil
		}
		if !found || e.Audit().UpdatedAt.After(deletedMatch.Audit().UpdatedAt) {
			deletedMatch = e
			found = true
		}
	}
	if !found {
		return zero, domain.ErrNotFound
	}
	return s.clone(deletedMatch), nil
}

// FindAll returns every row, deleted included, ordered by position.
func (s *MemStore[T]) FindAll(_ context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]T, 0, len(s.rows))
	for _, e := range s.rows {
		all = append(all, s.clone(e))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Pos() < all[j].Pos() })
	return all, nil
}

// Save inserts a row, assigning the next id.
func (s *MemStore[T]) Save(_ context.Context, e T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.SaveErr != nil {
		return zero, s.SaveErr
	}
	e = s.clone(e)
	e.SetKey(s.nextID)
	s.nextID++
	s.rows[e.Key()] = e
	return s.clone(e), nil
}

// Update overwrites an existing row.
func (s *MemStore[T]) Update(_ context.Context, e T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.UpdateErr != nil {
		return zero, s.UpdateErr
	}
	if _, ok := s.rows[e.Key()]; !ok {
		return zero, domain.ErrNotFound
	}
	s.rows[e.Key()] = s.clone(e)
	return s.clone(e), nil
}

// UpdateAll overwrites several rows at once.
func (s *MemStore[T]) UpdateAll(_ context.Context, es []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	for _, e := range es {
		if _, ok := s.rows[e.Key()]; !ok {
			return domain.ErrNotFound
		}
	}
	for _, e := range es {
		s.rows[e.Key()] = s.clone(e)
	}
	return nil
}

// Add seeds a row without touching ids or stamps (helper for tests).
func (s *MemStore[T]) Add(e T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[e.Key()] = s.clone(e)
	if e.Key() >= s.nextID {
		s.nextID = e.Key() + 1
	}
}

// Clone helpers for the managed entities. Shallow copies are enough: the
// audit pointer fields are replaced wholesale, never mutated in place.

func CloneAccount(a *domain.Account) *domain.Account { c := *a; return &c }

func CloneCategory(c *domain.Category) *domain.Category { cp := *c; return &cp }

func CloneCurrency(c *domain.Currency) *domain.Currency { cp := *c; return &cp }

func CloneBudget(b *domain.Budget) *domain.Budget { c := *b; return &c }

func CloneOperation(o *domain.Operation) *domain.Operation { c := *o; return &c }

// NewAccountStore builds a titled in-memory account store.
func NewAccountStore() *MemStore[*domain.Account] {
	return NewTitledMemStore(CloneAccount, func(a *domain.Account) string { return a.Title })
}

// NewCategoryStore builds a titled in-memory category store.
func NewCategoryStore() *MemStore[*domain.Category] {
	return NewTitledMemStore(CloneCategory, func(c *domain.Category) string { return c.Title })
}

// NewCurrencyStore builds a titled in-memory currency store.
func NewCurrencyStore() *MemStore[*domain.Currency] {
	return NewTitledMemStore(CloneCurrency, func(c *domain.Currency) string { return c.Title })
}

// NewBudgetStore builds an in-memory budget store.
func NewBudgetStore() *MemStore[*domain.Budget] {
	return NewMemStore(CloneBudget)
}

// NewOperationStore builds an in-memory operation store.
func NewOperationStore() *MemStore[*domain.Operation] {
	return NewMemStore(CloneOperation)
}
