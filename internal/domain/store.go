package domain

import "context"

// Store is the abstract per-collection entity store the services consume.
// FindAll returns every row, deleted included; callers filter on the audit
// fields and derive positional state from the full listing.
//
// UpdateAll must persist the given rows atomically: a position reindex
// writes several rows and either all of them commit or none do.
type Store[T Entity] interface {
	FindByID(ctx context.Context, id int64) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	Save(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, e T) (T, error)
	UpdateAll(ctx context.Context, es []T) error
}

// TitledStore extends Store with title lookup for entities with a display
// title (Account, Category, Currency).
//
// FindByTitle prefers an active match; when only soft-deleted rows carry
// the title it returns the most recently updated one, so that get-or-create
// can revive a deleted entity instead of inserting a duplicate.
type TitledStore[T Entity] interface {
	Store[T]
	FindByTitle(ctx context.Context, title string) (T, error)
}
