package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/lifecycle"
	"github.com/moneykeeper/moneykeeper-backend/internal/position"
)

// collection is the generic lifecycle/ordering core shared by every entity
// service. It owns the per-collection mutex required by the position
// invariant: creates, deletes and repositions against one entity type are
// serialized so their read-compute-write of the position sequence never
// interleaves. Plain reads by id bypass the lock.
type collection[T domain.Entity] struct {
	store domain.Store[T]
	mu    sync.Mutex
}

func newCollection[T domain.Entity](store domain.Store[T]) *collection[T] {
	return &collection[T]{store: store}
}

func (c *collection[T]) now() time.Time {
	return time.Now().UTC()
}

// Get retrieves an entity by id, soft-deleted rows included.
func (c *collection[T]) Get(ctx context.Context, id int64) (T, error) {
	return c.store.FindByID(ctx, id)
}

// GetAll lists the collection ordered by position. Deleted rows are
// excluded unless includeDeleted is set.
func (c *collection[T]) GetAll(ctx context.Context, includeDeleted bool) ([]T, error) {
	all, err := c.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if includeDeleted {
		return all, nil
	}
	return position.Active(all), nil
}

// Delete soft-deletes an entity. Returns false without error when the
// entity is already deleted; positions of the remaining active rows are
// left untouched until the next create or reposition reindexes them.
func (c *collection[T]) Delete(ctx context.Context, actor string, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.store.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if e.Audit().Deleted() {
		return false, nil
	}
	if err := lifecycle.MarkDeleted(e, actor, c.now()); err != nil {
		return false, err
	}
	if _, err := c.store.Update(ctx, e); err != nil {
		return false, err
	}
	return true, nil
}

// Restore brings a soft-deleted entity back, at its frozen position. An
// already-active entity is returned unchanged.
func (c *collection[T]) Restore(ctx context.Context, actor string, id int64) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, err := c.store.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if !e.Audit().Deleted() {
		return e, nil
	}
	if err := lifecycle.MarkRestored(e, actor, c.now()); err != nil {
		return zero, err
	}
	return c.store.Update(ctx, e)
}

// ChangePosition relocates an active entity to newPos, shifting the
// minimum set of active neighbors, and persists the whole shift set in one
// atomic store write.
//
// Soft deletes leave frozen gaps in the active sequence; the reindex runs
// over the active subset, so the sequence is compacted back to a dense
// 1..N before the move applies.
func (c *collection[T]) ChangePosition(ctx context.Context, actor string, id int64, newPos int32) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	all, err := c.store.FindAll(ctx)
	if err != nil {
		return zero, err
	}

	active := position.Active(all)
	sort.Slice(active, func(i, j int) bool {
		if active[i].Pos() != active[j].Pos() {
			return active[i].Pos() < active[j].Pos()
		}
		return active[i].Key() < active[j].Key()
	})

	now := c.now()
	changed := make(map[int64]T)
	for i, e := range active {
		if want := int32(i + 1); e.Pos() != want {
			e.SetPos(want)
			lifecycle.Touch(e, actor, now)
			changed[e.Key()] = e
		}
	}

	var target T
	found := false
	for _, e := range active {
		if e.Key() == id {
			target = e
			found = true
			break
		}
	}
	if !found {
		return zero, domain.ErrNotFound
	}

	moved, err := position.Move(active, target, newPos, actor, now)
	if err != nil {
		return zero, err
	}
	for _, e := range moved {
		changed[e.Key()] = e
	}
	if len(changed) == 0 {
		return target, nil
	}
	batch := make([]T, 0, len(changed))
	for _, e := range changed {
		batch = append(batch, e)
	}
	if err := c.store.UpdateAll(ctx, batch); err != nil {
		return zero, err
	}
	return target, nil
}

// insert assigns the next free position, stamps the audit fields and
// persists a freshly built entity.
func (c *collection[T]) insert(ctx context.Context, actor string, e T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	all, err := c.store.FindAll(ctx)
	if err != nil {
		return zero, err
	}
	e.SetPos(position.Next(all))
	lifecycle.Init(e, actor, c.now())
	return c.store.Save(ctx, e)
}

// reviveIfDeleted applies the restore-on-edit policy: updating a deleted
// entity implicitly restores it before the field changes land.
func reviveIfDeleted[T domain.Entity](e T, actor string, now time.Time) {
	if e.Audit().Deleted() {
		// State was checked, MarkRestored cannot fail here.
		_ = lifecycle.MarkRestored(e, actor, now)
	}
}
