// Package position keeps a collection's display positions a dense 1..N
// sequence over the active rows and relocates single entities with the
// minimum number of neighbor shifts.
package position

import (
	"time"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/moneykeeper/moneykeeper-backend/internal/lifecycle"
)

// Move relocates target to newPos within the active rows of a collection
// and returns every entity whose position changed, target included, each
// with refreshed update stamps. The caller persists the returned set in one
// atomic write.
//
// active must be the active (non-deleted) subset of the collection and
// contain target. newPos must lie in [1, len(active)]; a request outside
// that range fails with *domain.PositionError. Moving an entity onto its
// current position is a no-op and returns an empty set.
func Move[T domain.Entity](active []T, target T, newPos int32, actor string, now time.Time) ([]T, error) {
	n := int32(len(active))
	if newPos < 1 || newPos > n {
		return nil, &domain.PositionError{Requested: newPos, Max: n}
	}

	old := target.Pos()
	if newPos == old {
		return nil, nil
	}

	changed := make([]T, 0, abs32(newPos-old)+1)
	for _, e := range active {
		if e.Key() == target.Key() {
			continue
		}
		p := e.Pos()
		switch {
		case old < newPos && p > old && p <= newPos:
			// Target moves down the list; everything in (old, newPos]
			// steps up one slot.
			e.SetPos(p - 1)
		case old > newPos && p >= newPos && p < old:
			// Target moves up the list; everything in [newPos, old)
			// steps down one slot.
			e.SetPos(p + 1)
		default:
			continue
		}
		lifecycle.Touch(e, actor, now)
		changed = append(changed, e)
	}

	target.SetPos(newPos)
	lifecycle.Touch(target, actor, now)
	changed = append(changed, target)
	return changed, nil
}

// Next returns the position for a newly created entity: one past the
// highest position across ALL rows, deleted included. Deleted rows keep
// their frozen position, so counting them guarantees a new row never
// collides with a position still referenced by history. An empty
// collection yields 1.
func Next[T domain.Entity](all []T) int32 {
	var max int32
	for _, e := range all {
		if e.Pos() > max {
			max = e.Pos()
		}
	}
	return max + 1
}

// Active filters a collection down to its non-deleted rows.
func Active[T domain.Entity](all []T) []T {
	active := make([]T, 0, len(all))
	for _, e := range all {
		if !e.Audit().Deleted() {
			active = append(active, e)
		}
	}
	return active
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
