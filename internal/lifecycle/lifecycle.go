// Package lifecycle applies the soft-delete/restore state machine to any
// entity exposing audit fields. Entities move between two states: active
// (DeletedAt == nil) and deleted. Nothing here ever hard-purges a row.
package lifecycle

import (
	"time"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
)

// Auditable is anything carrying the shared audit stamps.
type Auditable interface {
	Audit() *domain.AuditFields
}

// Init stamps the creation fields on a freshly built entity.
func Init(e Auditable, actor string, now time.Time) {
	a := e.Audit()
	a.CreatedAt = now
	a.CreatedBy = actor
	a.UpdatedAt = now
	a.UpdatedBy = actor
	a.DeletedAt = nil
	a.DeletedBy = nil
}

// Touch refreshes the update stamps. Every non-delete mutation goes
// through here.
func Touch(e Auditable, actor string, now time.Time) {
	a := e.Audit()
	a.UpdatedAt = now
	a.UpdatedBy = actor
}

// MarkDeleted transitions an active entity to deleted. Returns
// domain.ErrAlreadyDeleted when the entity is already deleted; callers
// wanting idempotent deletes check the state first.
func MarkDeleted(e Auditable, actor string, now time.Time) error {
	a := e.Audit()
	if a.Deleted() {
		return domain.ErrAlreadyDeleted
	}
	a.DeletedAt = &now
	a.DeletedBy = &actor
	return nil
}

// MarkRestored transitions a deleted entity back to active, clearing the
// delete stamps and refreshing the update stamps. Returns
// domain.ErrNotDeleted when the entity is active.
func MarkRestored(e Auditable, actor string, now time.Time) error {
	a := e.Audit()
	if !a.Deleted() {
		return domain.ErrNotDeleted
	}
	a.DeletedAt = nil
	a.DeletedBy = nil
	Touch(e, actor, now)
	return nil
}
