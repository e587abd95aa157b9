package domain

import "time"

// AuditFields carries the create/update/delete stamps shared by every
// managed entity. DeletedAt == nil means the entity is active.
type AuditFields struct {
	CreatedAt time.Time  `json:"createdAt"`
	CreatedBy string     `json:"createdBy"`
	UpdatedAt time.Time  `json:"updatedAt"`
	UpdatedBy string     `json:"updatedBy"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	DeletedBy *string    `json:"deletedBy,omitempty"`
}

// Deleted reports whether the entity is soft-deleted.
func (a *AuditFields) Deleted() bool {
	return a.DeletedAt != nil
}

// Base is the common shape of every managed entity: a store-assigned id,
// a display position within the collection, and the audit stamps.
//
// Position is dense (1..N, no gaps or duplicates) across the active rows of
// a collection. A soft-deleted row keeps its last active position frozen
// until it is restored.
type Base struct {
	ID       int64 `json:"id"`
	Position int32 `json:"position"`
	AuditFields
}

// Key returns the entity id.
func (b *Base) Key() int64 { return b.ID }

// SetKey sets the entity id. Used by stores when assigning ids on insert.
func (b *Base) SetKey(id int64) { b.ID = id }

// Pos returns the display position.
func (b *Base) Pos() int32 { return b.Position }

// SetPos sets the display position.
func (b *Base) SetPos(p int32) { b.Position = p }

// Audit exposes the audit stamps for lifecycle transitions.
func (b *Base) Audit() *AuditFields { return &b.AuditFields }

// Entity is the capability surface the generic service core works against.
// Every managed entity embeds Base, which implements it.
type Entity interface {
	Key() int64
	SetKey(int64)
	Pos() int32
	SetPos(int32)
	Audit() *AuditFields
}
