package entity

import (
	"context"
	"time"

	"tourbook/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with the offending field otherwise.
	Validate(ctx context.Context) error
}

// Identifiable exposes the server-assigned identifier.
type Identifiable interface {
	GetID() id.ID
	SetID(id.ID)
}

// Entity is the constraint used by generic repositories and services.
type Entity interface {
	Validatable
	Identifiable
}

// BaseEntity contains the fields shared by every stored record:
// the identifier and the soft-delete marker.
type BaseEntity struct {
	// ID is the primary key, assigned on insert
	ID id.ID `db:"id" json:"id"`

	// IsDeleted marks a soft-deleted record. Deleted records are invisible
	// to every read path.
	IsDeleted bool `db:"is_deleted" json:"isDeleted"`

	// DeletedAt is stamped together with IsDeleted
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// GetID returns the identifier.
func (b *BaseEntity) GetID() id.ID { return b.ID }

// SetID sets the identifier (used by repository after insert).
func (b *BaseEntity) SetID(v id.ID) { b.ID = v }

// MarkDeleted sets the deletion flag and timestamp.
func (b *BaseEntity) MarkDeleted(at time.Time) {
	b.IsDeleted = true
	b.DeletedAt = &at
}
