// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"tourbook/internal/core/entity"
	"tourbook/internal/core/id"
	"tourbook/internal/domain/filter"
)

// --- Filter & Pagination ---

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ListFilter contains common filtering options for list operations.
// Soft-deleted records are never returned; there is no option to include them.
type ListFilter struct {
	// Search matches the entity's name or title (case-insensitive substring)
	Search string

	// IDs filters by specific IDs
	IDs []id.ID

	// AdvancedFilters are arbitrary column filters against whitelisted columns
	AdvancedFilters []filter.Item

	// OrderBy specifies sorting (e.g., "name", "-price")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit: DefaultLimit,
	}
}

// Where appends an equality filter on column.
func (f *ListFilter) Where(column string, value any) {
	f.AdvancedFilters = append(f.AdvancedFilters, filter.Item{
		Field:    column,
		Operator: filter.Equal,
		Value:    value,
	})
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Repository Interfaces ---

// CatalogRepository defines the persistence contract shared by every entity.
// All reads exclude soft-deleted rows; writes only touch live rows.
type CatalogRepository[T entity.Entity] interface {
	// Create inserts a new entity and returns the assigned id
	Create(ctx context.Context, entity T) (id.ID, error)

	// GetByID retrieves a live entity or returns NotFound
	GetByID(ctx context.Context, id id.ID) (T, error)

	// GetForUpdate retrieves a live entity and locks its row until the transaction ends
	GetForUpdate(ctx context.Context, id id.ID) (T, error)

	// GetForShare retrieves a live entity and blocks its deletion until the transaction ends
	GetForShare(ctx context.Context, id id.ID) (T, error)

	// Update modifies a live entity; a missing or deleted row is NotFound
	Update(ctx context.Context, entity T) error

	// SoftDelete stamps the deletion flag and timestamp on a live row
	SoftDelete(ctx context.Context, id id.ID) error

	// List retrieves entities with filtering and pagination
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	// Exists checks if a live entity with given ID exists
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
// Before-hooks run inside the write transaction and abort it on error.
// After-hooks run once the transaction has committed; their errors are logged only.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnAfterCreate registers a hook to run after create.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) {
	r.On(AfterCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnAfterUpdate registers a hook to run after update.
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T]) {
	r.On(AfterUpdate, hook)
}

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) {
	r.On(BeforeDelete, hook)
}

// OnAfterDelete registers a hook to run after delete.
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T]) {
	r.On(AfterDelete, hook)
}
