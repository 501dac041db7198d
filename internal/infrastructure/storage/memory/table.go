// Package memory provides in-memory implementations of the entity
// repositories. It keeps the same visibility rules as the PostgreSQL store:
// soft-deleted rows are invisible to reads, writes only touch live rows and
// unique keys only apply among live rows. There is no transactional rollback.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/entity"
	"tourbook/internal/core/id"
	"tourbook/internal/domain"
	"tourbook/internal/domain/filter"
)

// UniqueKey mirrors a partial unique index (WHERE is_deleted = false).
type UniqueKey[T any] struct {
	Field string
	Key   func(T) string
}

type deletable interface {
	MarkDeleted(at time.Time)
}

// Table stores one entity type.
type Table[T entity.Entity] struct {
	mu      sync.RWMutex
	entity  string
	clone   func(T) T
	rows    map[id.ID]T
	deleted map[id.ID]bool
	nextID  id.ID

	unique  []UniqueKey[T]
	search  func(T) string
	columns map[string]func(T) any
}

// NewTable creates a table. clone must return an independent copy so that
// callers never share state with stored rows.
func NewTable[T entity.Entity](entityName string, clone func(T) T) *Table[T] {
	return &Table[T]{
		entity:  entityName,
		clone:   clone,
		rows:    make(map[id.ID]T),
		deleted: make(map[id.ID]bool),
		columns: map[string]func(T) any{"id": func(e T) any { return e.GetID() }},
	}
}

// Unique registers a unique key.
func (t *Table[T]) Unique(field string, key func(T) string) *Table[T] {
	t.unique = append(t.unique, UniqueKey[T]{Field: field, Key: key})
	return t
}

// Search sets the text matched by ListFilter.Search.
func (t *Table[T]) Search(fn func(T) string) *Table[T] {
	t.search = fn
	return t
}

// Column exposes a column to equality filters.
func (t *Table[T]) Column(name string, fn func(T) any) *Table[T] {
	t.columns[name] = fn
	return t
}

func (t *Table[T]) checkUnique(e T) error {
	for _, u := range t.unique {
		key := u.Key(e)
		for rowID, row := range t.rows {
			if t.deleted[rowID] || rowID == e.GetID() {
				continue
			}
			if u.Key(row) == key {
				return apperror.NewDuplicate(t.entity, u.Field, nil)
			}
		}
	}
	return nil
}

// Create inserts e and returns the assigned id.
func (t *Table[T]) Create(ctx context.Context, e T) (id.ID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkUnique(e); err != nil {
		return 0, err
	}
	t.nextID++
	row := t.clone(e)
	row.SetID(t.nextID)
	t.rows[t.nextID] = row
	return t.nextID, nil
}

// GetByID returns a copy of a live row.
func (t *Table[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[entityID]
	if !ok || t.deleted[entityID] {
		var zero T
		return zero, apperror.NewNotFound(t.entity, entityID)
	}
	return t.clone(row), nil
}

// GetForUpdate is GetByID; the table has no row locks.
func (t *Table[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	return t.GetByID(ctx, entityID)
}

// GetForShare is GetByID.
func (t *Table[T]) GetForShare(ctx context.Context, entityID id.ID) (T, error) {
	return t.GetByID(ctx, entityID)
}

// Update replaces a live row.
func (t *Table[T]) Update(ctx context.Context, e T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[e.GetID()]; !ok || t.deleted[e.GetID()] {
		return apperror.NewNotFound(t.entity, e.GetID())
	}
	if err := t.checkUnique(e); err != nil {
		return err
	}
	t.rows[e.GetID()] = t.clone(e)
	return nil
}

// SoftDelete flags a live row as deleted.
func (t *Table[T]) SoftDelete(ctx context.Context, entityID id.ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[entityID]
	if !ok || t.deleted[entityID] {
		return apperror.NewNotFound(t.entity, entityID)
	}
	if d, ok := any(row).(deletable); ok {
		d.MarkDeleted(time.Now().UTC())
	}
	t.deleted[entityID] = true
	return nil
}

// Exists reports whether a live row with entityID exists.
func (t *Table[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.rows[entityID]
	return ok && !t.deleted[entityID], nil
}

// IsDeleted reports whether the row exists and is soft-deleted.
func (t *Table[T]) IsDeleted(entityID id.ID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.deleted[entityID]
}

// Where returns copies of the live rows matching pred, ordered by id.
func (t *Table[T]) Where(pred func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]id.ID, 0, len(t.rows))
	for rowID := range t.rows {
		if !t.deleted[rowID] && (pred == nil || pred(t.rows[rowID])) {
			ids = append(ids, rowID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, len(ids))
	for i, rowID := range ids {
		out[i] = t.clone(t.rows[rowID])
	}
	return out
}

// List returns live rows ordered by id. Only equality filters are supported.
func (t *Table[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	if f.Limit <= 0 {
		f.Limit = domain.DefaultLimit
	}
	if f.Limit > domain.MaxLimit {
		f.Limit = domain.MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	result := domain.ListResult[T]{Items: []T{}, Limit: f.Limit, Offset: f.Offset}

	for _, item := range f.AdvancedFilters {
		if _, ok := t.columns[item.Field]; !ok {
			return result, apperror.NewFieldValidation("filter", "invalid filter column").WithDetail("column", item.Field)
		}
		if item.Operator != filter.Equal {
			return result, apperror.NewFieldValidation("filter", "unsupported filter operator").
				WithDetail("operator", string(item.Operator))
		}
	}

	wanted := make(map[id.ID]bool, len(f.IDs))
	for _, v := range f.IDs {
		wanted[v] = true
	}
	search := strings.ToLower(f.Search)

	rows := t.Where(func(e T) bool {
		if len(wanted) > 0 && !wanted[e.GetID()] {
			return false
		}
		if search != "" && t.search != nil && !strings.Contains(strings.ToLower(t.search(e)), search) {
			return false
		}
		for _, item := range f.AdvancedFilters {
			if fmt.Sprint(t.columns[item.Field](e)) != fmt.Sprint(item.Value) {
				return false
			}
		}
		return true
	})

	result.TotalCount = int64(len(rows))
	if f.Offset < len(rows) {
		end := f.Offset + f.Limit
		if end > len(rows) {
			end = len(rows)
		}
		result.Items = rows[f.Offset:end]
	}
	return result, nil
}
