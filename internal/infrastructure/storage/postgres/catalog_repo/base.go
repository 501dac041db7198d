// Package catalog_repo provides PostgreSQL implementations of the entity repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/entity"
	"tourbook/internal/core/id"
	"tourbook/internal/domain"
	"tourbook/internal/domain/filter"
	"tourbook/internal/infrastructure/storage/postgres"
)

// Soft-delete columns shared by every table.
const (
	colID        = "id"
	colIsDeleted = "is_deleted"
	colDeletedAt = "deleted_at"
)

// notDeleted is the predicate every read path starts from.
func notDeleted(alias string) squirrel.Eq {
	if alias == "" {
		return squirrel.Eq{colIsDeleted: false}
	}
	return squirrel.Eq{alias + "." + colIsDeleted: false}
}

// TableConfig describes how an entity maps onto its table.
type TableConfig struct {
	// Name is the table name
	Name string

	// Entity is used in error messages
	Entity string

	// SearchColumn is matched by ListFilter.Search (ILIKE)
	SearchColumn string

	// DefaultOrder is used when ListFilter.OrderBy is empty
	DefaultOrder string

	// Immutable columns are written on insert only
	Immutable []string
}

// BaseCatalogRepo provides CRUD operations shared by every entity.
// Embed this in specific repositories.
//
// Every SELECT it builds carries "is_deleted = false"; updates and soft
// deletes only match live rows. There is no way to read deleted rows.
type BaseCatalogRepo[T entity.Entity] struct {
	txm        *postgres.TxManager
	table      TableConfig
	selectCols []string
	newFn      func() T
}

// NewBaseCatalogRepo creates a new base repository.
func NewBaseCatalogRepo[T entity.Entity](
	txm *postgres.TxManager,
	table TableConfig,
	selectCols []string,
	newFn func() T,
) *BaseCatalogRepo[T] {
	if table.DefaultOrder == "" {
		table.DefaultOrder = colID
	}
	return &BaseCatalogRepo[T]{
		txm:        txm,
		table:      table,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the transaction in ctx or the pool.
func (r *BaseCatalogRepo[T]) Querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// TableName returns the table name.
func (r *BaseCatalogRepo[T]) TableName() string {
	return r.table.Name
}

func (r *BaseCatalogRepo[T]) translate(err error) error {
	return postgres.TranslateError(err, r.table.Entity)
}

// baseSelect creates a SELECT builder restricted to live rows.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.table.Name).
		Where(notDeleted(""))
}

// writableColumns are the columns written on update.
func (r *BaseCatalogRepo[T]) writableColumns() []string {
	excluded := append([]string{colID, colIsDeleted, colDeletedAt}, r.table.Immutable...)
	return postgres.Without(r.selectCols, excluded...)
}

func (r *BaseCatalogRepo[T]) insertQuery(e T) (squirrel.InsertBuilder, error) {
	data := postgres.StructToMap(e)
	if len(data) == 0 {
		return squirrel.InsertBuilder{}, fmt.Errorf("no db tags found in entity")
	}

	// id is assigned by the sequence, deletion columns take their defaults
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range postgres.Without(r.selectCols, colID, colIsDeleted, colDeletedAt) {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	return r.Builder().
		Insert(r.table.Name).
		SetMap(filtered).
		Suffix("RETURNING " + colID), nil
}

// Create inserts a new entity using its "db" tags and returns the new id.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, e T) (id.ID, error) {
	q, err := r.insertQuery(e)
	if err != nil {
		return 0, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var newID id.ID
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return 0, r.translate(err)
	}
	return newID, nil
}

func (r *BaseCatalogRepo[T]) updateQuery(e T) (squirrel.UpdateBuilder, error) {
	data := postgres.StructToMap(e)
	if len(data) == 0 {
		return squirrel.UpdateBuilder{}, fmt.Errorf("no db tags found in entity")
	}

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.writableColumns() {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	return r.Builder().
		Update(r.table.Name).
		SetMap(filtered).
		Where(squirrel.Eq{colID: e.GetID()}).
		Where(notDeleted("")), nil
}

// Update modifies a live entity. A missing or soft-deleted row is NotFound.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, e T) error {
	q, err := r.updateQuery(e)
	if err != nil {
		return err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.translate(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table.Entity, e.GetID())
	}
	return nil
}

func (r *BaseCatalogRepo[T]) softDeleteQuery(entityID id.ID, at time.Time) squirrel.UpdateBuilder {
	return r.Builder().
		Update(r.table.Name).
		Set(colIsDeleted, true).
		Set(colDeletedAt, at).
		Where(squirrel.Eq{colID: entityID}).
		Where(notDeleted(""))
}

// SoftDelete stamps the deletion flag and timestamp on a live row.
func (r *BaseCatalogRepo[T]) SoftDelete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.softDeleteQuery(entityID, time.Now().UTC()).ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.translate(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table.Entity, entityID)
	}
	return nil
}

// GetByID retrieves a live entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{colID: entityID}).
		Limit(1)
	return r.FindOne(ctx, q, entityID)
}

func (r *BaseCatalogRepo[T]) lockingSelect(entityID id.ID, lock string) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Eq{colID: entityID}).
		Suffix(lock)
}

// GetForUpdate retrieves a live entity by ID with row lock.
func (r *BaseCatalogRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	return r.FindOne(ctx, r.lockingSelect(entityID, "FOR UPDATE"), entityID)
}

// GetForShare retrieves a live entity by ID with a shared row lock. A
// concurrent delete holding FOR UPDATE makes it wait, after which the row is
// re-checked and a deleted row is NotFound.
func (r *BaseCatalogRepo[T]) GetForShare(ctx context.Context, entityID id.ID) (T, error) {
	return r.FindOne(ctx, r.lockingSelect(entityID, "FOR SHARE"), entityID)
}

// FindOne executes a SELECT query and returns a single entity.
// key is reported in the NotFound error.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder, key any) (T, error) {
	e := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return e, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return e, apperror.NewNotFound(r.table.Entity, key)
		}
		return e, fmt.Errorf("get %s: %w", r.table.Entity, err)
	}
	return e, nil
}

// listQuery applies search, ids and advanced filters to the live-row select.
func (r *BaseCatalogRepo[T]) listQuery(f domain.ListFilter) (squirrel.SelectBuilder, error) {
	q := r.baseSelect()

	if f.Search != "" && r.table.SearchColumn != "" {
		q = q.Where(squirrel.ILike{r.table.SearchColumn: "%" + f.Search + "%"})
	}

	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{colID: f.IDs})
	}

	return r.applyAdvancedFilters(q, f.AdvancedFilters)
}

// List retrieves live entities with filtering and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	f = normalizePaging(f)
	result := domain.ListResult[T]{
		Items:  []T{},
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q, err := r.listQuery(f)
	if err != nil {
		return result, err
	}

	// Count total (before pagination)
	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", r.table.Name, err)
	}

	orderBy, err := r.parseOrderBy(f.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy, colID+" ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.table.Name, err)
	}

	return result, nil
}

func normalizePaging(f domain.ListFilter) domain.ListFilter {
	if f.Limit <= 0 {
		f.Limit = domain.DefaultLimit
	}
	if f.Limit > domain.MaxLimit {
		f.Limit = domain.MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// applyAdvancedFilters applies filter items against whitelisted columns.
func (r *BaseCatalogRepo[T]) applyAdvancedFilters(q squirrel.SelectBuilder, filters []filter.Item) (squirrel.SelectBuilder, error) {
	// Whitelist columns for SQL injection protection
	validCols := make(map[string]bool, len(r.selectCols))
	for _, col := range r.selectCols {
		validCols[col] = true
	}
	// The soft-delete predicate cannot be overridden.
	delete(validCols, colIsDeleted)
	delete(validCols, colDeletedAt)

	for _, item := range filters {
		if !validCols[item.Field] {
			return q, apperror.NewFieldValidation("filter", "invalid filter column").WithDetail("column", item.Field)
		}

		switch item.Operator {
		case filter.Equal:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.InList:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.Contains:
			q = q.Where(squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		default:
			return q, apperror.NewFieldValidation("filter", "unsupported filter operator").
				WithDetail("operator", string(item.Operator))
		}
	}

	return q, nil
}

// Exists checks if a live entity exists.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{colID: entityID})
}

// ExistsWhere checks if a live row matches pred.
func (r *BaseCatalogRepo[T]) ExistsWhere(ctx context.Context, pred squirrel.Sqlizer) (bool, error) {
	q := r.Builder().
		Select("1").
		From(r.table.Name).
		Where(notDeleted("")).
		Where(pred).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists in %s: %w", r.table.Name, err)
	}
	return true, nil
}

// CountWhere counts live rows matching pred.
func (r *BaseCatalogRepo[T]) CountWhere(ctx context.Context, pred squirrel.Sqlizer) (int, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(r.table.Name).
		Where(notDeleted("")).
		Where(pred)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table.Name, err)
	}
	return n, nil
}

func (r *BaseCatalogRepo[T]) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(r.selectCols))
	for _, col := range r.selectCols {
		allowed[col] = struct{}{}
	}
	delete(allowed, colIsDeleted)
	delete(allowed, colDeletedAt)

	if orderBy == "" {
		return r.table.DefaultOrder + " ASC", nil
	}

	// Support "-field" for DESC.
	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewFieldValidation("orderBy", "invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewFieldValidation("orderBy", "invalid orderBy").WithDetail("orderBy", orderBy)
	}

	return field + " " + direction, nil
}
