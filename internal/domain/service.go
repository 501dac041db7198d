package domain

import (
	"context"
	"fmt"

	"tourbook/internal/core/apperror"
	"tourbook/internal/core/entity"
	"tourbook/internal/core/id"
	"tourbook/internal/core/tx"
	"tourbook/pkg/logger"
)

// CatalogService provides the shared lifecycle for every entity:
// validation, hooks, transactions and consistent error kinds.
type CatalogService[T entity.Entity] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Entity] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Entity](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	txm := cfg.TxManager
	if txm == nil {
		txm = tx.Passthrough
	}
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  txm,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the name used in error messages.
func (s *CatalogService[T]) EntityName() string {
	return s.entityName
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	// If entity already returns structured AppError, keep it.
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, entityID id.ID) error {
	if err == nil {
		return nil
	}
	// Preserve existing AppError, but ensure not-found is mapped to the correct entity name.
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, entityID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", entityID)
}

// normalizer is implemented by entities that clean up their input before validation.
type normalizer interface {
	Normalize()
}

func (s *CatalogService[T]) prepare(ctx context.Context, e T) error {
	if n, ok := any(e).(normalizer); ok {
		n.Normalize()
	}
	return s.normalizeValidationErr(e.Validate(ctx))
}

func (s *CatalogService[T]) runAfter(ctx context.Context, event HookEvent, e T) {
	if err := s.hooks.Run(ctx, event, e); err != nil {
		logger.Warn(ctx, "after hook failed",
			"entity", s.entityName, "event", string(event), "id", e.GetID(), "error", err)
	}
}

// Create validates entity, runs before-create hooks and inserts it in one transaction.
// The assigned id is written back into entity.
func (s *CatalogService[T]) Create(ctx context.Context, e T) error {
	if err := s.prepare(ctx, e); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
			return err
		}
		newID, err := s.repo.Create(ctx, e)
		if err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		e.SetID(newID)
		return nil
	})
	if err != nil {
		return err
	}

	s.runAfter(ctx, AfterCreate, e)
	return nil
}

// GetByID retrieves a live entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return e, s.normalizeGetErr(err, entityID)
	}
	return e, nil
}

// GetForShare retrieves a live entity and, inside a transaction, holds it
// against a concurrent delete until the transaction ends. Reference checks in
// before-hooks use it.
func (s *CatalogService[T]) GetForShare(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetForShare(ctx, entityID)
	if err != nil {
		return e, s.normalizeGetErr(err, entityID)
	}
	return e, nil
}

// Update validates entity and writes it in one transaction with before-update hooks.
func (s *CatalogService[T]) Update(ctx context.Context, e T) error {
	if err := s.prepare(ctx, e); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeUpdate, e); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, e); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound(s.entityName, e.GetID())
			}
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.runAfter(ctx, AfterUpdate, e)
	return nil
}

// Delete performs soft delete. The row is locked, before-delete hooks
// (referential checks, join cleanup) run and the flag is stamped, all in
// one transaction.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	var deleted T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetForUpdate(ctx, entityID)
		if err != nil {
			return s.normalizeGetErr(err, entityID)
		}
		if err := s.hooks.Run(ctx, BeforeDelete, e); err != nil {
			return err
		}
		if err := s.repo.SoftDelete(ctx, entityID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound(s.entityName, entityID)
			}
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		deleted = e
		return nil
	})
	if err != nil {
		return err
	}

	s.runAfter(ctx, AfterDelete, deleted)
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks if a live entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
