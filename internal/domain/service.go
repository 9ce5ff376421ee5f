package domain

import (
	"context"
	"fmt"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/entity"
	"blendery/internal/core/id"
	"blendery/internal/core/tx"
	"blendery/internal/domain/audit"
)

// CatalogService provides business logic for catalog entities:
// code uniqueness, validation, audit and optimistic locking.
type CatalogService[T entity.Cataloged] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages and audit entries
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Cataloged] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	Audit      audit.Recorder // optional
	EntityName string
}

// NewCatalogService creates a new catalog service.
// When an audit recorder is given, it is installed as after-hooks.
func NewCatalogService[T entity.Cataloged](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	s := &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}

	if cfg.Audit != nil {
		rec := cfg.Audit
		s.hooks.On(AfterCreate, func(ctx context.Context, e T) error {
			return rec.Record(ctx, s.entityName, e.GetID(), audit.ActionCreate, e)
		})
		s.hooks.On(AfterUpdate, func(ctx context.Context, e T) error {
			return rec.Record(ctx, s.entityName, e.GetID(), audit.ActionUpdate, e)
		})
		s.hooks.On(AfterDelete, func(ctx context.Context, e T) error {
			return rec.Record(ctx, s.entityName, e.GetID(), audit.ActionDelete, map[string]any{"code": e.GetCode()})
		})
	}

	return s
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// Repo exposes the repository to services that extend the catalog.
func (s *CatalogService[T]) Repo() CatalogRepository[T] {
	return s.repo
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
}

// Create validates and inserts a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, e T) error {
	if _, err := appctx.ActorID(ctx); err != nil {
		return err
	}

	e.Normalize()
	if err := e.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByCode(ctx, e.GetCode())
		if err != nil {
			return fmt.Errorf("check %s code: %w", s.entityName, err)
		}
		if exists {
			return apperror.NewDuplicate(s.entityName, "code", e.GetCode())
		}

		if err := s.repo.Create(ctx, e); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return s.hooks.Run(ctx, AfterCreate, e)
	})
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return e, s.normalizeGetErr(err, entityID.String())
	}
	return e, nil
}

// GetByCode retrieves entity by code.
func (s *CatalogService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	code = entity.NormalizeCode(code)
	e, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return e, s.normalizeGetErr(err, code)
	}
	return e, nil
}

// Update validates and stores descriptive changes. The entity must carry
// the version the client read; a stale version yields ConcurrentModification.
func (s *CatalogService[T]) Update(ctx context.Context, e T) error {
	if _, err := appctx.ActorID(ctx); err != nil {
		return err
	}

	e.Normalize()
	if err := e.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeUpdate, e); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		other, err := s.repo.GetByCode(ctx, e.GetCode())
		switch {
		case err == nil && other.GetID() != e.GetID():
			return apperror.NewDuplicate(s.entityName, "code", e.GetCode())
		case err != nil && !apperror.IsNotFound(err):
			return fmt.Errorf("check %s code: %w", s.entityName, err)
		}

		if err := s.repo.Update(ctx, e); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return s.hooks.Run(ctx, AfterUpdate, e)
	})
}

// Delete removes the entity. Referenced entities are refused with Conflict.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	if _, err := appctx.ActorID(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetByID(ctx, entityID)
		if err != nil {
			return s.normalizeGetErr(err, entityID.String())
		}

		if err := s.repo.Delete(ctx, entityID); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return s.hooks.Run(ctx, AfterDelete, e)
	})
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}
