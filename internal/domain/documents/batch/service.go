package batch

import (
	"context"
	"fmt"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/id"
	"blendery/internal/core/tx"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/domain/registers/history"
	"blendery/pkg/logger"
)

// Service provides batch intake and removal.
type Service struct {
	repo      Repository
	materials material.Repository
	history   *history.Service
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new batch service.
func NewService(
	repo Repository,
	materials material.Repository,
	hist *history.Service,
	txManager tx.Manager,
	rec audit.Recorder,
) *Service {
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		materials: materials,
		history:   hist,
		txManager: txManager,
		audit:     rec,
	}
}

// AddBatch records a purchase. The batch row, the material aggregates and
// the IN history entry are written in one transaction.
func (s *Service) AddBatch(ctx context.Context, in AddInput) (*Batch, error) {
	actor, err := appctx.ActorID(ctx)
	if err != nil {
		return nil, err
	}

	b := NewBatch(in, actor)
	if err := b.Validate(ctx); err != nil {
		return nil, err
	}

	ok, err := s.materials.Exists(ctx, b.MaterialID)
	if err != nil {
		return nil, fmt.Errorf("check material: %w", err)
	}
	if !ok {
		return nil, apperror.NewNotFound("material", b.MaterialID.String())
	}

	var m *material.Material
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.repo.ExistsByCode(ctx, b.BatchCode)
		if err != nil {
			return fmt.Errorf("check batch code: %w", err)
		}
		if taken {
			return apperror.NewDuplicate("batch", "batchCode", b.BatchCode)
		}

		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}

		m, err = s.materials.ApplyIntake(ctx, b.MaterialID, b.Quantity, b.Cost())
		if err != nil {
			return fmt.Errorf("apply intake: %w", err)
		}

		entry := history.NewEntry(b.MaterialID, history.TypeIn, b.Quantity, history.ReasonBatchAdded, m.CurrentStock, actor)
		entry.BatchCode = &b.BatchCode
		entry.RelatedBatchID = &b.ID
		if err := s.history.Append(ctx, entry); err != nil {
			return err
		}

		return s.audit.Record(ctx, audit.EntityBatch, b.ID, audit.ActionCreate, b)
	})
	if err != nil {
		return nil, err
	}

	b.MaterialName = m.Name
	b.MaterialCode = m.Code

	logger.Info(ctx, "batch added",
		"batch_id", b.ID,
		"batch_code", b.BatchCode,
		"material_id", b.MaterialID,
		"current_stock", m.CurrentStock)

	return b, nil
}

// DeleteBatch removes a batch and takes its quantity back out of stock,
// never below zero. Cost, average price and batch count stay as they are.
func (s *Service) DeleteBatch(ctx context.Context, batchID id.ID) error {
	actor, err := appctx.ActorID(ctx)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByID(ctx, batchID)
		if err != nil {
			return err
		}

		m, err := s.materials.ApplyRemoval(ctx, b.MaterialID, b.Quantity)
		if err != nil {
			return fmt.Errorf("apply removal: %w", err)
		}

		entry := history.NewEntry(b.MaterialID, history.TypeDelete, b.Quantity, history.ReasonBatchDeleted, m.CurrentStock, actor)
		entry.BatchCode = &b.BatchCode
		if err := s.history.Append(ctx, entry); err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, batchID); err != nil {
			return fmt.Errorf("delete batch: %w", err)
		}

		logger.Info(ctx, "batch deleted", "batch_id", batchID, "material_id", b.MaterialID)

		return s.audit.Record(ctx, audit.EntityBatch, batchID, audit.ActionDelete,
			map[string]any{"batchCode": b.BatchCode, "quantity": b.Quantity})
	})
}

// GetByID returns one batch.
func (s *Service) GetByID(ctx context.Context, batchID id.ID) (*Batch, error) {
	return s.repo.GetByID(ctx, batchID)
}

// List returns a page of batches.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Batch], error) {
	return s.repo.List(ctx, filter)
}
