package packaging

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/id"
	"blendery/internal/core/tx"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/documents/production"
	"blendery/pkg/logger"
)

// Service provides packaging of completed production runs.
type Service struct {
	repo      Repository
	runs      production.Repository
	txManager tx.Manager
	audit     audit.Recorder
	markup    decimal.Decimal
}

// NewService creates a new packaging service. markup is the flat
// surcharge added to every pack.
func NewService(repo Repository, runs production.Repository, txManager tx.Manager, rec audit.Recorder, markup decimal.Decimal) *Service {
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		runs:      runs,
		txManager: txManager,
		audit:     rec,
		markup:    markup,
	}
}

// Create packs part of a complete run. The run's remaining quantity is
// drawn down by a guarded update in the same transaction as the insert.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Batch, error) {
	actor, err := appctx.ActorID(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	run, err := s.runs.GetByID(ctx, in.ProductionRunID)
	if err != nil {
		return nil, err
	}
	if run.Status != production.StatusComplete {
		return nil, apperror.NewValidation("production run is not complete").
			WithDetail("status", run.Status)
	}

	weight := in.TotalWeightKg()
	if weight.GreaterThan(run.Quantity) {
		return nil, insufficient(run, weight)
	}

	b := NewBatch(in, PricePerPack(run.CostPerKg, in.PackageSizeGrams, s.markup), actor)
	if err := b.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.runs.DrawQuantity(ctx, run.ID, weight)
		if err != nil {
			return fmt.Errorf("draw run quantity: %w", err)
		}
		if !ok {
			// Another packaging took the quantity since the check above.
			current, err := s.runs.GetByID(ctx, run.ID)
			if err != nil {
				return err
			}
			return insufficient(current, weight)
		}

		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create packaging batch: %w", err)
		}
		return s.audit.Record(ctx, audit.EntityPackaging, b.ID, audit.ActionCreate, b)
	})
	if err != nil {
		return nil, err
	}

	b.RunBatchCode = run.BatchCode
	b.FormulaID = run.FormulaID
	b.FormulaName = run.FormulaName

	logger.Info(ctx, "packaging batch created",
		"packaging_id", b.ID,
		"run_id", run.ID,
		"packages", b.NumberOfPackages,
		"price_per_pack", b.PricePerPack)

	return b, nil
}

func insufficient(run *production.Run, weight decimal.Decimal) error {
	return apperror.NewInsufficientStock(
		fmt.Sprintf("Insufficient quantity: only %s kg available", run.Quantity.String()),
		[]apperror.Shortage{{
			ID:        run.ID.String(),
			Name:      run.BatchCode,
			Available: run.Quantity.String(),
			Required:  weight.String(),
		}})
}

// GetByID returns one packaging batch.
func (s *Service) GetByID(ctx context.Context, batchID id.ID) (*Batch, error) {
	return s.repo.GetByID(ctx, batchID)
}

// List returns a page of packaging batches.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Batch], error) {
	return s.repo.List(ctx, filter)
}
