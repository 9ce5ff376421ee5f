package production

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/id"
	"blendery/internal/core/lock"
	"blendery/internal/core/tx"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/domain/registers/history"
	"blendery/internal/domain/registers/readystock"
	"blendery/pkg/logger"
)

// FormulaSource loads formulas with their composition.
type FormulaSource interface {
	GetByID(ctx context.Context, formulaID id.ID) (*formula.Formula, error)
	Exists(ctx context.Context, formulaID id.ID) (bool, error)
}

// Service provides production runs and their completion.
type Service struct {
	repo       Repository
	formulas   FormulaSource
	materials  material.Repository
	history    *history.Service
	readyStock *readystock.Service
	locker     lock.Locker
	txManager  tx.Manager
	audit      audit.Recorder
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo       Repository
	Formulas   FormulaSource
	Materials  material.Repository
	History    *history.Service
	ReadyStock *readystock.Service
	Locker     lock.Locker // optional
	TxManager  tx.Manager
	Audit      audit.Recorder // optional
}

// NewService creates a new production service.
func NewService(d Deps) *Service {
	if d.Locker == nil {
		d.Locker = lock.Nop{}
	}
	if d.Audit == nil {
		d.Audit = audit.Nop{}
	}
	return &Service{
		repo:       d.Repo,
		formulas:   d.Formulas,
		materials:  d.Materials,
		history:    d.History,
		readyStock: d.ReadyStock,
		locker:     d.Locker,
		txManager:  d.TxManager,
		audit:      d.Audit,
	}
}

// Create starts a pending run of formulaID for quantity kg.
func (s *Service) Create(ctx context.Context, formulaID id.ID, quantity decimal.Decimal) (*Run, error) {
	actor, err := appctx.ActorID(ctx)
	if err != nil {
		return nil, err
	}

	run := NewRun(formulaID, quantity, actor)
	if err := run.Validate(ctx); err != nil {
		return nil, err
	}

	ok, err := s.formulas.Exists(ctx, formulaID)
	if err != nil {
		return nil, fmt.Errorf("check formula: %w", err)
	}
	if !ok {
		return nil, apperror.NewNotFound("formula", formulaID.String())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, run); err != nil {
			return fmt.Errorf("create production run: %w", err)
		}
		return s.audit.Record(ctx, audit.EntityProduction, run.ID, audit.ActionCreate, run)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "production run created", "run_id", run.ID, "batch_code", run.BatchCode)
	return run, nil
}

// GetByID returns one run.
func (s *Service) GetByID(ctx context.Context, runID id.ID) (*Run, error) {
	return s.repo.GetByID(ctx, runID)
}

// List returns a page of runs, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Run], error) {
	return s.repo.List(ctx, filter)
}

// Details returns the run with its composition scaled to the run quantity.
func (s *Service) Details(ctx context.Context, runID id.ID) (*Details, error) {
	run, err := s.repo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	f, err := s.formulas.GetByID(ctx, run.FormulaID)
	if err != nil {
		return nil, err
	}

	d := &Details{
		Run:         run,
		FormulaName: f.Name,
		FormulaCode: f.Code,
		Composition: make([]DetailLine, 0, len(f.Composition)),
	}
	for _, c := range f.Composition {
		d.Composition = append(d.Composition, DetailLine{
			MaterialID:    c.MaterialID,
			MaterialName:  c.MaterialName,
			MaterialCode:  c.MaterialCode,
			Grams:         c.Grams,
			Percentage:    c.Percentage,
			RequiredGrams: c.RequiredGrams(run.Quantity),
		})
	}
	return d, nil
}

// UpdateStatus moves a pending run to complete or cancel.
// expectedVersion is the version the client read; zero skips the check.
func (s *Service) UpdateStatus(ctx context.Context, runID id.ID, status string, expectedVersion int) (*Run, error) {
	actor, err := appctx.ActorID(ctx)
	if err != nil {
		return nil, err
	}

	to, err := ParseTargetStatus(status)
	if err != nil {
		return nil, err
	}

	// Fail fast before taking the lock.
	run, err := s.repo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if err := run.CanTransition(to); err != nil {
		return nil, err
	}
	if expectedVersion > 0 && expectedVersion != run.Version {
		return nil, apperror.NewConcurrentModification(audit.EntityProduction, runID.String())
	}

	if to == StatusCancel {
		return s.cancel(ctx, run)
	}

	release, err := s.locker.Acquire(ctx, "production:"+runID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	return s.complete(ctx, runID, expectedVersion, actor)
}

func (s *Service) cancel(ctx context.Context, run *Run) (*Run, error) {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.repo.ApplyTransition(ctx, run.ID, Transition{
			From:      StatusPending,
			To:        StatusCancel,
			Version:   run.Version,
			CostPerKg: run.CostPerKg,
			TotalCost: run.TotalCost,
		})
		if err != nil {
			return fmt.Errorf("cancel production run: %w", err)
		}
		if !ok {
			return apperror.NewConflict("production run was changed by another request").
				WithDetail("id", run.ID.String())
		}
		return s.audit.Record(ctx, audit.EntityProduction, run.ID, audit.ActionStatusChange,
			map[string]any{"from": StatusPending, "to": StatusCancel})
	})
	if err != nil {
		return nil, err
	}

	run.Status = StatusCancel
	run.Version++
	logger.Info(ctx, "production run cancelled", "run_id", run.ID)
	return run, nil
}

// requirement is one ingredient resolved against current stock.
type requirement struct {
	material *material.Material
	kg       decimal.Decimal
}

// plan computes cost per kg over every ingredient and collects all
// shortages. Nothing is written.
func plan(f *formula.Formula, run *Run, mats map[id.ID]*material.Material) ([]requirement, decimal.Decimal, error) {
	reqs := make([]requirement, 0, len(f.Composition))
	costPerKg := decimal.Zero
	var short []apperror.Shortage

	for _, c := range f.Composition {
		if !c.Grams.IsPositive() {
			return nil, decimal.Zero, apperror.NewValidation("formula line has no grams").
				WithDetail("materialId", c.MaterialID.String())
		}
		m, ok := mats[c.MaterialID]
		if !ok {
			return nil, decimal.Zero, apperror.NewNotFound("material", c.MaterialID.String())
		}

		kg := c.RequiredKg(run.Quantity)
		costPerKg = costPerKg.Add(c.CostPerKg(m.AveragePrice))

		if kg.GreaterThan(m.CurrentStock) {
			short = append(short, apperror.Shortage{
				ID:        m.ID.String(),
				Name:      m.Name,
				Available: m.CurrentStock.String(),
				Required:  kg.String(),
			})
		}
		reqs = append(reqs, requirement{material: m, kg: kg})
	}

	if len(short) > 0 {
		names := make([]string, len(short))
		for i, sh := range short {
			names[i] = sh.Name
		}
		return nil, decimal.Zero, apperror.NewInsufficientStock(
			"Insufficient stock for: "+strings.Join(names, ", "), short)
	}

	return reqs, costPerKg, nil
}

// complete consumes every ingredient, credits ready stock and marks the
// run complete, all in one transaction. Any shortage aborts the whole
// operation and leaves the run pending.
func (s *Service) complete(ctx context.Context, runID id.ID, expectedVersion int, actor string) (*Run, error) {
	var run *Run
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		run, err = s.repo.GetByID(ctx, runID)
		if err != nil {
			return err
		}
		if err := run.CanTransition(StatusComplete); err != nil {
			return err
		}
		if expectedVersion > 0 && expectedVersion != run.Version {
			return apperror.NewConcurrentModification(audit.EntityProduction, runID.String())
		}

		f, err := s.formulas.GetByID(ctx, run.FormulaID)
		if err != nil {
			return err
		}
		mats, err := s.materials.GetMany(ctx, f.MaterialIDs())
		if err != nil {
			return fmt.Errorf("load materials: %w", err)
		}

		reqs, costPerKg, err := plan(f, run, mats)
		if err != nil {
			return err
		}

		for _, r := range reqs {
			m, err := s.materials.ApplyConsumption(ctx, r.material.ID, r.kg)
			if err != nil {
				return err
			}

			entry := history.NewEntry(m.ID, history.TypeOut, r.kg, history.ReasonProductionCompleted, m.CurrentStock, actor)
			entry.ProductionRunID = &run.ID
			entry.BatchCode = &run.BatchCode
			if err := s.history.Append(ctx, entry); err != nil {
				return err
			}
		}

		if _, err := s.readyStock.Credit(ctx, run.FormulaID, run.Quantity); err != nil {
			return err
		}

		totalCost := costPerKg.Mul(run.Quantity)
		ok, err := s.repo.ApplyTransition(ctx, run.ID, Transition{
			From:        StatusPending,
			To:          StatusComplete,
			Version:     run.Version,
			CostPerKg:   costPerKg,
			TotalCost:   totalCost,
			CompletedBy: &actor,
		})
		if err != nil {
			return fmt.Errorf("complete production run: %w", err)
		}
		if !ok {
			return apperror.NewConflict("production run was changed by another request").
				WithDetail("id", run.ID.String())
		}

		run.Status = StatusComplete
		run.CostPerKg = costPerKg
		run.TotalCost = totalCost
		run.CompletedBy = &actor
		run.Version++
		run.FormulaName = f.Name
		run.FormulaCode = f.Code

		return s.audit.Record(ctx, audit.EntityProduction, run.ID, audit.ActionStatusChange,
			map[string]any{"from": StatusPending, "to": StatusComplete, "costPerKg": costPerKg})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "production run completed",
		"run_id", run.ID,
		"cost_per_kg", run.CostPerKg,
		"quantity", run.Quantity)
	return run, nil
}
