package formula

import (
	"context"
	"fmt"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/core/tx"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
)

// MaterialLookup reports which of the given materials exist.
type MaterialLookup interface {
	Exists(ctx context.Context, materialID id.ID) (bool, error)
}

// Service provides business logic for the Formula catalog.
type Service struct {
	*domain.CatalogService[*Formula]
	repo      Repository
	materials MaterialLookup
}

// NewService creates a new Formula service.
func NewService(repo Repository, materials MaterialLookup, txm tx.Manager, rec audit.Recorder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Formula]{
		Repo:       repo,
		TxManager:  txm,
		Audit:      rec,
		EntityName: audit.EntityFormula,
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		materials:      materials,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkMaterials)
	base.Hooks().On(domain.AfterCreate, svc.saveComposition)

	return svc
}

// checkMaterials fails with NotFound for the first unknown material.
func (s *Service) checkMaterials(ctx context.Context, f *Formula) error {
	for _, mid := range f.MaterialIDs() {
		ok, err := s.materials.Exists(ctx, mid)
		if err != nil {
			return fmt.Errorf("check material: %w", err)
		}
		if !ok {
			return apperror.NewNotFound("material", mid.String())
		}
	}
	return nil
}

func (s *Service) saveComposition(ctx context.Context, f *Formula) error {
	if err := s.repo.SaveComposition(ctx, f.ID, f.Composition); err != nil {
		return fmt.Errorf("save composition: %w", err)
	}
	return nil
}

// GetByID returns the formula with its composition.
func (s *Service) GetByID(ctx context.Context, formulaID id.ID) (*Formula, error) {
	f, err := s.CatalogService.GetByID(ctx, formulaID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetCompositions(ctx, []id.ID{formulaID})
	if err != nil {
		return nil, fmt.Errorf("load composition: %w", err)
	}
	f.Composition = lines[formulaID]
	return f, nil
}

// List returns a page of formulas with their compositions.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Formula], error) {
	res, err := s.CatalogService.List(ctx, filter)
	if err != nil {
		return res, err
	}
	if len(res.Items) == 0 {
		return res, nil
	}

	ids := make([]id.ID, len(res.Items))
	for i, f := range res.Items {
		ids[i] = f.ID
	}
	lines, err := s.repo.GetCompositions(ctx, ids)
	if err != nil {
		return res, fmt.Errorf("load compositions: %w", err)
	}
	for _, f := range res.Items {
		f.Composition = lines[f.ID]
	}
	return res, nil
}

// Exists reports whether a formula exists.
func (s *Service) Exists(ctx context.Context, formulaID id.ID) (bool, error) {
	return s.repo.Exists(ctx, formulaID)
}
