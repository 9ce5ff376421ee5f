package material

import (
	"context"
	"fmt"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/id"
	"blendery/internal/core/tx"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
)

// Service provides business logic for the Material catalog.
// Single-item CRUD is delegated to domain.CatalogService.
type Service struct {
	*domain.CatalogService[*Material]
	repo      Repository
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new Material service.
func NewService(repo Repository, txm tx.Manager, rec audit.Recorder) *Service {
	if rec == nil {
		rec = audit.Nop{}
	}
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Material]{
		Repo:       repo,
		TxManager:  txm,
		Audit:      rec,
		EntityName: audit.EntityMaterial,
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txm,
		audit:          rec,
	}
}

// UpdateDetails changes the descriptive fields of a material.
// version is the version the client read; zero skips the check.
func (s *Service) UpdateDetails(ctx context.Context, materialID id.ID, version int, d Details) (*Material, error) {
	m, err := s.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if version > 0 && version != m.Version {
		return nil, apperror.NewConcurrentModification(audit.EntityMaterial, materialID.String())
	}

	m.Apply(d)
	m.Touch()
	if err := s.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Skipped describes a bulk entry that was not created.
type Skipped struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BulkResult is the outcome of BulkCreate.
type BulkResult struct {
	Created []*Material `json:"created"`
	Skipped []Skipped   `json:"skipped"`
}

// Skip reasons reported by BulkCreate.
const (
	SkipMissingFields = "name and code are required"
	SkipDuplicateCode = "code already exists"
	SkipRepeatedCode  = "code repeated in request"
)

// BulkCreate creates every valid entry and reports the rest.
// Entries without name or code, or whose code is already taken (in the
// catalog or earlier in the same request), are skipped.
func (s *Service) BulkCreate(ctx context.Context, items []*Material) (*BulkResult, error) {
	if _, err := appctx.ActorID(ctx); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.NewValidation("at least one material is required")
	}

	res := &BulkResult{Created: []*Material{}, Skipped: []Skipped{}}

	candidates := make([]*Material, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, m := range items {
		m.Normalize()
		if m.Name == "" || m.Code == "" {
			res.Skipped = append(res.Skipped, Skipped{Code: m.Code, Name: m.Name, Reason: SkipMissingFields})
			continue
		}
		if seen[m.Code] {
			res.Skipped = append(res.Skipped, Skipped{Code: m.Code, Name: m.Name, Reason: SkipRepeatedCode})
			continue
		}
		seen[m.Code] = true
		candidates = append(candidates, m)
	}

	if len(candidates) == 0 {
		return res, nil
	}

	invalid := res.Skipped
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		created := make([]*Material, 0, len(candidates))
		skipped := make([]Skipped, 0)

		codes := make([]string, len(candidates))
		for i, m := range candidates {
			codes[i] = m.Code
		}
		taken, err := s.repo.ExistingCodes(ctx, codes)
		if err != nil {
			return fmt.Errorf("check material codes: %w", err)
		}

		for _, m := range candidates {
			if taken[m.Code] {
				skipped = append(skipped, Skipped{Code: m.Code, Name: m.Name, Reason: SkipDuplicateCode})
				continue
			}
			created = append(created, m)
		}

		if len(created) > 0 {
			if err := s.repo.CreateMany(ctx, created); err != nil {
				return fmt.Errorf("bulk create materials: %w", err)
			}
		}
		for _, m := range created {
			if err := s.audit.Record(ctx, audit.EntityMaterial, m.ID, audit.ActionCreate, m); err != nil {
				return err
			}
		}

		res.Created = created
		res.Skipped = append(append([]Skipped{}, invalid...), skipped...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
