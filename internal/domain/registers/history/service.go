package history

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
)

// MaterialLookup reports whether a material exists.
type MaterialLookup interface {
	Exists(ctx context.Context, materialID id.ID) (bool, error)
}

// Service provides read and append access to the history log.
// Appends are made by the batch and production services inside their
// own transactions.
type Service struct {
	repo      Repository
	materials MaterialLookup
}

// NewService creates a new history service.
func NewService(repo Repository, materials MaterialLookup) *Service {
	return &Service{repo: repo, materials: materials}
}

// Append validates and stores an entry.
func (s *Service) Append(ctx context.Context, e *Entry) error {
	if id.IsNil(e.MaterialID) {
		return apperror.NewRequired("materialId")
	}
	if !e.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").WithDetail("field", "quantity")
	}
	if e.CurrentStockAfter.LessThan(decimal.Zero) {
		return apperror.NewValidation("stock after transaction cannot be negative")
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// ListByMaterial returns the log of one material, newest first.
// typ is optional; an unknown value is a validation error.
func (s *Service) ListByMaterial(ctx context.Context, materialID id.ID, typ string) ([]*Entry, error) {
	var filter *Type
	if typ != "" {
		t, err := ParseType(typ)
		if err != nil {
			return nil, err
		}
		filter = &t
	}

	ok, err := s.materials.Exists(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("check material: %w", err)
	}
	if !ok {
		return nil, apperror.NewNotFound("material", materialID.String())
	}

	return s.repo.ListByMaterial(ctx, materialID, filter)
}
