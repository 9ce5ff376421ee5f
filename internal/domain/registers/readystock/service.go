package readystock

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
)

// Service provides the ready stock register.
type Service struct {
	repo Repository
}

// NewService creates a new ready stock service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Credit records finished bulk output. Called by production completion
// inside its transaction.
func (s *Service) Credit(ctx context.Context, formulaID id.ID, qty decimal.Decimal) (*ReadyStock, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("ready stock credit must be positive")
	}
	rs, err := s.repo.Credit(ctx, formulaID, qty)
	if err != nil {
		return nil, fmt.Errorf("credit ready stock: %w", err)
	}
	return rs, nil
}

// List returns all ready stock rows with formula names.
func (s *Service) List(ctx context.Context) ([]*ReadyStock, error) {
	return s.repo.List(ctx)
}

// GetByFormula returns the row of one formula.
func (s *Service) GetByFormula(ctx context.Context, formulaID id.ID) (*ReadyStock, error) {
	rs, err := s.repo.GetByFormula(ctx, formulaID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("ready stock", formulaID.String())
		}
		return nil, err
	}
	return rs, nil
}
