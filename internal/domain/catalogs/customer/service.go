package customer

import (
	"blendery/internal/core/tx"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]
}

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
}

// NewService creates a new Customer service.
func NewService(repo Repository, txm tx.Manager, rec audit.Recorder) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
			Repo:       repo,
			TxManager:  txm,
			Audit:      rec,
			EntityName: audit.EntityCustomer,
		}),
	}
}
