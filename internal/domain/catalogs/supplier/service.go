package supplier

import (
	"blendery/internal/core/tx"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
)

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.CatalogRepository[*Supplier]
}

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txm tx.Manager, rec audit.Recorder) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
			Repo:       repo,
			TxManager:  txm,
			Audit:      rec,
			EntityName: audit.EntitySupplier,
		}),
	}
}
