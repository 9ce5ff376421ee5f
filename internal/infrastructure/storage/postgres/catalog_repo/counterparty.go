package catalog_repo

import (
	"blendery/internal/domain/audit"
	"blendery/internal/domain/catalogs/customer"
	"blendery/internal/domain/catalogs/supplier"
	"blendery/internal/infrastructure/storage/postgres"
)

const (
	customerTable = "customers"
	supplierTable = "suppliers"
)

var partyUpdateCols = []string{"code", "name", "phone", "email", "address", "updated_at"}

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*customer.Customer](
			txManager,
			customerTable,
			audit.EntityCustomer,
			postgres.ExtractDBColumns[customer.Customer](),
			partyUpdateCols,
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*supplier.Supplier](
			txManager,
			supplierTable,
			audit.EntitySupplier,
			postgres.ExtractDBColumns[supplier.Supplier](),
			partyUpdateCols,
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}
