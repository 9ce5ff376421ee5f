package handlers

import (
	"blendery/internal/domain/catalogs/customer"
	"blendery/internal/domain/catalogs/supplier"
	"blendery/internal/infrastructure/http/v1/dto"
)

// CustomerHandler handles /customers.
type CustomerHandler = CatalogHandler[*customer.Customer, dto.CreatePartyRequest, dto.UpdatePartyRequest]

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(base *BaseHandler, svc *customer.Service) *CustomerHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*customer.Customer, dto.CreatePartyRequest, dto.UpdatePartyRequest]{
		Service: svc.CatalogService,
		Label:   "Customer",
		MapCreateDTO: func(req dto.CreatePartyRequest) (*customer.Customer, error) {
			return req.ToCustomer(), nil
		},
		MapUpdateDTO: func(req dto.UpdatePartyRequest, existing *customer.Customer) *customer.Customer {
			req.ApplyTo(&existing.Party)
			return existing
		},
	})
}

// SupplierHandler handles /suppliers.
type SupplierHandler = CatalogHandler[*supplier.Supplier, dto.CreatePartyRequest, dto.UpdatePartyRequest]

// NewSupplierHandler creates a supplier handler.
func NewSupplierHandler(base *BaseHandler, svc *supplier.Service) *SupplierHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.CreatePartyRequest, dto.UpdatePartyRequest]{
		Service: svc.CatalogService,
		Label:   "Supplier",
		MapCreateDTO: func(req dto.CreatePartyRequest) (*supplier.Supplier, error) {
			return req.ToSupplier(), nil
		},
		MapUpdateDTO: func(req dto.UpdatePartyRequest, existing *supplier.Supplier) *supplier.Supplier {
			req.ApplyTo(&existing.Party)
			return existing
		},
	})
}
