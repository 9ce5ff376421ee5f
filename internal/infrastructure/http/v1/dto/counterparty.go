package dto

import (
	"blendery/internal/domain/catalogs/counterparty"
	"blendery/internal/domain/catalogs/customer"
	"blendery/internal/domain/catalogs/supplier"
)

// CreatePartyRequest is the request body for creating a customer or supplier.
type CreatePartyRequest struct {
	Code    string  `json:"code" binding:"required"`
	Name    string  `json:"name" binding:"required"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

func (r *CreatePartyRequest) applyTo(p *counterparty.Party) {
	p.Phone = r.Phone
	p.Email = r.Email
	p.Address = r.Address
}

// ToCustomer converts the request to a new customer.
func (r *CreatePartyRequest) ToCustomer() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name)
	r.applyTo(&c.Party)
	return c
}

// ToSupplier converts the request to a new supplier.
func (r *CreatePartyRequest) ToSupplier() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	r.applyTo(&s.Party)
	return s
}

// UpdatePartyRequest is the request body for updating a customer or supplier.
type UpdatePartyRequest struct {
	CreatePartyRequest
	Version int `json:"version" binding:"required,min=1"`
}

// ApplyTo copies the request onto an existing party.
func (r *UpdatePartyRequest) ApplyTo(p *counterparty.Party) {
	p.Code = r.Code
	p.Name = r.Name
	r.applyTo(p)
	p.Version = r.Version
	p.Touch()
}
