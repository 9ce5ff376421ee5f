// Package customer provides the Customer catalog.
package customer

import (
	"blendery/internal/domain/catalogs/counterparty"
)

// Customer buys packaged goods.
type Customer struct {
	counterparty.Party
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name string) *Customer {
	return &Customer{Party: counterparty.NewParty(code, name)}
}
