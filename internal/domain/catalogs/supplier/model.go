// Package supplier provides the Supplier catalog.
package supplier

import (
	"blendery/internal/domain/catalogs/counterparty"
)

// Supplier sells raw materials and may be linked to sales.
type Supplier struct {
	counterparty.Party
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{Party: counterparty.NewParty(code, name)}
}
