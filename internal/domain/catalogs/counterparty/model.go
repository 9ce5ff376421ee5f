// Package counterparty provides the contact fields shared by the
// customer and supplier catalogs.
package counterparty

import (
	"context"
	"regexp"
	"strings"

	"blendery/internal/core/apperror"
	"blendery/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Party is a business partner with contact details.
type Party struct {
	entity.Catalog

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Address is the delivery or billing address
	Address *string `db:"address" json:"address,omitempty"`
}

// NewParty creates a new Party with required fields.
func NewParty(code, name string) Party {
	return Party{Catalog: entity.NewCatalog(code, name)}
}

// Normalize trims text fields; empty optionals become nil.
func (p *Party) Normalize() {
	p.Catalog.Normalize()
	p.Phone = trimOptional(p.Phone)
	p.Email = trimOptional(p.Email)
	p.Address = trimOptional(p.Address)
}

// Validate implements entity.Validatable interface.
func (p *Party) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Email != nil && !emailRE.MatchString(*p.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
