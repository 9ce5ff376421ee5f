package entity

import (
	"context"
	"strings"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
)

// Catalog is the base type for reference data with a unique code:
// materials, formulas, customers, suppliers.
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier, unique per catalog, stored upper-cased
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// Cataloged is satisfied by every *T embedding Catalog.
type Cataloged interface {
	Validatable
	GetID() id.ID
	GetCode() string
	GetVersion() int
	Normalize()
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	c := Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
	}
	c.Normalize()
	return c
}

// NormalizeCode trims and upper-cases a catalog code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Normalize cleans user-supplied text fields in place.
func (c *Catalog) Normalize() {
	c.Code = NormalizeCode(c.Code)
	c.Name = strings.TrimSpace(c.Name)
}

// GetName returns the display name.
func (c *Catalog) GetName() string {
	return c.Name
}

// GetCode returns the unique code.
func (c *Catalog) GetCode() string {
	return c.Code
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewRequired("name")
	}
	if c.Code == "" {
		return apperror.NewRequired("code")
	}
	return nil
}
