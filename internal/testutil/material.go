package testutil

import (
	"context"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/catalogs/customer"
	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/domain/catalogs/supplier"
)

// MaterialRepo is an in-memory material.Repository. Its mutators follow
// the same arithmetic as the SQL statements.
type MaterialRepo struct {
	*CatalogRepo[*material.Material]
}

var _ material.Repository = (*MaterialRepo)(nil)

func NewMaterialRepo() *MaterialRepo {
	return &MaterialRepo{CatalogRepo: NewCatalogRepo(audit.EntityMaterial, ClonePtr[material.Material])}
}

// Seed stores materials as-is, bypassing validation.
func (r *MaterialRepo) Seed(items ...*material.Material) {
	for _, m := range items {
		r.Put(m.ID, m)
	}
}

func (r *MaterialRepo) GetMany(_ context.Context, ids []id.ID) (map[id.ID]*material.Material, error) {
	out := make(map[id.ID]*material.Material, len(ids))
	for _, key := range ids {
		if m, ok := r.Get(key); ok {
			out[key] = m
		}
	}
	return out, nil
}

func (r *MaterialRepo) apply(key id.ID, fn func(m *material.Material) bool) (*material.Material, bool, error) {
	m, found, applied := r.Mutate(key, func(m *material.Material) (*material.Material, bool) {
		return m, fn(m)
	})
	if !found {
		return nil, false, notFound(audit.EntityMaterial, key)
	}
	return m, applied, nil
}

func (r *MaterialRepo) ApplyIntake(_ context.Context, key id.ID, qty, cost decimal.Decimal) (*material.Material, error) {
	m, _, err := r.apply(key, func(m *material.Material) bool {
		m.StockIn = m.StockIn.Add(qty)
		m.CurrentStock = m.CurrentStock.Add(qty)
		m.TotalCost = m.TotalCost.Add(cost)
		m.BatchCount++
		if !m.StockIn.IsZero() {
			m.AveragePrice = m.TotalCost.Div(m.StockIn)
		}
		return true
	})
	return m, err
}

func floorZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

func (r *MaterialRepo) ApplyRemoval(_ context.Context, key id.ID, qty decimal.Decimal) (*material.Material, error) {
	m, _, err := r.apply(key, func(m *material.Material) bool {
		m.StockIn = floorZero(m.StockIn.Sub(qty))
		m.CurrentStock = floorZero(m.CurrentStock.Sub(qty))
		return true
	})
	return m, err
}

func (r *MaterialRepo) ApplyConsumption(_ context.Context, key id.ID, qty decimal.Decimal) (*material.Material, error) {
	m, applied, err := r.apply(key, func(m *material.Material) bool {
		if m.CurrentStock.LessThan(qty) {
			return false
		}
		m.CurrentStock = m.CurrentStock.Sub(qty)
		m.StockOut = m.StockOut.Add(qty)
		return true
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		cur, _ := r.Get(key)
		return nil, apperror.NewInsufficientStock("Insufficient stock for: "+cur.Name, []apperror.Shortage{{
			ID:        key.String(),
			Name:      cur.Name,
			Available: cur.CurrentStock.String(),
			Required:  qty.String(),
		}})
	}
	return m, nil
}

// FormulaRepo is an in-memory formula.Repository.
type FormulaRepo struct {
	*CatalogRepo[*formula.Formula]
	lines     *Table[[]formula.Component]
	materials *MaterialRepo
}

var _ formula.Repository = (*FormulaRepo)(nil)

// NewFormulaRepo creates a formula store. materials fills the material
// name and code of loaded composition lines.
func NewFormulaRepo(materials *MaterialRepo) *FormulaRepo {
	return &FormulaRepo{
		CatalogRepo: NewCatalogRepo(audit.EntityFormula, func(f *formula.Formula) *formula.Formula {
			c := *f
			c.Composition = nil
			return &c
		}),
		lines: NewTable(func(c []formula.Component) []formula.Component {
			return append([]formula.Component(nil), c...)
		}),
		materials: materials,
	}
}

// Snapshot covers the header rows and the composition lines.
func (r *FormulaRepo) Snapshot() func() {
	a, b := r.CatalogRepo.Snapshot(), r.lines.Snapshot()
	return func() { a(); b() }
}

func (r *FormulaRepo) SaveComposition(_ context.Context, formulaID id.ID, lines []formula.Component) error {
	r.lines.Put(formulaID, lines)
	return nil
}

func (r *FormulaRepo) GetCompositions(_ context.Context, formulaIDs []id.ID) (map[id.ID][]formula.Component, error) {
	out := make(map[id.ID][]formula.Component, len(formulaIDs))
	for _, fid := range formulaIDs {
		lines, ok := r.lines.Get(fid)
		if !ok {
			continue
		}
		for i := range lines {
			if m, ok := r.materials.Get(lines[i].MaterialID); ok {
				lines[i].MaterialName = m.Name
				lines[i].MaterialCode = m.Code
			}
		}
		out[fid] = lines
	}
	return out, nil
}

// Delete removes the header and its lines.
func (r *FormulaRepo) Delete(ctx context.Context, key id.ID) error {
	if err := r.CatalogRepo.Delete(ctx, key); err != nil {
		return err
	}
	r.lines.Delete(key)
	return nil
}

// CustomerRepo is an in-memory customer.Repository.
type CustomerRepo = CatalogRepo[*customer.Customer]

func NewCustomerRepo() *CustomerRepo {
	return NewCatalogRepo(audit.EntityCustomer, ClonePtr[customer.Customer])
}

// SupplierRepo is an in-memory supplier.Repository.
type SupplierRepo = CatalogRepo[*supplier.Supplier]

func NewSupplierRepo() *SupplierRepo {
	return NewCatalogRepo(audit.EntitySupplier, ClonePtr[supplier.Supplier])
}
