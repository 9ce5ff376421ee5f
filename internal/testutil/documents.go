package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/documents/batch"
	"blendery/internal/domain/documents/packaging"
	"blendery/internal/domain/documents/production"
	"blendery/internal/domain/documents/sale"
)

// BatchRepo is an in-memory batch.Repository.
type BatchRepo struct {
	*Table[*batch.Batch]
}

var _ batch.Repository = (*BatchRepo)(nil)

func NewBatchRepo() *BatchRepo {
	return &BatchRepo{Table: NewTable(ClonePtr[batch.Batch])}
}

func (r *BatchRepo) Create(ctx context.Context, b *batch.Batch) error {
	if ok, _ := r.ExistsByCode(ctx, b.BatchCode); ok {
		return apperror.NewDuplicate(audit.EntityBatch, "batchCode", b.BatchCode)
	}
	r.Put(b.ID, b)
	return nil
}

func (r *BatchRepo) GetByID(_ context.Context, key id.ID) (*batch.Batch, error) {
	b, ok := r.Get(key)
	if !ok {
		return nil, notFound(audit.EntityBatch, key)
	}
	return b, nil
}

func (r *BatchRepo) Delete(_ context.Context, key id.ID) error {
	if !r.Table.Delete(key) {
		return notFound(audit.EntityBatch, key)
	}
	return nil
}

func (r *BatchRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, b := range r.All() {
		if b.BatchCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *BatchRepo) List(_ context.Context, filter batch.ListFilter) (domain.ListResult[*batch.Batch], error) {
	var items []*batch.Batch
	for _, b := range r.All() {
		if filter.MaterialID != nil && b.MaterialID != *filter.MaterialID {
			continue
		}
		if !matches(filter.Search, b.BatchCode, b.Supplier, b.MaterialName) {
			continue
		}
		items = append(items, b)
	}
	return Paginate(items, filter.ListFilter), nil
}

func matches(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// ProductionRepo is an in-memory production.Repository.
type ProductionRepo struct {
	*Table[*production.Run]
}

var _ production.Repository = (*ProductionRepo)(nil)

func NewProductionRepo() *ProductionRepo {
	return &ProductionRepo{Table: NewTable(ClonePtr[production.Run])}
}

func (r *ProductionRepo) Create(_ context.Context, run *production.Run) error {
	r.Put(run.ID, run)
	return nil
}

func (r *ProductionRepo) GetByID(_ context.Context, key id.ID) (*production.Run, error) {
	run, ok := r.Get(key)
	if !ok {
		return nil, notFound(audit.EntityProduction, key)
	}
	return run, nil
}

func (r *ProductionRepo) List(_ context.Context, filter production.ListFilter) (domain.ListResult[*production.Run], error) {
	var items []*production.Run
	for _, run := range r.All() {
		if filter.Status != nil && run.Status != *filter.Status {
			continue
		}
		if !matches(filter.Search, run.BatchCode, run.FormulaName) {
			continue
		}
		items = append(items, run)
	}
	return Paginate(items, filter.ListFilter), nil
}

func (r *ProductionRepo) ApplyTransition(_ context.Context, key id.ID, t production.Transition) (bool, error) {
	_, _, applied := r.Mutate(key, func(run *production.Run) (*production.Run, bool) {
		if run.Status != t.From || run.Version != t.Version {
			return run, false
		}
		run.Status = t.To
		run.Version++
		run.UpdatedAt = time.Now().UTC()
		if t.To == production.StatusComplete {
			run.CostPerKg = t.CostPerKg
			run.TotalCost = t.TotalCost
			run.CompletedBy = t.CompletedBy
		}
		return run, true
	})
	return applied, nil
}

func (r *ProductionRepo) DrawQuantity(_ context.Context, key id.ID, kg decimal.Decimal) (bool, error) {
	_, _, applied := r.Mutate(key, func(run *production.Run) (*production.Run, bool) {
		if run.Status != production.StatusComplete || run.Quantity.LessThan(kg) {
			return run, false
		}
		run.Quantity = run.Quantity.Sub(kg)
		return run, true
	})
	return applied, nil
}

// PackagingRepo is an in-memory packaging.Repository.
type PackagingRepo struct {
	*Table[*packaging.Batch]
}

var _ packaging.Repository = (*PackagingRepo)(nil)

func NewPackagingRepo() *PackagingRepo {
	return &PackagingRepo{Table: NewTable(ClonePtr[packaging.Batch])}
}

func (r *PackagingRepo) Create(_ context.Context, b *packaging.Batch) error {
	r.Put(b.ID, b)
	return nil
}

func (r *PackagingRepo) GetByID(_ context.Context, key id.ID) (*packaging.Batch, error) {
	b, ok := r.Get(key)
	if !ok {
		return nil, notFound(audit.EntityPackaging, key)
	}
	return b, nil
}

func (r *PackagingRepo) GetMany(_ context.Context, ids []id.ID) (map[id.ID]*packaging.Batch, error) {
	out := make(map[id.ID]*packaging.Batch, len(ids))
	for _, key := range ids {
		if b, ok := r.Get(key); ok {
			out[key] = b
		}
	}
	return out, nil
}

func (r *PackagingRepo) List(_ context.Context, filter packaging.ListFilter) (domain.ListResult[*packaging.Batch], error) {
	var items []*packaging.Batch
	for _, b := range r.All() {
		if filter.FormulaName != "" && !matches(filter.FormulaName, b.FormulaName) {
			continue
		}
		if filter.BatchCode != "" && !matches(filter.BatchCode, b.RunBatchCode) {
			continue
		}
		if filter.PackagingDate != nil {
			day := filter.PackagingDate.UTC().Truncate(24 * time.Hour)
			if b.PackagingDate.Before(day) || !b.PackagingDate.Before(day.Add(24*time.Hour)) {
				continue
			}
		}
		items = append(items, b)
	}
	return Paginate(items, filter.ListFilter), nil
}

func (r *PackagingRepo) TakePackages(_ context.Context, key id.ID, n int) (bool, error) {
	_, _, applied := r.Mutate(key, func(b *packaging.Batch) (*packaging.Batch, bool) {
		if b.NumberOfPackages < n {
			return b, false
		}
		b.NumberOfPackages -= n
		return b, true
	})
	return applied, nil
}

// SaleRepo is an in-memory sale.Repository.
type SaleRepo struct {
	*Table[*sale.Sale]
	items *Table[[]sale.Item]
}

var _ sale.Repository = (*SaleRepo)(nil)

func NewSaleRepo() *SaleRepo {
	return &SaleRepo{
		Table: NewTable(func(s *sale.Sale) *sale.Sale {
			c := *s
			c.Items = nil
			return &c
		}),
		items: NewTable(func(items []sale.Item) []sale.Item {
			return append([]sale.Item(nil), items...)
		}),
	}
}

// Snapshot covers sale headers and items.
func (r *SaleRepo) Snapshot() func() {
	a, b := r.Table.Snapshot(), r.items.Snapshot()
	return func() { a(); b() }
}

func (r *SaleRepo) Create(_ context.Context, s *sale.Sale) error {
	for _, existing := range r.All() {
		if existing.Number == s.Number {
			return apperror.NewDuplicate(audit.EntitySale, "number", s.Number)
		}
	}
	r.Put(s.ID, s)
	return nil
}

func (r *SaleRepo) SaveItems(_ context.Context, saleID id.ID, items []sale.Item) error {
	r.items.Put(saleID, items)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, key id.ID) (*sale.Sale, error) {
	s, ok := r.Get(key)
	if !ok {
		return nil, notFound(audit.EntitySale, key)
	}
	s.Items, _ = r.items.Get(key)
	if s.Items == nil {
		s.Items = []sale.Item{}
	}
	return s, nil
}

func (r *SaleRepo) List(_ context.Context, filter sale.ListFilter) (domain.ListResult[*sale.Sale], error) {
	var items []*sale.Sale
	for _, s := range r.All() {
		if filter.CustomerID != nil && s.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if !matches(filter.Search, s.Number, s.CustomerName) {
			continue
		}
		items = append(items, s)
	}
	return Paginate(items, filter.ListFilter), nil
}

func (r *SaleRepo) ApplyStatus(_ context.Context, key id.ID, from, to sale.Status, version int) (bool, error) {
	_, _, applied := r.Mutate(key, func(s *sale.Sale) (*sale.Sale, bool) {
		if s.Status != from || s.Version != version {
			return s, false
		}
		s.Status = to
		s.Version++
		return s, true
	})
	return applied, nil
}
