package document_repo

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"blendery/internal/core/id"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/documents/packaging"
	"blendery/internal/infrastructure/storage/postgres"
)

const packagingTable = "packaging_batches"

// PackagingRepo implements packaging.Repository.
type PackagingRepo struct {
	*BaseDocumentRepo[*packaging.Batch]
}

// NewPackagingRepo creates a new packaging batch repository.
func NewPackagingRepo(txManager *postgres.TxManager) *PackagingRepo {
	return &PackagingRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txManager, Table{
			Name:   packagingTable,
			Alias:  "p",
			Entity: audit.EntityPackaging,
			Joined: []string{
				"r.batch_code AS run_batch_code",
				"r.formula_id AS formula_id",
				"f.name AS formula_name",
			},
			Joins: []string{
				"production_runs r ON r.id = p.production_run_id",
				"formulas f ON f.id = r.formula_id",
			},
		}, func() *packaging.Batch { return &packaging.Batch{} }),
	}
}

// GetMany loads batches by id.
func (r *PackagingRepo) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*packaging.Batch, error) {
	items, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[id.ID]*packaging.Batch, len(items))
	for _, b := range items {
		out[b.ID] = b
	}
	return out, nil
}

func (r *PackagingRepo) listQuery(filter packaging.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if s := strings.TrimSpace(filter.FormulaName); s != "" {
		q = q.Where(squirrel.ILike{"f.name": "%" + s + "%"})
	}
	if s := strings.TrimSpace(filter.BatchCode); s != "" {
		q = q.Where(squirrel.ILike{"r.batch_code": "%" + s + "%"})
	}
	if filter.PackagingDate != nil {
		day := filter.PackagingDate.UTC().Truncate(24 * time.Hour)
		q = q.Where(squirrel.GtOrEq{r.col("packaging_date"): day}).
			Where(squirrel.Lt{r.col("packaging_date"): day.Add(24 * time.Hour)})
	}
	return q
}

// List returns a page of packaging batches.
func (r *PackagingRepo) List(ctx context.Context, filter packaging.ListFilter) (domain.ListResult[*packaging.Batch], error) {
	return r.list(ctx, r.listQuery(filter), filter.ListFilter)
}

func (r *PackagingRepo) takeQuery(batchID id.ID, n int) squirrel.UpdateBuilder {
	return r.Builder().
		Update(packagingTable).
		Set("number_of_packages", squirrel.Expr("number_of_packages - ?", n)).
		Where(squirrel.Eq{"id": batchID}).
		Where(squirrel.GtOrEq{"number_of_packages": n})
}

// TakePackages implements packaging.Repository.
func (r *PackagingRepo) TakePackages(ctx context.Context, batchID id.ID, n int) (bool, error) {
	return r.execGuarded(ctx, r.takeQuery(batchID, n))
}
