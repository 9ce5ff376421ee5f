package document_repo

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"blendery/internal/domain"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/documents/batch"
	"blendery/internal/infrastructure/storage/postgres"
)

// BatchRepo implements batch.Repository.
type BatchRepo struct {
	*BaseDocumentRepo[*batch.Batch]
}

// NewBatchRepo creates a new batch repository.
func NewBatchRepo(txManager *postgres.TxManager) *BatchRepo {
	return &BatchRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txManager, Table{
			Name:   "batches",
			Alias:  "b",
			Entity: audit.EntityBatch,
			Joined: []string{"m.name AS material_name", "m.code AS material_code"},
			Joins:  []string{"materials m ON m.id = b.material_id"},
		}, func() *batch.Batch { return &batch.Batch{} }),
	}
}

// ExistsByCode checks whether a batch code is already used.
func (r *BatchRepo) ExistsByCode(ctx context.Context, batchCode string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"batch_code": batchCode})
}

func (r *BatchRepo) listQuery(filter batch.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.MaterialID != nil {
		q = q.Where(squirrel.Eq{r.col("material_id"): *filter.MaterialID})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{r.col("batch_code"): pattern},
			squirrel.ILike{r.col("supplier"): pattern},
			squirrel.ILike{"m.name": pattern},
		})
	}
	return q
}

// List returns a page of batches.
func (r *BatchRepo) List(ctx context.Context, filter batch.ListFilter) (domain.ListResult[*batch.Batch], error) {
	return r.list(ctx, r.listQuery(filter), filter.ListFilter)
}
