package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"blendery/internal/core/id"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/documents/production"
	"blendery/internal/infrastructure/storage/postgres"
)

const productionTable = "production_runs"

// ProductionRepo implements production.Repository.
type ProductionRepo struct {
	*BaseDocumentRepo[*production.Run]
}

// NewProductionRepo creates a new production run repository.
func NewProductionRepo(txManager *postgres.TxManager) *ProductionRepo {
	return &ProductionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txManager, Table{
			Name:   productionTable,
			Alias:  "r",
			Entity: audit.EntityProduction,
			Joined: []string{"f.name AS formula_name", "f.code AS formula_code"},
			Joins:  []string{"formulas f ON f.id = r.formula_id"},
		}, func() *production.Run { return &production.Run{} }),
	}
}

// List returns a page of runs, optionally of one status.
func (r *ProductionRepo) List(ctx context.Context, filter production.ListFilter) (domain.ListResult[*production.Run], error) {
	q := r.baseSelect()
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{r.col("status"): string(*filter.Status)})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{r.col("batch_code"): pattern},
			squirrel.ILike{"f.name": pattern},
		})
	}
	return r.list(ctx, q, filter.ListFilter)
}

func (r *ProductionRepo) transitionQuery(runID id.ID, t production.Transition) squirrel.UpdateBuilder {
	q := r.Builder().
		Update(productionTable).
		Set("status", string(t.To)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()"))
	if t.To == production.StatusComplete {
		q = q.Set("cost_per_kg", t.CostPerKg).
			Set("total_cost", t.TotalCost).
			Set("completed_by", t.CompletedBy)
	}
	return q.
		Where(squirrel.Eq{"id": runID}).
		Where(squirrel.Eq{"status": string(t.From)}).
		Where(squirrel.Eq{"version": t.Version})
}

// ApplyTransition implements production.Repository.
func (r *ProductionRepo) ApplyTransition(ctx context.Context, runID id.ID, t production.Transition) (bool, error) {
	return r.execGuarded(ctx, r.transitionQuery(runID, t))
}

func (r *ProductionRepo) drawQuery(runID id.ID, kg decimal.Decimal) squirrel.UpdateBuilder {
	return r.Builder().
		Update(productionTable).
		Set("quantity", squirrel.Expr("quantity - ?", kg)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": runID}).
		Where(squirrel.Eq{"status": string(production.StatusComplete)}).
		Where(squirrel.GtOrEq{"quantity": kg})
}

// DrawQuantity implements production.Repository.
func (r *ProductionRepo) DrawQuantity(ctx context.Context, runID id.ID, kg decimal.Decimal) (bool, error) {
	return r.execGuarded(ctx, r.drawQuery(runID, kg))
}
