package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"blendery/internal/core/id"
	"blendery/internal/domain"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/documents/sale"
	"blendery/internal/infrastructure/storage/postgres"
)

const (
	saleTable     = "sales"
	saleItemTable = "sale_items"
)

var saleItemCols = []string{
	"sale_id", "line_no", "formula_id", "packaging_batch_id",
	"quantity", "price", "discount", "tax", "subtotal",
}

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Sale]
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txManager, Table{
			Name:   saleTable,
			Alias:  "s",
			Entity: audit.EntitySale,
			Joined: []string{"c.name AS customer_name"},
			Joins:  []string{"customers c ON c.id = s.customer_id"},
		}, func() *sale.Sale { return &sale.Sale{} }),
	}
}

func (r *SaleRepo) itemsInsert(saleID id.ID, items []sale.Item) squirrel.InsertBuilder {
	q := r.Builder().Insert(saleItemTable).Columns(saleItemCols...)
	for _, it := range items {
		q = q.Values(saleID, it.LineNo, it.FormulaID, it.PackagingBatchID,
			it.Quantity, it.Price, it.Discount, it.Tax, it.Subtotal)
	}
	return q
}

// SaveItems inserts the line items of a sale.
func (r *SaleRepo) SaveItems(ctx context.Context, saleID id.ID, items []sale.Item) error {
	if len(items) == 0 {
		return nil
	}

	sql, args, err := r.itemsInsert(saleID, items).ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError(fmt.Errorf("insert sale items: %w", err), "sale item")
	}
	return nil
}

// GetByID returns the sale with its items.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	s, err := r.BaseDocumentRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.Builder().
		Select(saleItemCols[1:]...).
		From(saleItemTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.Querier(ctx), &s.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	return s, nil
}

// List returns a page of sales without their items.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) (domain.ListResult[*sale.Sale], error) {
	q := r.baseSelect()
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{r.col("customer_id"): *filter.CustomerID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{r.col("status"): string(*filter.Status)})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{r.col("number"): pattern},
			squirrel.ILike{"c.name": pattern},
		})
	}
	return r.list(ctx, q, filter.ListFilter)
}

func (r *SaleRepo) statusQuery(saleID id.ID, from, to sale.Status, version int) squirrel.UpdateBuilder {
	return r.Builder().
		Update(saleTable).
		Set("status", string(to)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": saleID}).
		Where(squirrel.Eq{"status": string(from)}).
		Where(squirrel.Eq{"version": version})
}

// ApplyStatus implements sale.Repository.
func (r *SaleRepo) ApplyStatus(ctx context.Context, saleID id.ID, from, to sale.Status, version int) (bool, error) {
	return r.execGuarded(ctx, r.statusQuery(saleID, from, to, version))
}
