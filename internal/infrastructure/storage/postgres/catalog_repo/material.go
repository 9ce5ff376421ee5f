package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/infrastructure/storage/postgres"
)

const materialTable = "materials"

// materialUpdateCols are the client-editable columns. Stock and cost
// aggregates change only through the Apply* statements.
var materialUpdateCols = []string{"code", "name", "description", "unit", "updated_at"}

// MaterialRepo implements material.Repository.
type MaterialRepo struct {
	*BaseCatalogRepo[*material.Material]
	batch *postgres.BatchInserter
}

// NewMaterialRepo creates a new material repository.
func NewMaterialRepo(txManager *postgres.TxManager) *MaterialRepo {
	return &MaterialRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*material.Material](
			txManager,
			materialTable,
			audit.EntityMaterial,
			postgres.ExtractDBColumns[material.Material](),
			materialUpdateCols,
			func() *material.Material { return &material.Material{} },
		),
		batch: postgres.NewBatchInserter(txManager),
	}
}

// GetMany loads materials by id.
func (r *MaterialRepo) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*material.Material, error) {
	items, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[id.ID]*material.Material, len(items))
	for _, m := range items {
		out[m.ID] = m
	}
	return out, nil
}

// CreateMany inserts materials with COPY when running inside a transaction
// and falls back to a multi-row INSERT otherwise.
func (r *MaterialRepo) CreateMany(ctx context.Context, items []*material.Material) error {
	if len(items) == 0 {
		return nil
	}
	if r.txManager.GetTx(ctx) == nil {
		return r.BaseCatalogRepo.CreateMany(ctx, items)
	}

	rows := make([][]any, len(items))
	for i, m := range items {
		rows[i] = postgres.Values(postgres.StructToMap(m), r.selectCols)
	}
	if _, err := r.batch.CopyFromSlice(ctx, materialTable, r.selectCols, rows); err != nil {
		return postgres.MapWriteError(fmt.Errorf("copy materials: %w", err), audit.EntityMaterial)
	}
	return nil
}

// intakeQuery grows the received totals and recomputes the average price
// from the post-update totals in the same statement.
func (r *MaterialRepo) intakeQuery(materialID id.ID, qty, cost decimal.Decimal) squirrel.UpdateBuilder {
	return r.Builder().
		Update(materialTable).
		Set("stock_in", squirrel.Expr("stock_in + ?", qty)).
		Set("current_stock", squirrel.Expr("current_stock + ?", qty)).
		Set("total_cost", squirrel.Expr("total_cost + ?", cost)).
		Set("batch_count", squirrel.Expr("batch_count + 1")).
		Set("average_price", squirrel.Expr("(total_cost + ?) / NULLIF(stock_in + ?, 0)", cost, qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": materialID}).
		Suffix("RETURNING " + strings.Join(r.selectCols, ", "))
}

// removalQuery takes qty back out of the stock totals, never below zero.
func (r *MaterialRepo) removalQuery(materialID id.ID, qty decimal.Decimal) squirrel.UpdateBuilder {
	return r.Builder().
		Update(materialTable).
		Set("stock_in", squirrel.Expr("GREATEST(0, stock_in - ?)", qty)).
		Set("current_stock", squirrel.Expr("GREATEST(0, current_stock - ?)", qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": materialID}).
		Suffix("RETURNING " + strings.Join(r.selectCols, ", "))
}

// consumptionQuery moves qty from current stock to stock out when enough is on hand.
func (r *MaterialRepo) consumptionQuery(materialID id.ID, qty decimal.Decimal) squirrel.UpdateBuilder {
	return r.Builder().
		Update(materialTable).
		Set("current_stock", squirrel.Expr("current_stock - ?", qty)).
		Set("stock_out", squirrel.Expr("stock_out + ?", qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": materialID}).
		Where(squirrel.GtOrEq{"current_stock": qty}).
		Suffix("RETURNING " + strings.Join(r.selectCols, ", "))
}

// ApplyIntake implements material.Repository.
func (r *MaterialRepo) ApplyIntake(ctx context.Context, materialID id.ID, qty, cost decimal.Decimal) (*material.Material, error) {
	return r.applyReturning(ctx, r.intakeQuery(materialID, qty, cost), materialID)
}

// ApplyRemoval implements material.Repository.
func (r *MaterialRepo) ApplyRemoval(ctx context.Context, materialID id.ID, qty decimal.Decimal) (*material.Material, error) {
	return r.applyReturning(ctx, r.removalQuery(materialID, qty), materialID)
}

// ApplyConsumption implements material.Repository.
func (r *MaterialRepo) ApplyConsumption(ctx context.Context, materialID id.ID, qty decimal.Decimal) (*material.Material, error) {
	m, err := r.applyReturning(ctx, r.consumptionQuery(materialID, qty), materialID)
	if err == nil || !apperror.IsNotFound(err) {
		return m, err
	}

	// No row matched: either the material is gone or the guard failed.
	current, getErr := r.GetByID(ctx, materialID)
	if getErr != nil {
		return nil, getErr
	}
	return nil, apperror.NewInsufficientStock(
		"Insufficient stock for: "+current.Name,
		[]apperror.Shortage{{
			ID:        materialID.String(),
			Name:      current.Name,
			Available: current.CurrentStock.String(),
			Required:  qty.String(),
		}},
	)
}

func (r *MaterialRepo) applyReturning(ctx context.Context, q squirrel.UpdateBuilder, materialID id.ID) (*material.Material, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	m := &material.Material{}
	if err := pgxscan.Get(ctx, r.Querier(ctx), m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(audit.EntityMaterial, materialID.String())
		}
		return nil, postgres.MapWriteError(fmt.Errorf("update material stock: %w", err), audit.EntityMaterial)
	}
	return m, nil
}
