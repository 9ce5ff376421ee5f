package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/domain/registers/readystock"
	"blendery/internal/infrastructure/storage/postgres"
)

const readyStockTable = "ready_stock"

// creditSQL upserts the formula's row and returns it joined with the formula.
const creditSQL = `
	WITH up AS (
		INSERT INTO ready_stock (id, formula_id, total_quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (formula_id) DO UPDATE
			SET total_quantity = ready_stock.total_quantity + EXCLUDED.total_quantity,
			    updated_at = NOW()
		RETURNING id, formula_id, total_quantity, updated_at
	)
	SELECT up.id, up.formula_id, up.total_quantity, up.updated_at,
	       f.name AS formula_name, f.code AS formula_code
	FROM up
	JOIN formulas f ON f.id = up.formula_id`

// ReadyStockRepo implements readystock.Repository.
type ReadyStockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReadyStockRepo creates a new ready stock repository.
func NewReadyStockRepo(txManager *postgres.TxManager) *ReadyStockRepo {
	return &ReadyStockRepo{
		txManager: txManager,
		builder:   postgres.Builder(),
	}
}

// Credit adds qty to the formula's ready stock in one statement.
func (r *ReadyStockRepo) Credit(ctx context.Context, formulaID id.ID, qty decimal.Decimal) (*readystock.ReadyStock, error) {
	rs := &readystock.ReadyStock{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), rs, creditSQL, id.New(), formulaID, qty); err != nil {
		return nil, postgres.MapWriteError(fmt.Errorf("credit ready stock: %w", err), "ready stock")
	}
	return rs, nil
}

func (r *ReadyStockRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(
			"rs.id", "rs.formula_id", "rs.total_quantity", "rs.updated_at",
			"f.name AS formula_name", "f.code AS formula_code",
		).
		From(readyStockTable + " rs").
		Join("formulas f ON f.id = rs.formula_id")
}

// List returns every ready stock row by formula name.
func (r *ReadyStockRepo) List(ctx context.Context) ([]*readystock.ReadyStock, error) {
	sql, args, err := r.baseSelect().OrderBy("f.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []*readystock.ReadyStock{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list ready stock: %w", err)
	}
	return items, nil
}

// GetByFormula returns NotFound when nothing was produced yet.
func (r *ReadyStockRepo) GetByFormula(ctx context.Context, formulaID id.ID) (*readystock.ReadyStock, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"rs.formula_id": formulaID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rs := &readystock.ReadyStock{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), rs, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("ready stock", formulaID.String())
		}
		return nil, fmt.Errorf("get ready stock: %w", err)
	}
	return rs, nil
}
