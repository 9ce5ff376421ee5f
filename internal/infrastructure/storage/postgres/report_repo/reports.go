// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"blendery/internal/domain/reports"
	"blendery/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   postgres.Builder(),
	}
}

func (r *ReportRepo) valuationQuery(filter reports.StockValuationFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select("id AS material_id", "code", "name", "unit", "current_stock", "average_price").
		From("materials")

	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.Gt{"current_stock": 0})
	}
	return q.OrderBy("name")
}

// StockValuation lists materials with their stock and average price.
func (r *ReportRepo) StockValuation(ctx context.Context, filter reports.StockValuationFilter) ([]reports.StockValuationItem, error) {
	sql, args, err := r.valuationQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []reports.StockValuationItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("stock valuation: %w", err)
	}
	return items, nil
}

// ReadyStockTotal sums ready blend stock over all formulas.
func (r *ReportRepo) ReadyStockTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.txManager.GetQuerier(ctx).
		QueryRow(ctx, `SELECT COALESCE(SUM(total_quantity), 0) FROM ready_stock`).
		Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ready stock total: %w", err)
	}
	return total, nil
}

// turnoverSQL derives balances from the stock level recorded on each
// history entry: the last entry before the period opens it, the last entry
// inside it closes it.
const turnoverSQL = `
	WITH opening AS (
		SELECT DISTINCT ON (material_id) material_id, current_stock_after AS balance
		FROM stock_history
		WHERE created_at < $1
		ORDER BY material_id, created_at DESC, id DESC
	),
	closing AS (
		SELECT DISTINCT ON (material_id) material_id, current_stock_after AS balance
		FROM stock_history
		WHERE created_at <= $2
		ORDER BY material_id, created_at DESC, id DESC
	),
	moves AS (
		SELECT material_id,
		       SUM(quantity) FILTER (WHERE type = 'IN')     AS receipt,
		       SUM(quantity) FILTER (WHERE type = 'OUT')    AS expense,
		       SUM(quantity) FILTER (WHERE type = 'DELETE') AS removed
		FROM stock_history
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY material_id
	)
	SELECT m.id AS material_id, m.code, m.name,
	       COALESCE(o.balance, 0)  AS opening_balance,
	       COALESCE(mv.receipt, 0) AS receipt,
	       COALESCE(mv.expense, 0) AS expense,
	       COALESCE(mv.removed, 0) AS removed,
	       COALESCE(c.balance, 0)  AS closing_balance
	FROM materials m
	LEFT JOIN opening o ON o.material_id = m.id
	LEFT JOIN closing c ON c.material_id = m.id
	LEFT JOIN moves mv ON mv.material_id = m.id`

func (r *ReportRepo) turnoverQuery(filter reports.StockTurnoverFilter) (string, []any) {
	sql := turnoverSQL
	args := []any{filter.FromDate, filter.ToDate}

	var where []string
	if len(filter.MaterialIDs) > 0 {
		args = append(args, filter.MaterialIDs)
		where = append(where, fmt.Sprintf("m.id = ANY($%d)", len(args)))
	}
	if !filter.IncludeZero {
		where = append(where, "mv.material_id IS NOT NULL")
	}
	if len(where) > 0 {
		sql += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	return sql + "\n\tORDER BY m.name", args
}

// StockTurnover aggregates history entries per material for the period.
func (r *ReportRepo) StockTurnover(ctx context.Context, filter reports.StockTurnoverFilter) ([]reports.StockTurnoverItem, error) {
	sql, args := r.turnoverQuery(filter)

	var items []reports.StockTurnoverItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("stock turnover: %w", err)
	}
	return items, nil
}
