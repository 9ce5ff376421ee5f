// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"blendery/internal/core/id"
	"blendery/internal/domain/registers/history"
	"blendery/internal/infrastructure/storage/postgres"
)

const historyTable = "stock_history"

// HistoryRepo implements history.Repository.
type HistoryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
	cols      []string
}

// NewHistoryRepo creates a new stock history repository.
func NewHistoryRepo(txManager *postgres.TxManager) *HistoryRepo {
	return &HistoryRepo{
		txManager: txManager,
		builder:   postgres.Builder(),
		cols:      postgres.ExtractDBColumns[history.Entry](),
	}
}

func (r *HistoryRepo) appendQuery(e *history.Entry) squirrel.InsertBuilder {
	return r.builder.
		Insert(historyTable).
		Columns(r.cols...).
		Values(postgres.Values(postgres.StructToMap(e), r.cols)...)
}

// Append inserts an entry in the caller's transaction.
func (r *HistoryRepo) Append(ctx context.Context, e *history.Entry) error {
	sql, args, err := r.appendQuery(e).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError(fmt.Errorf("append history: %w", err), "history entry")
	}
	return nil
}

func (r *HistoryRepo) listQuery(materialID id.ID, t *history.Type) squirrel.SelectBuilder {
	q := r.builder.
		Select(r.cols...).
		From(historyTable).
		Where(squirrel.Eq{"material_id": materialID})
	if t != nil {
		q = q.Where(squirrel.Eq{"type": string(*t)})
	}
	return q.OrderBy("created_at DESC", "id DESC")
}

// ListByMaterial returns entries newest first, optionally of one type.
func (r *HistoryRepo) ListByMaterial(ctx context.Context, materialID id.ID, t *history.Type) ([]*history.Entry, error) {
	sql, args, err := r.listQuery(materialID, t).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []*history.Entry{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return items, nil
}
