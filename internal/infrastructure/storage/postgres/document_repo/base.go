// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/domain"
	"blendery/internal/infrastructure/storage/postgres"
)

// Table describes a document table and the read-only columns joined into it.
type Table struct {
	Name   string
	Alias  string
	Entity string

	// Joined are extra select expressions, e.g. "m.name AS material_name".
	// Their aliases are excluded from inserts.
	Joined []string

	// Joins are JOIN clauses, e.g. "materials m ON m.id = b.material_id".
	Joins []string
}

// BaseDocumentRepo provides common operations for document entities.
type BaseDocumentRepo[T any] struct {
	txManager  *postgres.TxManager
	table      Table
	ownCols    []string
	selectCols []string
	newFn      func() T
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](txManager *postgres.TxManager, table Table, newFn func() T) *BaseDocumentRepo[T] {
	joined := make(map[string]bool, len(table.Joined))
	for _, expr := range table.Joined {
		joined[aliasOf(expr)] = true
	}

	var own, sel []string
	for _, col := range postgres.ExtractDBColumns[T]() {
		if joined[col] {
			continue
		}
		own = append(own, col)
		sel = append(sel, table.Alias+"."+col)
	}
	sel = append(sel, table.Joined...)

	return &BaseDocumentRepo[T]{
		txManager:  txManager,
		table:      table,
		ownCols:    own,
		selectCols: sel,
		newFn:      newFn,
	}
}

func aliasOf(expr string) string {
	if i := strings.Index(strings.ToUpper(expr), " AS "); i >= 0 {
		return strings.TrimSpace(expr[i+4:])
	}
	if i := strings.LastIndexByte(expr, '.'); i >= 0 {
		return expr[i+1:]
	}
	return expr
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return postgres.Builder()
}

// Querier returns the transaction bound to ctx, or the pool.
func (r *BaseDocumentRepo[T]) Querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// col qualifies a column of the document table.
func (r *BaseDocumentRepo[T]) col(name string) string {
	return r.table.Alias + "." + name
}

// insertQuery builds the INSERT of the document's own columns.
func (r *BaseDocumentRepo[T]) insertQuery(entity T) (squirrel.InsertBuilder, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return squirrel.InsertBuilder{}, fmt.Errorf("no db tags found in entity")
	}
	return r.Builder().
		Insert(r.table.Name).
		Columns(r.ownCols...).
		Values(postgres.Values(data, r.ownCols)...), nil
}

// Create inserts a new document.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, entity T) error {
	q, err := r.insertQuery(entity)
	if err != nil {
		return err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError(fmt.Errorf("insert %s: %w", r.table.Name, err), r.table.Entity)
	}
	return nil
}

// baseSelect creates a SELECT builder with the configured joins.
func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	q := r.Builder().
		Select(r.selectCols...).
		From(r.table.Name + " " + r.table.Alias)
	for _, j := range r.table.Joins {
		q = q.LeftJoin(j)
	}
	return q
}

// GetByID retrieves a document by ID.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity := r.newFn()

	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{r.col("id"): entityID}).
		ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.table.Entity, entityID.String())
		}
		return entity, fmt.Errorf("get %s by id: %w", r.table.Name, err)
	}
	return entity, nil
}

// getMany loads documents by id.
func (r *BaseDocumentRepo[T]) getMany(ctx context.Context, ids []id.ID) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{r.col("id"): ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get many %s: %w", r.table.Name, err)
	}
	return items, nil
}

// list paginates q, which must come from baseSelect.
func (r *BaseDocumentRepo[T]) list(ctx context.Context, q squirrel.SelectBuilder, filter domain.ListFilter) (domain.ListResult[T], error) {
	return postgres.Paginate[T](ctx, r.Querier(ctx), q, filter, r.selectCols)
}

// exists reports whether any row of the table matches pred.
func (r *BaseDocumentRepo[T]) exists(ctx context.Context, pred squirrel.Sqlizer) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		From(r.table.Name).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.table.Name, err)
	}
	return true, nil
}

// Delete physically removes a document.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.table.Name).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapWriteError(fmt.Errorf("delete %s: %w", r.table.Name, err), r.table.Entity)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table.Entity, entityID.String())
	}
	return nil
}

// execGuarded runs a guarded UPDATE and reports whether a row matched.
func (r *BaseDocumentRepo[T]) execGuarded(ctx context.Context, q squirrel.UpdateBuilder) (bool, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapWriteError(fmt.Errorf("update %s: %w", r.table.Name, err), r.table.Entity)
	}
	return result.RowsAffected() > 0, nil
}
