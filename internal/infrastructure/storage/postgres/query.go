package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"blendery/internal/core/apperror"
	"blendery/internal/domain"
)

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Paginate counts the rows of q, then loads one ordered page of them.
func Paginate[T any](
	ctx context.Context,
	querier Querier,
	q squirrel.SelectBuilder,
	filter domain.ListFilter,
	cols []string,
) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	countSQL, countArgs, err := Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := ParseOrderBy(filter.OrderBy, cols)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	if result.Items == nil {
		result.Items = []T{}
	}

	return result, nil
}

// ParseOrderBy turns "name" / "-created_at" into an ORDER BY clause,
// accepting only whitelisted columns. cols may be qualified ("b.created_at")
// or aliased ("m.name AS material_name"); clients sort by the bare or alias name.
func ParseOrderBy(orderBy string, cols []string) (string, error) {
	allowed := make(map[string]string, len(cols)+2)
	for _, col := range cols {
		key, expr := sortKey(col)
		allowed[key] = expr
	}
	for _, c := range []string{"id", "created_at"} {
		if _, ok := allowed[c]; !ok {
			allowed[c] = c
		}
	}

	if orderBy == "" {
		orderBy = "-created_at"
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	expr, ok := allowed[field]
	if !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return expr + " " + direction, nil
}

// sortKey splits a select column into the name clients sort by and the
// SQL expression to order on.
func sortKey(col string) (key, expr string) {
	if i := strings.Index(strings.ToUpper(col), " AS "); i >= 0 {
		return strings.TrimSpace(col[i+4:]), strings.TrimSpace(col[:i])
	}
	if i := strings.LastIndexByte(col, '.'); i >= 0 {
		return col[i+1:], col
	}
	return col, col
}
