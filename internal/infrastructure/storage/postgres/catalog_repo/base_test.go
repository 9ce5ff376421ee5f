package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/domain"
)

func TestFilteredSelect_Search(t *testing.T) {
	repo := NewMaterialRepo(nil)

	sql, args, err := repo.filteredSelect(domain.ListFilter{Search: " tur "}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM materials WHERE (name ILIKE $1 OR code ILIKE $2)")
	assert.Equal(t, []any{"%tur%", "%tur%"}, args)
}

func TestUpdateQuery_OnlyEditableColumns(t *testing.T) {
	repo := NewMaterialRepo(nil)

	m := newTestMaterial()
	q, _, err := repo.updateQuery(m)
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE materials SET code = $1, name = $2, description = $3, unit = $4, updated_at = $5, "+
			"version = version + 1 WHERE id = $6 AND version = $7 RETURNING version",
		sql)
	assert.Len(t, args, 7)
	assert.NotContains(t, sql, "current_stock")
	assert.NotContains(t, sql, "average_price")
}
