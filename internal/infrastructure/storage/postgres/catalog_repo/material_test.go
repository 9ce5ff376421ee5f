package catalog_repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/id"
	"blendery/internal/core/types"
	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/domain/catalogs/material"
)

func newTestMaterial() *material.Material {
	return material.NewMaterial("tur", "Turmeric")
}

func TestMaterialRepo_IntakeSQL(t *testing.T) {
	repo := NewMaterialRepo(nil)
	mid := id.New()
	qty := types.MustDecimal("10")
	cost := types.MustDecimal("60")

	sql, args, err := repo.intakeQuery(mid, qty, cost).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE materials SET stock_in = stock_in + $1, current_stock = current_stock + $2, "+
		"total_cost = total_cost + $3, batch_count = batch_count + 1, "+
		"average_price = (total_cost + $4) / NULLIF(stock_in + $5, 0)")
	assert.Contains(t, sql, "WHERE id = $6 RETURNING id, version, created_at, updated_at, code, name")
	// squirrel.Eq renders driver.Valuer arguments through Value().
	assert.Equal(t, []any{qty, qty, cost, cost, qty, mid.String()}, args)
}

func TestMaterialRepo_RemovalSQL_FloorsAtZero(t *testing.T) {
	repo := NewMaterialRepo(nil)

	sql, _, err := repo.removalQuery(id.New(), types.MustDecimal("3")).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "stock_in = GREATEST(0, stock_in - $1)")
	assert.Contains(t, sql, "current_stock = GREATEST(0, current_stock - $2)")

	set, _, found := strings.Cut(sql, " WHERE ")
	require.True(t, found, sql)
	for _, col := range []string{"total_cost =", "batch_count =", "average_price ="} {
		assert.NotContains(t, set, col)
	}
}

func TestMaterialRepo_ConsumptionSQL_IsGuarded(t *testing.T) {
	repo := NewMaterialRepo(nil)
	mid := id.New()
	qty := types.MustDecimal("5")

	sql, args, err := repo.consumptionQuery(mid, qty).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "current_stock = current_stock - $1, stock_out = stock_out + $2")
	assert.Contains(t, sql, "WHERE id = $3 AND current_stock >= $4")
	assert.Equal(t, []any{qty, qty, mid.String(), "5"}, args)
}

func TestMaterialRepo_InsertColumns(t *testing.T) {
	repo := NewMaterialRepo(nil)

	q, err := repo.insertQuery(newTestMaterial(), newTestMaterial())
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO materials (id,version,created_at,updated_at,code,name,description,unit,"+
		"stock_in,stock_out,current_stock,total_cost,batch_count,average_price) VALUES")
	assert.Len(t, args, 28)
}

func TestFormulaRepo_CompositionInsert(t *testing.T) {
	repo := NewFormulaRepo(nil)
	fid := id.New()
	m1, m2 := id.New(), id.New()

	sql, args, err := repo.compositionInsert(fid, []formula.Component{
		{MaterialID: m1, Grams: types.MustDecimal("250"), Percentage: types.MustDecimal("25")},
		{MaterialID: m2, Grams: types.MustDecimal("750"), Percentage: types.MustDecimal("75")},
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO formula_components (formula_id,line_no,material_id,grams,percentage) "+
			"VALUES ($1,$2,$3,$4,$5),($6,$7,$8,$9,$10)",
		sql)
	assert.Equal(t, 1, args[1])
	assert.Equal(t, m2, args[7])
}
