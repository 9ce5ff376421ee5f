package document_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/id"
	"blendery/internal/core/types"
	"blendery/internal/domain"
	"blendery/internal/domain/documents/batch"
	"blendery/internal/domain/documents/packaging"
	"blendery/internal/domain/documents/production"
	"blendery/internal/domain/documents/sale"
)

func TestNewBaseDocumentRepo_SplitsOwnAndJoinedColumns(t *testing.T) {
	repo := NewBatchRepo(nil)

	assert.Contains(t, repo.ownCols, "batch_code")
	assert.Contains(t, repo.ownCols, "created_by")
	assert.NotContains(t, repo.ownCols, "material_name")
	assert.NotContains(t, repo.ownCols, "material_code")

	assert.Contains(t, repo.selectCols, "b.batch_code")
	assert.Contains(t, repo.selectCols, "m.name AS material_name")
}

func TestBatchRepo_ListQuery(t *testing.T) {
	repo := NewBatchRepo(nil)
	mid := id.New()

	sql, args, err := repo.listQuery(batch.ListFilter{
		ListFilter: domain.ListFilter{Search: "cum"},
		MaterialID: &mid,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM batches b LEFT JOIN materials m ON m.id = b.material_id")
	assert.Contains(t, sql, "WHERE b.material_id = $1 AND (b.batch_code ILIKE $2 OR b.supplier ILIKE $3 OR m.name ILIKE $4)")
	assert.Len(t, args, 4)
}

func TestProductionRepo_TransitionIsGuarded(t *testing.T) {
	repo := NewProductionRepo(nil)
	by := "user-1"

	sql, args, err := repo.transitionQuery(id.New(), production.Transition{
		From:        production.StatusPending,
		To:          production.StatusComplete,
		Version:     3,
		CostPerKg:   types.MustDecimal("6"),
		TotalCost:   types.MustDecimal("60"),
		CompletedBy: &by,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE production_runs SET status = $1, version = version + 1")
	assert.Contains(t, sql, "cost_per_kg = $2, total_cost = $3, completed_by = $4")
	assert.Contains(t, sql, "WHERE id = $5 AND status = $6 AND version = $7")
	assert.Equal(t, "complete", args[0])
	assert.Equal(t, "pending", args[5])
	assert.Equal(t, 3, args[6])
}

func TestProductionRepo_CancelLeavesCostsAlone(t *testing.T) {
	repo := NewProductionRepo(nil)

	sql, _, err := repo.transitionQuery(id.New(), production.Transition{
		From: production.StatusPending, To: production.StatusCancel, Version: 1,
	}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "cost_per_kg")
	assert.NotContains(t, sql, "completed_by")
}

func TestProductionRepo_DrawQuery(t *testing.T) {
	repo := NewProductionRepo(nil)

	sql, _, err := repo.drawQuery(id.New(), types.MustDecimal("2.5")).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "quantity = quantity - $1")
	assert.Contains(t, sql, "WHERE id = $2 AND status = $3 AND quantity >= $4")
}

func TestPackagingRepo_Queries(t *testing.T) {
	repo := NewPackagingRepo(nil)

	sql, args, err := repo.takeQuery(id.New(), 4).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE packaging_batches SET number_of_packages = number_of_packages - $1 "+
			"WHERE id = $2 AND number_of_packages >= $3",
		sql)
	assert.Equal(t, 4, args[0])
	assert.Equal(t, 4, args[2])

	day := time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)
	sql, args, err = repo.listQuery(packaging.ListFilter{
		FormulaName:   "garam",
		PackagingDate: &day,
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "f.name ILIKE $1")
	assert.Contains(t, sql, "p.packaging_date >= $2 AND p.packaging_date < $3")
	assert.Equal(t, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), args[1])

	assert.NotContains(t, repo.ownCols, "formula_id")
	assert.NotContains(t, repo.ownCols, "run_batch_code")
}

func TestSaleRepo_Queries(t *testing.T) {
	repo := NewSaleRepo(nil)
	saleID := id.New()

	sql, args, err := repo.itemsInsert(saleID, []sale.Item{
		{LineNo: 1, FormulaID: id.New(), PackagingBatchID: id.New(), Quantity: 3},
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO sale_items (sale_id,line_no,formula_id,packaging_batch_id,quantity,price,discount,tax,subtotal)")
	assert.Len(t, args, 9)

	sql, _, err = repo.statusQuery(saleID, sale.StatusPending, sale.StatusCompleted, 1).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE id = $2 AND status = $3 AND version = $4")
}
