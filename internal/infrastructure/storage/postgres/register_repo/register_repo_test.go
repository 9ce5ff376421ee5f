package register_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/id"
	"blendery/internal/core/types"
	"blendery/internal/domain/registers/history"
)

func TestHistoryRepo_AppendColumns(t *testing.T) {
	repo := NewHistoryRepo(nil)
	e := history.NewEntry(id.New(), history.TypeIn, types.MustDecimal("10"), history.ReasonBatchAdded, types.MustDecimal("10"), "u1")

	sql, args, err := repo.appendQuery(e).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO stock_history (id,material_id,type,quantity,reason,batch_code,"+
		"related_batch_id,production_run_id,current_stock_after,created_by,created_at)")
	assert.Len(t, args, 11)
}

func TestHistoryRepo_ListQuery(t *testing.T) {
	repo := NewHistoryRepo(nil)
	out := history.TypeOut

	sql, args, err := repo.listQuery(id.New(), &out).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE material_id = $1 AND type = $2 ORDER BY created_at DESC, id DESC")
	assert.Equal(t, "OUT", args[1])

	sql, _, err = repo.listQuery(id.New(), nil).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "type =")
}

func TestCreditSQL_IsSingleUpsert(t *testing.T) {
	assert.Contains(t, creditSQL, "ON CONFLICT (formula_id) DO UPDATE")
	assert.Contains(t, creditSQL, "ready_stock.total_quantity + EXCLUDED.total_quantity")
}
