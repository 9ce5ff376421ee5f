package readystock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/core/types"
	"blendery/internal/domain/registers/readystock"
	"blendery/internal/testutil"
)

func TestCredit_Accumulates(t *testing.T) {
	svc := readystock.NewService(testutil.NewReadyStockRepo())
	ctx := testutil.Ctx()
	fid := id.New()

	_, err := svc.Credit(ctx, fid, types.MustDecimal("2.5"))
	require.NoError(t, err)
	rs, err := svc.Credit(ctx, fid, types.MustDecimal("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "4", rs.TotalQuantity.String())

	got, err := svc.GetByFormula(ctx, fid)
	require.NoError(t, err)
	assert.Equal(t, rs.ID, got.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCredit_RejectsNonPositive(t *testing.T) {
	svc := readystock.NewService(testutil.NewReadyStockRepo())

	_, err := svc.Credit(testutil.Ctx(), id.New(), types.Zero())
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestGetByFormula_NothingProduced(t *testing.T) {
	svc := readystock.NewService(testutil.NewReadyStockRepo())

	_, err := svc.GetByFormula(testutil.Ctx(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
