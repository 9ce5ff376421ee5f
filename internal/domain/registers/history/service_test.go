package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/core/types"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/domain/registers/history"
	"blendery/internal/testutil"
)

func TestParseType(t *testing.T) {
	for in, want := range map[string]history.Type{"in": history.TypeIn, " OUT ": history.TypeOut, "Delete": history.TypeDelete} {
		got, err := history.ParseType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := history.ParseType("MOVE")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestListByMaterial(t *testing.T) {
	st := testutil.NewStores()
	svc := history.NewService(st.History, st.Materials)
	ctx := testutil.Ctx()

	m := material.NewMaterial("TUR", "Turmeric")
	st.Materials.Seed(m)

	require.NoError(t, svc.Append(ctx, history.NewEntry(m.ID, history.TypeIn, types.MustDecimal("10"), history.ReasonBatchAdded, types.MustDecimal("10"), testutil.ActorID)))
	require.NoError(t, svc.Append(ctx, history.NewEntry(m.ID, history.TypeOut, types.MustDecimal("4"), history.ReasonProductionCompleted, types.MustDecimal("6"), testutil.ActorID)))

	all, err := svc.ListByMaterial(ctx, m.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, history.TypeOut, all[0].Type, "newest first")

	ins, err := svc.ListByMaterial(ctx, m.ID, "in")
	require.NoError(t, err)
	require.Len(t, ins, 1)
	assert.Equal(t, "10", ins[0].Quantity.String())

	_, err = svc.ListByMaterial(ctx, m.ID, "bogus")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.ListByMaterial(ctx, id.New(), "")
	assert.True(t, apperror.IsNotFound(err))
}

func TestAppend_Rejects(t *testing.T) {
	st := testutil.NewStores()
	svc := history.NewService(st.History, st.Materials)
	ctx := testutil.Ctx()
	mid := id.New()

	err := svc.Append(ctx, history.NewEntry(mid, history.TypeIn, types.Zero(), history.ReasonBatchAdded, types.Zero(), testutil.ActorID))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	err = svc.Append(ctx, history.NewEntry(mid, history.TypeOut, types.MustDecimal("1"), history.ReasonProductionCompleted, types.MustDecimal("-1"), testutil.ActorID))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	assert.Equal(t, 0, st.History.Len())
}
