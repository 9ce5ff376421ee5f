package batch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/core/types"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/domain/documents/batch"
	"blendery/internal/domain/registers/history"
	"blendery/internal/testutil"
)

type fixture struct {
	svc      *batch.Service
	st       *testutil.Stores
	material *material.Material
}

func setup(t *testing.T) fixture {
	t.Helper()
	st := testutil.NewStores()
	m := material.NewMaterial("TUR", "Turmeric")
	st.Materials.Seed(m)

	hist := history.NewService(st.History, st.Materials)
	svc := batch.NewService(st.Batches, st.Materials, hist, st.Tx, st.Audit)
	return fixture{svc: svc, st: st, material: m}
}

func input(materialID id.ID, code, qty, price, transport string) batch.AddInput {
	purchased := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return batch.AddInput{
		MaterialID:      materialID,
		Category:        "Root",
		Unit:            "kg",
		BatchCode:       code,
		Quantity:        types.MustDecimal(qty),
		PurchasePrice:   types.MustDecimal(price),
		TransportCharge: types.MustDecimal(transport),
		Supplier:        "Spice Co",
		PurchaseDate:    purchased,
		ExpiryDate:      purchased.AddDate(1, 0, 0),
	}
}

func (f fixture) stored(t *testing.T) *material.Material {
	t.Helper()
	m, ok := f.st.Materials.Get(f.material.ID)
	require.True(t, ok)
	return m
}

func TestAddBatch_UpdatesAggregates(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	b, err := f.svc.AddBatch(ctx, input(f.material.ID, "B-1", "10", "5", "1"))
	require.NoError(t, err)
	assert.Equal(t, "Turmeric", b.MaterialName)
	assert.True(t, types.MustDecimal("10").Equal(b.StockRemaining))

	m := f.stored(t)
	assert.Equal(t, "10", m.StockIn.String())
	assert.Equal(t, "10", m.CurrentStock.String())
	assert.Equal(t, "60", m.TotalCost.String())
	assert.Equal(t, "6", m.AveragePrice.String())
	assert.Equal(t, 1, m.BatchCount)

	_, err = f.svc.AddBatch(ctx, input(f.material.ID, "B-2", "5", "8", "0"))
	require.NoError(t, err)

	m = f.stored(t)
	assert.Equal(t, "15", m.StockIn.String())
	assert.Equal(t, "15", m.CurrentStock.String())
	assert.Equal(t, "100", m.TotalCost.String())
	assert.Equal(t, "6.667", m.AveragePrice.Round(3).String())
	assert.Equal(t, 2, m.BatchCount)
}

func TestAddBatch_WritesHistory(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	b, err := f.svc.AddBatch(ctx, input(f.material.ID, "B-1", "10", "5", "1"))
	require.NoError(t, err)

	entries, err := f.st.History.ListByMaterial(ctx, f.material.ID, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, history.TypeIn, e.Type)
	assert.Equal(t, history.ReasonBatchAdded, e.Reason)
	assert.Equal(t, "10", e.CurrentStockAfter.String())
	require.NotNil(t, e.RelatedBatchID)
	assert.Equal(t, b.ID, *e.RelatedBatchID)
	assert.Equal(t, testutil.ActorID, e.CreatedBy)
}

func TestAddBatch_UnknownMaterial(t *testing.T) {
	f := setup(t)

	_, err := f.svc.AddBatch(testutil.Ctx(), input(id.New(), "B-1", "10", "5", "1"))
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 0, f.st.Batches.Len())
}

func TestAddBatch_DuplicateCodeChangesNothing(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	_, err := f.svc.AddBatch(ctx, input(f.material.ID, "B-1", "10", "5", "1"))
	require.NoError(t, err)

	_, err = f.svc.AddBatch(ctx, input(f.material.ID, "B-1", "3", "5", "1"))
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	m := f.stored(t)
	assert.Equal(t, "10", m.CurrentStock.String())
	assert.Equal(t, 1, m.BatchCount)
	assert.Equal(t, 1, f.st.History.Len())
}

func TestAddBatch_Validation(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	tests := []struct {
		name   string
		mutate func(in *batch.AddInput)
	}{
		{"zero quantity", func(in *batch.AddInput) { in.Quantity = types.Zero() }},
		{"zero price", func(in *batch.AddInput) { in.PurchasePrice = types.Zero() }},
		{"negative transport", func(in *batch.AddInput) { in.TransportCharge = types.MustDecimal("-1") }},
		{"missing supplier", func(in *batch.AddInput) { in.Supplier = " " }},
		{"expiry before purchase", func(in *batch.AddInput) { in.ExpiryDate = in.PurchaseDate.AddDate(0, 0, -1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input(f.material.ID, "B-1", "10", "5", "1")
			tt.mutate(&in)
			_, err := f.svc.AddBatch(ctx, in)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "got %v", err)
		})
	}
}

func TestDeleteBatch_FloorsAtZeroAndKeepsCost(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	b, err := f.svc.AddBatch(ctx, input(f.material.ID, "B-1", "10", "5", "1"))
	require.NoError(t, err)

	// Simulate consumption so that less than the batch quantity remains.
	_, err = f.st.Materials.ApplyConsumption(ctx, f.material.ID, types.MustDecimal("7"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteBatch(ctx, b.ID))

	m := f.stored(t)
	assert.True(t, m.CurrentStock.IsZero())
	assert.True(t, m.StockIn.IsZero())
	assert.Equal(t, "60", m.TotalCost.String())
	assert.Equal(t, "6", m.AveragePrice.String())
	assert.Equal(t, 1, m.BatchCount)

	deleted := history.TypeDelete
	entries, err := f.st.History.ListByMaterial(ctx, f.material.ID, &deleted)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.ReasonBatchDeleted, entries[0].Reason)
	assert.Nil(t, entries[0].RelatedBatchID)
	require.NotNil(t, entries[0].BatchCode)
	assert.Equal(t, "B-1", *entries[0].BatchCode)

	_, err = f.svc.GetByID(ctx, b.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteBatch_NotFound(t *testing.T) {
	f := setup(t)

	err := f.svc.DeleteBatch(testutil.Ctx(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_FiltersByMaterial(t *testing.T) {
	f := setup(t)
	ctx := testutil.Ctx()

	other := material.NewMaterial("CUM", "Cumin")
	f.st.Materials.Seed(other)

	_, err := f.svc.AddBatch(ctx, input(f.material.ID, "B-1", "10", "5", "1"))
	require.NoError(t, err)
	_, err = f.svc.AddBatch(ctx, input(other.ID, "B-2", "4", "2", "0"))
	require.NoError(t, err)

	filter := batch.ListFilter{MaterialID: &other.ID}
	filter.Limit = 10
	res, err := f.svc.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "B-2", res.Items[0].BatchCode)
	assert.EqualValues(t, 1, res.TotalCount)
}
