package formula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/core/types"
	"blendery/internal/domain"
	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/testutil"
)

func line(materialID id.ID, grams, pct string) formula.Component {
	return formula.Component{
		MaterialID: materialID,
		Grams:      types.MustDecimal(grams),
		Percentage: types.MustDecimal(pct),
	}
}

func TestCreate_StoresComposition(t *testing.T) {
	st := testutil.NewStores()
	svc := formula.NewService(st.Formulas, st.Materials, st.Tx, st.Audit)
	ctx := testutil.Ctx()

	tur := material.NewMaterial("TUR", "Turmeric")
	cum := material.NewMaterial("CUM", "Cumin")
	st.Materials.Seed(tur, cum)

	f := formula.NewFormula("curry", "Curry", []formula.Component{
		line(tur.ID, "600", "60"),
		line(cum.ID, "400", "40"),
	})
	require.NoError(t, svc.Create(ctx, f))

	got, err := svc.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "CURRY", got.Code)
	assert.True(t, formula.DefaultTotalWeight.Equal(got.TotalWeight))
	require.Len(t, got.Composition, 2)
	assert.Equal(t, "Turmeric", got.Composition[0].MaterialName)
	assert.Equal(t, "CUM", got.Composition[1].MaterialCode)

	page, err := svc.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Len(t, page.Items[0].Composition, 2)
}

func TestCreate_UnknownMaterial(t *testing.T) {
	st := testutil.NewStores()
	svc := formula.NewService(st.Formulas, st.Materials, st.Tx, st.Audit)

	f := formula.NewFormula("CURRY", "Curry", []formula.Component{line(id.New(), "500", "50")})
	err := svc.Create(testutil.Ctx(), f)

	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 0, st.Formulas.Len())
}

func TestCreate_DuplicateCode(t *testing.T) {
	st := testutil.NewStores()
	svc := formula.NewService(st.Formulas, st.Materials, st.Tx, st.Audit)
	ctx := testutil.Ctx()

	tur := material.NewMaterial("TUR", "Turmeric")
	st.Materials.Seed(tur)

	require.NoError(t, svc.Create(ctx, formula.NewFormula("CURRY", "Curry", []formula.Component{line(tur.ID, "500", "50")})))
	err := svc.Create(ctx, formula.NewFormula("Curry", "Curry 2", []formula.Component{line(tur.ID, "500", "50")}))

	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}
