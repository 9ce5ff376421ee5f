package formula

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
	"blendery/internal/core/id"
	"blendery/internal/core/types"
)

func TestValidate(t *testing.T) {
	ctx := context.Background()
	m1, m2 := id.New(), id.New()

	tests := []struct {
		name  string
		lines []Component
		ok    bool
	}{
		{"valid", []Component{{MaterialID: m1, Grams: types.MustDecimal("600"), Percentage: types.MustDecimal("60")}}, true},
		{"percentages need not sum to 100", []Component{
			{MaterialID: m1, Grams: types.MustDecimal("300"), Percentage: types.MustDecimal("30")},
			{MaterialID: m2, Grams: types.MustDecimal("300"), Percentage: types.MustDecimal("30")},
		}, true},
		{"empty composition", nil, false},
		{"grams below one", []Component{{MaterialID: m1, Grams: types.MustDecimal("0.5")}}, false},
		{"percentage over 100", []Component{{MaterialID: m1, Grams: types.MustDecimal("5"), Percentage: types.MustDecimal("101")}}, false},
		{"repeated material", []Component{
			{MaterialID: m1, Grams: types.MustDecimal("5")},
			{MaterialID: m1, Grams: types.MustDecimal("6")},
		}, false},
		{"missing material", []Component{{Grams: types.MustDecimal("5")}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFormula("GM", "Garam Masala", tt.lines).Validate(ctx)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		})
	}
}

func TestComponentMath(t *testing.T) {
	c := Component{Grams: types.MustDecimal("500"), Percentage: types.MustDecimal("50")}
	run := types.MustDecimal("10")

	assert.True(t, types.MustDecimal("5").Equal(c.RequiredKg(run)))
	assert.True(t, types.MustDecimal("5000").Equal(c.RequiredGrams(run)))
	assert.True(t, types.MustDecimal("3").Equal(c.CostPerKg(types.MustDecimal("6"))))
}

func TestComponent_RequiredKgUsesStoredScale(t *testing.T) {
	c := Component{Grams: types.MustDecimal("333.33333"), Percentage: types.MustDecimal("33.3333")}

	assert.Equal(t, "0.6667", c.RequiredKg(types.MustDecimal("2")).String())
	assert.Equal(t, "0.3333", c.RequiredKg(types.MustDecimal("1")).String())
}

func TestNormalize_DefaultsTotalWeight(t *testing.T) {
	f := &Formula{}
	f.Code = " gm "
	f.Normalize()

	assert.Equal(t, "GM", f.Code)
	assert.True(t, DefaultTotalWeight.Equal(f.TotalWeight))
}
