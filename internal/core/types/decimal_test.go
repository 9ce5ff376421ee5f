package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGramConversions(t *testing.T) {
	assert.True(t, MustDecimal("0.25").Equal(GramsToKg(MustDecimal("250"))))
	assert.True(t, MustDecimal("1500").Equal(KgToGrams(MustDecimal("1.5"))))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "35", RoundMoney(MustDecimal("34.999")).String())
	assert.Equal(t, "6.67", RoundMoney(MustDecimal("6.6666")).String())
	assert.Equal(t, "0.01", RoundMoney(MustDecimal("0.005")).String())
}

func TestRoundQuantity(t *testing.T) {
	assert.Equal(t, "0.3333", RoundQuantity(MustDecimal("0.33333333")).String())
	assert.Equal(t, "1.5", RoundQuantity(MustDecimal("1.5")).String())
}

func TestJSONNumbers(t *testing.T) {
	payload := struct {
		Price Money `json:"price"`
	}{Price: MustDecimal("35.00")}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":35}`, string(raw))

	var back struct {
		Price Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":12.5}`), &back))
	assert.Equal(t, "12.5", back.Price.String())
}
