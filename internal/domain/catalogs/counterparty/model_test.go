package counterparty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"blendery/internal/core/apperror"
)

func ptr(s string) *string { return &s }

func TestPartyNormalize(t *testing.T) {
	p := NewParty(" c-1 ", "Spice Mart")
	p.Phone = ptr("  ")
	p.Email = ptr(" orders@spicemart.in ")
	p.Normalize()

	assert.Equal(t, "C-1", p.Code)
	assert.Nil(t, p.Phone)
	assert.Equal(t, "orders@spicemart.in", *p.Email)
}

func TestPartyValidate(t *testing.T) {
	ctx := context.Background()

	p := NewParty("C-1", "Spice Mart")
	assert.NoError(t, p.Validate(ctx))

	p.Email = ptr("not-an-email")
	err := p.Validate(ctx)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
