package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/internal/core/apperror"
)

func TestParseOrderBy(t *testing.T) {
	cols := []string{"b.id", "b.batch_code", "b.created_at", "m.name AS material_name"}

	tests := []struct {
		name    string
		orderBy string
		want    string
	}{
		{"default newest first", "", "b.created_at DESC"},
		{"ascending qualified", "batch_code", "b.batch_code ASC"},
		{"descending", "-batch_code", "b.batch_code DESC"},
		{"explicit plus", "+id", "b.id ASC"},
		{"alias", "-material_name", "m.name DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderBy(tt.orderBy, cols)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrderBy_RejectsUnknownColumn(t *testing.T) {
	_, err := ParseOrderBy("password_hash; DROP TABLE materials", []string{"id", "name"})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = ParseOrderBy("-", []string{"id"})
	assert.Error(t, err)
}
