package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blendery/migrations"
)

func TestDatabaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@db:5432/blendery?sslmode=disable", "pgx5://u:p@db:5432/blendery?sslmode=disable"},
		{"postgresql://u@db/blendery", "pgx5://u@db/blendery"},
		{"pgx5://u@db/blendery", "pgx5://u@db/blendery"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DatabaseURL(tt.in))
	}
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", n)
		}
	}
	assert.Equal(t, ups, downs)
}
