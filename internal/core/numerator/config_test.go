package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFormat(t *testing.T) {
	period := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "SL-2026-00042", DefaultConfig("sl").Format(period, 42))
	assert.Equal(t, "SL:2026", DefaultConfig("sl").SeriesKey(period))

	flat := Config{Prefix: "PK", PadWidth: 3}
	assert.Equal(t, "PK-007", flat.Format(period, 7))
	assert.Equal(t, "PK", flat.SeriesKey(period))
}

func TestMemoryGenerator(t *testing.T) {
	ctx := context.Background()
	gen := NewMemoryGenerator()
	cfg := DefaultConfig("SL")
	y2026 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	y2027 := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	n, err := gen.GetNextNumber(ctx, cfg, nil, y2026)
	require.NoError(t, err)
	assert.Equal(t, "SL-2026-00001", n)

	n, _ = gen.GetNextNumber(ctx, cfg, nil, y2026)
	assert.Equal(t, "SL-2026-00002", n)

	n, _ = gen.GetNextNumber(ctx, cfg, nil, y2027)
	assert.Equal(t, "SL-2027-00001", n)

	require.NoError(t, gen.SetNextNumber(ctx, cfg, y2026, 100))
	n, _ = gen.GetNextNumber(ctx, cfg, nil, y2026)
	assert.Equal(t, "SL-2026-00100", n)
}
