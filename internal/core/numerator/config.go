// Package numerator provides contracts for human-readable document numbers.
package numerator

import (
	"fmt"
	"strings"
	"time"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict reserves every number with its own UPSERT ... RETURNING.
	// Numbers are gapless as long as the surrounding transaction commits.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers and hands them out from memory.
	// Restarts leave gaps.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values reserved at once by StrategyCached (default 50).
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Config describes one number series.
type Config struct {
	// Prefix added to all numbers (e.g., "SL")
	Prefix string

	// IncludeYear adds year to the number and restarts the series each year
	IncludeYear bool

	// PadWidth is the minimum width of the counter (default 5)
	PadWidth int
}

// DefaultConfig returns the PREFIX-YEAR-00001 layout.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
	}
}

// SeriesKey identifies the counter row backing cfg for the given period.
func (c Config) SeriesKey(period time.Time) string {
	prefix := strings.ToUpper(c.Prefix)
	if c.IncludeYear {
		return fmt.Sprintf("%s:%d", prefix, period.Year())
	}
	return prefix
}

// Format renders counter value n for the given period.
func (c Config) Format(period time.Time, n int64) string {
	width := c.PadWidth
	if width <= 0 {
		width = 5
	}
	prefix := strings.ToUpper(c.Prefix)
	if c.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", prefix, period.Year(), width, n)
	}
	return fmt.Sprintf("%s-%0*d", prefix, width, n)
}
