package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blendery/pkg/logger"
)

func TestRunner_RunsImmediatelyAndStops(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	r := NewRunner(logger.Nop(), Job{
		Name:     "count",
		Interval: time.Hour,
		Run: func(context.Context) error {
			calls.Add(1)
			cancel()
			return nil
		},
	})

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunner_KeepsGoingAfterFailureAndPanic(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRunner(logger.Nop(), Job{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context) error {
			switch calls.Add(1) {
			case 1:
				return errors.New("boom")
			case 2:
				panic("bad")
			case 3:
				cancel()
			}
			return nil
		},
	})

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestNewRunner_SkipsDisabledJobs(t *testing.T) {
	r := NewRunner(logger.Nop(),
		Job{Name: "off", Interval: 0, Run: func(context.Context) error { return nil }},
		Job{Name: "nil-run", Interval: time.Second},
		Job{Name: "on", Interval: time.Second, Run: func(context.Context) error { return nil }},
	)

	assert.Len(t, r.jobs, 1)
	assert.Equal(t, "on", r.jobs[0].Name)
}
