// Package worker runs periodic maintenance jobs next to the API server.
package worker

import (
	"context"
	"sync"
	"time"

	"blendery/pkg/logger"
)

// Job is one periodic task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner starts every job on its own ticker.
type Runner struct {
	jobs []Job
	log  *logger.Logger
}

// NewRunner creates a runner. Jobs with a non-positive interval are skipped.
func NewRunner(log *logger.Logger, jobs ...Job) *Runner {
	if log == nil {
		log = logger.Default()
	}
	active := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Interval > 0 && j.Run != nil {
			active = append(active, j)
		}
	}
	return &Runner{jobs: active, log: log.WithComponent("worker")}
}

// Run blocks until ctx is cancelled and all jobs have returned.
// Each job runs once immediately, then on every tick.
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, j := range r.jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			r.loop(ctx, j)
		}(j)
		r.log.Infow("started job", "job", j.Name, "interval", j.Interval)
	}
	wg.Wait()
}

func (r *Runner) loop(ctx context.Context, j Job) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		r.runOnce(ctx, j)
		select {
		case <-ctx.Done():
			r.log.Infow("stopping job", "job", j.Name)
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, j Job) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorw("job panicked", "job", j.Name, "panic", rec)
		}
	}()

	start := time.Now()
	if err := j.Run(ctx); err != nil && ctx.Err() == nil {
		r.log.Errorw("job failed", "job", j.Name, "error", err)
		return
	}
	r.log.Debugw("job finished", "job", j.Name, "duration", time.Since(start))
}
