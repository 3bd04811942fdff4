// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds how many jobs run at the same time.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// A pool of one worker runs jobs strictly in submission order.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int {
	return wp.workerCount
}

// Run executes the jobs and returns the first error encountered. Once a job
// fails, jobs that have not started yet are skipped and running jobs see a
// cancelled context.
func (wp *WorkerPool) Run(ctx context.Context, jobs ...func(ctx context.Context) error) error {
	if len(jobs) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	skipped := false
	for _, job := range jobs {
		// Go blocks while the pool is full, so with a single worker a failed
		// job is observed here before the next one is scheduled.
		if groupCtx.Err() != nil {
			skipped = true
			break
		}
		g.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}

			return job(groupCtx)
		})
	}

	err := g.Wait()
	if err == nil && skipped {
		// Nothing failed, so the parent context was cancelled.
		return ctx.Err()
	}
	return err
}

// Collect runs fn for every index in [0, n) on the pool and returns the
// results in index order. A failure aborts the remaining work and no partial
// results are returned. When several indexes fail, the error of the lowest
// one is returned, skipping errors that only report the cancellation caused
// by another failure. This matches what a sequential run would report.
func Collect[T any](ctx context.Context, wp *WorkerPool, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	errs := make([]error, n)
	jobs := make([]func(ctx context.Context) error, n)
	for i := range n {
		jobs[i] = func(ctx context.Context) error {
			res, err := fn(ctx, i)
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = res
			return nil
		}
	}

	err := wp.Run(ctx, jobs...)
	if err == nil {
		return results, nil
	}
	for _, jobErr := range errs {
		if jobErr != nil && !errors.Is(jobErr, context.Canceled) {
			return nil, jobErr
		}
	}
	return nil, err
}
