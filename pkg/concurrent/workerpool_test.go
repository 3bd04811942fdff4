// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_Run(t *testing.T) {
	ctx := context.Background()
	pool := NewWorkerPool(2)

	var counter int64
	jobs := []func(context.Context) error{
		func(context.Context) error {
			atomic.AddInt64(&counter, 1)
			time.Sleep(10 * time.Millisecond)
			return nil
		},
		func(context.Context) error {
			atomic.AddInt64(&counter, 2)
			time.Sleep(10 * time.Millisecond)
			return nil
		},
		func(context.Context) error {
			atomic.AddInt64(&counter, 3)
			return nil
		},
	}

	err := pool.Run(ctx, jobs...)
	require.NoError(t, err)
	assert.Equal(t, int64(6), atomic.LoadInt64(&counter))
}

func TestWorkerPool_Run_SingleWorkerStopsAfterFailure(t *testing.T) {
	ctx := context.Background()
	pool := NewWorkerPool(1)

	var mu sync.Mutex
	var executed []int
	record := func(i int) {
		mu.Lock()
		defer mu.Unlock()
		executed = append(executed, i)
	}

	expectedError := errors.New("job failed")
	jobs := []func(context.Context) error{
		func(context.Context) error { record(0); return nil },
		func(context.Context) error { record(1); return expectedError },
		func(context.Context) error { record(2); return nil },
		func(context.Context) error { record(3); return nil },
	}

	err := pool.Run(ctx, jobs...)

	require.Error(t, err)
	assert.Equal(t, expectedError, err)
	assert.Equal(t, []int{0, 1}, executed)
}

func TestWorkerPool_Run_RunningJobsSeeCancellation(t *testing.T) {
	pool := NewWorkerPool(2)
	expectedError := errors.New("job failed")

	var sawCancel atomic.Bool
	err := pool.Run(context.Background(),
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				sawCancel.Store(true)
				return ctx.Err()
			case <-time.After(time.Second):
				return nil
			}
		},
		func(context.Context) error {
			time.Sleep(5 * time.Millisecond)
			return expectedError
		},
	)

	assert.Equal(t, expectedError, err)
	assert.True(t, sawCancel.Load())
}

func TestWorkerPool_Run_EmptyJobs(t *testing.T) {
	pool := NewWorkerPool(2)

	err := pool.Run(context.Background())
	require.NoError(t, err)
}

func TestWorkerPool_Run_ParentContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	err := NewWorkerPool(1).Run(ctx, func(context.Context) error {
		called.Store(true)
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called.Load())
}

func TestCollect_PreservesOrder(t *testing.T) {
	pool := NewWorkerPool(4)

	results, err := Collect(context.Background(), pool, 10, func(_ context.Context, i int) (int, error) {
		// Later indexes finish first.
		time.Sleep(time.Duration(10-i) * time.Millisecond)
		return i * i, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, results)
}

func TestCollect_FirstErrorDiscardsResults(t *testing.T) {
	pool := NewWorkerPool(1)
	expectedError := errors.New("page 2 failed")

	var calls atomic.Int32
	results, err := Collect(context.Background(), pool, 3, func(_ context.Context, i int) (string, error) {
		calls.Add(1)
		if i == 1 {
			return "", expectedError
		}
		return "ok", nil
	})

	assert.Equal(t, expectedError, err)
	assert.Nil(t, results)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCollect_ParallelReportsLowestFailedIndex(t *testing.T) {
	pool := NewWorkerPool(2)
	errFirst := errors.New("page 1 failed")
	errSecond := errors.New("page 2 failed")
	secondDone := make(chan struct{})

	results, err := Collect(context.Background(), pool, 2, func(_ context.Context, i int) (string, error) {
		if i == 1 {
			defer close(secondDone)
			return "", errSecond
		}
		<-secondDone
		return "", errFirst
	})

	assert.Equal(t, errFirst, err)
	assert.Nil(t, results)
}

func TestCollect_ParallelSkipsCancellationCausedByLaterFailure(t *testing.T) {
	pool := NewWorkerPool(2)
	errSecond := errors.New("page 2 failed")

	results, err := Collect(context.Background(), pool, 2, func(ctx context.Context, i int) (string, error) {
		if i == 1 {
			return "", errSecond
		}
		<-ctx.Done()
		return "", fmt.Errorf("round trip: %w", ctx.Err())
	})

	assert.Equal(t, errSecond, err)
	assert.Nil(t, results)
}

func TestCollect_Empty(t *testing.T) {
	results, err := Collect(context.Background(), NewWorkerPool(1), 0, func(context.Context, int) (int, error) {
		t.Fatal("should not be called")
		return 0, nil
	})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNewWorkerPool_NonPositiveSize(t *testing.T) {
	assert.Equal(t, 1, NewWorkerPool(0).Size())
	assert.Equal(t, 1, NewWorkerPool(-3).Size())
	assert.Equal(t, 5, NewWorkerPool(5).Size())
}
