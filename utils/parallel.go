package utils

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// GroupWorkFunc processes the contiguous work range [from, to) assigned to one group.
type GroupWorkFunc func(ctx context.Context, groupNum, from, to int) error

// GroupRanges splits [0, totalSize) into at most numGroups contiguous, non-empty ranges whose sizes differ
// by at most one. Each range is returned as a [from, to) pair.
func GroupRanges(totalSize, numGroups int) [][2]int {
	if totalSize <= 0 || numGroups <= 0 {
		return nil
	}
	numGroups = min(numGroups, totalSize)
	groupSize := totalSize / numGroups
	extra := totalSize % numGroups

	ranges := make([][2]int, 0, numGroups)
	from := 0
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		to := from + groupSize
		if groupNum < extra {
			to++
		}
		ranges = append(ranges, [2]int{from, to})
		from = to
	}
	return ranges
}

// GroupWorkParallel splits [0, totalSize) into up to ParallelFactor contiguous ranges and runs groupWork
// on each of them in its own goroutine. It waits for every group and returns their combined errors.
// The first failing group cancels the context handed to the others. Panics are returned as errors.
func GroupWorkParallel(ctx context.Context, totalSize int, groupWork GroupWorkFunc) error {
	ranges := GroupRanges(totalSize, ParallelFactor)
	if len(ranges) == 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var bigError error
	var bigErrorMutex sync.Mutex
	storeError := func(err error) {
		bigErrorMutex.Lock()
		defer bigErrorMutex.Unlock()
		if bigError == nil || !errors.Is(err, context.Canceled) {
			bigError = multierr.Combine(bigError, err)
		}
		cancel()
	}

	var wait sync.WaitGroup
	wait.Add(len(ranges))
	for groupNum, r := range ranges {
		utils.PanicCapturingGoWithCallback(func() {
			if err := groupWork(ctx, groupNum, r[0], r[1]); err != nil {
				storeError(err)
			}
			wait.Done()
		}, func(thePanic interface{}) {
			storeError(fmt.Errorf("got panic in group %d working on [%d, %d): %v", groupNum, r[0], r[1], thePanic))
			wait.Done()
		})
	}
	wait.Wait()
	return bigError
}

// SimpleFunc is for RunInParallel.
type SimpleFunc func(ctx context.Context) error

// RunInParallel runs all functions in parallel, return is elapsed time and an error.
func RunInParallel(ctx context.Context, fs []SimpleFunc) (time.Duration, error) {
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	var bigError error
	var bigErrorMutex sync.Mutex
	storeError := func(err error) {
		bigErrorMutex.Lock()
		defer bigErrorMutex.Unlock()
		if bigError == nil || !errors.Is(err, context.Canceled) {
			bigError = multierr.Combine(bigError, err)
		}
	}

	helper := func(f SimpleFunc) {
		defer func() {
			if thePanic := recover(); thePanic != nil {
				storeError(fmt.Errorf("got panic running something in parallel: %v", thePanic))
				cancel()
			}
			wg.Done()
		}()
		err := f(ctx)
		if err != nil {
			storeError(err)
			cancel()
		}
	}

	for _, f := range fs {
		wg.Add(1)
		go helper(f)
	}

	wg.Wait()
	return time.Since(start), bigError
}
