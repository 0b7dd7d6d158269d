package executor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
)

// ErrNoParallelism is returned by Run when the runner does not currently
// hold the pool.
var ErrNoParallelism = errors.New("task runner holds no parallelism")

// TaskRunner is a lease on the executor's worker pool. Its parallelism is
// either the full pool size or zero; a queued runner is upgraded in place
// when its owner gets promoted.
type TaskRunner struct {
	owner       Owner
	name        string
	exec        *ScheduledExecutor
	parallelism int64
	promotedCh  chan struct{}

	inflight sync.WaitGroup
	errMu    sync.Mutex
	err      error
}

// Owner returns the owner the runner was issued to.
func (r *TaskRunner) Owner() Owner { return r.owner }

// RunParallelism returns the number of execution slots currently granted to
// the runner.
func (r *TaskRunner) RunParallelism() int { return int(atomic.LoadInt64(&r.parallelism)) }

func (r *TaskRunner) setParallelism(p int) { atomic.StoreInt64(&r.parallelism, int64(p)) }

// Promoted returns a channel that is closed once the runner holds the pool.
func (r *TaskRunner) Promoted() <-chan struct{} { return r.promotedCh }

// AwaitLease blocks until the runner is promoted or ctx expires.
func (r *TaskRunner) AwaitLease(ctx context.Context) error {
	select {
	case <-r.promotedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run dispatches tasks to the worker pool. When barrier is true, Run blocks
// until every task has completed and returns their accumulated errors.
// Otherwise Run returns once all tasks have been handed to the pool; their
// errors are reported by Wait.
func (r *TaskRunner) Run(tasks []Task, barrier bool) error {
	if r.RunParallelism() == 0 {
		return ErrNoParallelism
	}

	if barrier {
		var (
			wg    sync.WaitGroup
			errMu sync.Mutex
			err   error
		)

		for _, task := range tasks {
			wg.Add(1)
			j := job{
				task: task,
				done: func(taskErr error) {
					if taskErr != nil {
						errMu.Lock()
						err = multierror.Append(err, taskErr)
						errMu.Unlock()
					}
					wg.Done()
				},
			}

			if submitErr := r.exec.submit(j); submitErr != nil {
				wg.Done()
				wg.Wait()

				return submitErr
			}
		}

		// Block until the pool has processed the whole batch.
		wg.Wait()

		return err
	}

	for _, task := range tasks {
		r.inflight.Add(1)
		j := job{task: task, done: r.recordAsync}
		if err := r.exec.submit(j); err != nil {
			r.inflight.Done()

			return err
		}
	}

	return nil
}

// Wait blocks until every task dispatched without a barrier has completed
// and returns their accumulated errors. The recorded errors are cleared.
func (r *TaskRunner) Wait() error {
	r.inflight.Wait()

	r.errMu.Lock()
	defer r.errMu.Unlock()

	err := r.err
	r.err = nil

	return err
}

func (r *TaskRunner) recordAsync(err error) {
	if err != nil {
		r.errMu.Lock()
		r.err = multierror.Append(r.err, err)
		r.errMu.Unlock()
	}

	r.inflight.Done()
}
