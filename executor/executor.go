/*
	executor package provides a fixed-size worker pool that is leased
	exclusively, in FIFO order, to one owner at a time. The current holder
	may use every worker of the pool; all other owners hold zero-parallelism
	runners until they are promoted.
*/

package executor

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownOwner is returned by RecycleTaskRunner when the owner has
	// no outstanding runner.
	ErrUnknownOwner = errors.New("owner has no outstanding task runner")

	// ErrRunnerMismatch is returned by RecycleTaskRunner when the runner
	// was not issued to the provided owner.
	ErrRunnerMismatch = errors.New("task runner was not issued to this owner")

	// ErrExecutorClosed is returned when submitting tasks to a closed
	// executor.
	ErrExecutorClosed = errors.New("executor is closed")
)

// Owner identifies the requester of a task runner. Owners must be
// comparable.
type Owner interface{}

// Task is a unit of work executed by the pool.
type Task func() error

// RunnerConfig encapsulates per-runner options.
type RunnerConfig struct {
	// Name is attached to log entries emitted for the runner.
	Name string
}

// Config encapsulates the configuration options for creating executors.
type Config struct {
	// Parallelism is the number of workers in the pool. If not specified,
	// a single worker will be used.
	Parallelism int

	// Logger to use. If not defined an output-discarding logger will be
	// used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}

	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
}

type job struct {
	task Task
	done func(error)
}

// ScheduledExecutor owns a fixed pool of workers and arbitrates access to
// it through task runner leases.
type ScheduledExecutor struct {
	parallelism int
	logger      *logrus.Entry

	wg      sync.WaitGroup
	taskCh  chan job
	closeMu sync.RWMutex
	closed  bool

	mu      sync.Mutex
	holder  *TaskRunner
	waiting []*TaskRunner
	runners map[Owner]*TaskRunner
}

// NewScheduledExecutor creates an executor with a pool of parallelism
// workers. It is important for callers to invoke Close() on the returned
// executor when they are done using it.
func NewScheduledExecutor(parallelism int) *ScheduledExecutor {
	return New(Config{Parallelism: parallelism})
}

// New creates an executor using the specified configuration.
func New(cfg Config) *ScheduledExecutor {
	cfg.validate()

	e := &ScheduledExecutor{
		parallelism: cfg.Parallelism,
		logger:      cfg.Logger,
		runners:     make(map[Owner]*TaskRunner),
	}

	e.startWorkers(cfg.Parallelism)

	return e
}

// Parallelism returns the size of the worker pool.
func (e *ScheduledExecutor) Parallelism() int { return e.parallelism }

// Close shuts down the worker pool once all submitted tasks have completed.
func (e *ScheduledExecutor) Close() error {
	e.closeMu.Lock()
	if e.closed {
		e.closeMu.Unlock()

		return nil
	}
	e.closed = true
	close(e.taskCh)
	e.closeMu.Unlock()

	e.wg.Wait()

	return nil
}

// RequestTaskRunner registers owner in the FIFO waiting list and returns its
// runner. If the pool is free the runner is granted the full parallelism,
// otherwise it reports zero until the owner is promoted. Requesting twice for
// the same owner returns the already issued runner.
func (e *ScheduledExecutor) RequestTaskRunner(owner Owner, cfg RunnerConfig) *TaskRunner {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r, exists := e.runners[owner]; exists {
		return r
	}

	r := &TaskRunner{
		owner:      owner,
		name:       cfg.Name,
		exec:       e,
		promotedCh: make(chan struct{}),
	}
	e.runners[owner] = r

	if e.holder == nil {
		e.promote(r)
	} else {
		e.waiting = append(e.waiting, r)
		e.logger.WithFields(logrus.Fields{
			"runner":   r.name,
			"position": len(e.waiting),
		}).Debug("task runner queued")
	}

	return r
}

// RecycleTaskRunner releases the runner issued to owner. If owner is the
// current holder, its in-flight tasks are awaited and the next queued owner
// is promoted; its outstanding runner is upgraded in place.
func (e *ScheduledExecutor) RecycleTaskRunner(owner Owner, runner *TaskRunner) error {
	e.mu.Lock()
	r, exists := e.runners[owner]
	e.mu.Unlock()

	if !exists {
		return fmt.Errorf("recycle task runner: %w", ErrUnknownOwner)
	} else if r != runner {
		return fmt.Errorf("recycle task runner: %w", ErrRunnerMismatch)
	}

	// Tasks dispatched without a barrier may still be running.
	r.inflight.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.runners, owner)
	r.setParallelism(0)

	if e.holder != r {
		for i, w := range e.waiting {
			if w == r {
				e.waiting = append(e.waiting[:i], e.waiting[i+1:]...)

				break
			}
		}

		return nil
	}

	e.holder = nil
	if len(e.waiting) == 0 {
		return nil
	}

	next := e.waiting[0]
	e.waiting = e.waiting[1:]
	e.promote(next)

	return nil
}

// Holder returns the owner of the runner currently holding the pool or nil.
func (e *ScheduledExecutor) Holder() Owner {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.holder == nil {
		return nil
	}

	return e.holder.owner
}

// NumWaiting returns the number of queued owners.
func (e *ScheduledExecutor) NumWaiting() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.waiting)
}

// promote grants the pool to r. Callers must hold e.mu.
func (e *ScheduledExecutor) promote(r *TaskRunner) {
	e.holder = r
	r.setParallelism(e.parallelism)
	close(r.promotedCh)

	e.logger.WithFields(logrus.Fields{
		"runner":      r.name,
		"parallelism": e.parallelism,
	}).Debug("task runner promoted")
}

func (e *ScheduledExecutor) submit(j job) error {
	e.closeMu.RLock()
	defer e.closeMu.RUnlock()

	if e.closed {
		return ErrExecutorClosed
	}

	e.taskCh <- j

	return nil
}

// startWorkers allocates the task channel and spins up numOfWorkers. Workers
// exit when the task channel gets closed.
func (e *ScheduledExecutor) startWorkers(numOfWorkers int) {
	e.taskCh = make(chan job)

	e.wg.Add(numOfWorkers)
	for i := 0; i < numOfWorkers; i++ {
		go e.worker()
	}
}

func (e *ScheduledExecutor) worker() {
	defer e.wg.Done()

	for j := range e.taskCh {
		j.done(runTask(j.task))
	}
}

func runTask(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	return task()
}
