package pie

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/minigraph/executor"
)

// Callbacks encapsulates a series of callbacks that are invoked by a Driver
// around each round. All callbacks are optional and will be ignored if not
// specified.
type Callbacks struct {
	// PreRound, if defined, is invoked before a round is dispatched.
	PreRound func(ctx context.Context, round int) error

	// PostRound, if defined, is invoked after every fragment of a round
	// has been classified and before the fixpoint check.
	PostRound func(ctx context.Context, stats RoundStats) error
}

func initWithDefaultCallbacks(cb *Callbacks) {
	if cb.PreRound == nil {
		cb.PreRound = func(context.Context, int) error { return nil }
	}

	if cb.PostRound == nil {
		cb.PostRound = func(context.Context, RoundStats) error { return nil }
	}
}

// Config encapsulates the configuration options for creating drivers.
type Config struct {
	// App is the algorithm to evaluate.
	App App

	// Executor provides the worker pool leased to fragments.
	Executor *executor.ScheduledExecutor

	// MaxRounds caps the number of rounds. A zero value means no limit.
	MaxRounds int

	// Callbacks invoked around each round.
	Callbacks Callbacks

	// A clock instance used for measuring run durations. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error

	if cfg.App == nil {
		err = multierror.Append(err, fmt.Errorf("app not provided"))
	}

	if cfg.Executor == nil {
		err = multierror.Append(err, fmt.Errorf("executor not provided"))
	}

	if cfg.MaxRounds < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for max rounds, must be >= 0"))
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}

	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	initWithDefaultCallbacks(&cfg.Callbacks)

	return err
}
