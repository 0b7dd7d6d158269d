/*
	pie package drives algorithms through the PIE cycle: every fragment is
	evaluated with PEval, border changes are aggregated with MsgAggr and
	fragments are re-evaluated with IncEval until no fragment produces new
	changes.
*/

package pie

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/mycok/minigraph/border"
	"github.com/mycok/minigraph/executor"
	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/statemachine"
)

var (
	// ErrMaxRoundsExceeded is returned by Run when the global fixpoint is
	// not reached within the configured number of rounds.
	ErrMaxRoundsExceeded = errors.New("max rounds exceeded before reaching a fixpoint")

	// ErrDuplicateFragment is returned by Run when two fragments share an
	// id.
	ErrDuplicateFragment = errors.New("duplicate fragment id")
)

// RoundStats summarizes the outcome of one round.
type RoundStats struct {
	Round     int
	Changed   int
	Unchanged int
	Discarded int
}

// RunStats summarizes a complete run.
type RunStats struct {
	RunID    uuid.UUID
	Rounds   int
	PerRound []RoundStats
	Duration time.Duration
}

// leaseOwner identifies a fragment's lease on a shared executor.
type leaseOwner struct {
	run  uuid.UUID
	frag graph.FragmentID
}

// Driver runs an App over a set of fragments.
type Driver struct {
	cfg    Config
	aggrMu sync.Mutex
}

// NewDriver returns a Driver for the provided configuration.
func NewDriver(cfg Config) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("pie driver: config validation failed: %w", err)
	}

	return &Driver{cfg: cfg}, nil
}

// Run evaluates the app until every fragment reaches the global fixpoint,
// an error occurs or the context expires.
func (d *Driver) Run(ctx context.Context, fragments []graph.Fragment) (RunStats, error) {
	stats := RunStats{RunID: uuid.New()}
	startedAt := d.cfg.Clock.Now()
	logger := d.cfg.Logger.WithField("run_id", stats.RunID.String())

	byID := make(map[graph.FragmentID]graph.Fragment, len(fragments))
	ids := make([]graph.FragmentID, 0, len(fragments))
	for _, frag := range fragments {
		if _, exists := byID[frag.ID()]; exists {
			return stats, fmt.Errorf("fragment %d: %w", frag.ID(), ErrDuplicateFragment)
		}
		byID[frag.ID()] = frag
		ids = append(ids, frag.ID())
	}

	sm := statemachine.New(ids)
	logger.WithField("fragments", len(fragments)).Info("started run")

	var err error
	for round := 0; !sm.IsTerminated(); round++ {
		if d.cfg.MaxRounds > 0 && round >= d.cfg.MaxRounds {
			err = ErrMaxRoundsExceeded
			break
		}

		var rs RoundStats
		if err = ensureContextNotExpired(ctx); err != nil {
			break
		} else if err = d.cfg.Callbacks.PreRound(ctx, round); err != nil {
			break
		} else if rs, err = d.runRound(ctx, stats.RunID, round, sm, byID, logger); err != nil {
			break
		}

		stats.Rounds++
		stats.PerRound = append(stats.PerRound, rs)
		if err = d.cfg.Callbacks.PostRound(ctx, rs); err != nil {
			break
		}
	}

	stats.Duration = d.cfg.Clock.Now().Sub(startedAt)
	logger = logger.WithFields(logrus.Fields{
		"rounds":   stats.Rounds,
		"duration": stats.Duration,
	})

	if err != nil {
		logger.WithField("err", err).Error("run aborted")

		return stats, err
	}

	logger.Info("reached fixpoint")

	return stats, nil
}

type outcome uint8

const (
	unchanged outcome = iota
	changed
	discarded
)

func (d *Driver) runRound(
	ctx context.Context, runID uuid.UUID, round int, sm *statemachine.Machine,
	byID map[graph.FragmentID]graph.Fragment, logger *logrus.Entry,
) (RoundStats, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		err   error
		stats = RoundStats{Round: round}
	)

	eligible := sm.Eligible()
	wg.Add(len(eligible))
	for _, id := range eligible {
		go func(frag graph.Fragment) {
			defer wg.Done()

			fragLogger := logger.WithFields(logrus.Fields{
				"round":    round,
				"fragment": frag.ID(),
			})
			res, fragErr := d.runFragment(ctx, leaseOwner{run: runID, frag: frag.ID()}, round, sm, frag, fragLogger)

			mu.Lock()
			defer mu.Unlock()

			if fragErr != nil {
				err = multierror.Append(err, fragErr)
				return
			}

			switch res {
			case changed:
				stats.Changed++
			case discarded:
				stats.Discarded++
			default:
				stats.Unchanged++
			}
		}(byID[id])
	}
	wg.Wait()

	if err != nil {
		return stats, err
	}

	logger.WithFields(logrus.Fields{
		"round":     round,
		"changed":   stats.Changed,
		"unchanged": stats.Unchanged,
		"discarded": stats.Discarded,
	}).Debug("completed round")

	return stats, nil
}

// runFragment evaluates one fragment for one round. Evaluation failures
// discard the fragment for the round; state machine and lease failures are
// returned.
func (d *Driver) runFragment(
	ctx context.Context, owner leaseOwner, round int, sm *statemachine.Machine,
	frag graph.Fragment, logger *logrus.Entry,
) (res outcome, err error) {
	runner := d.cfg.Executor.RequestTaskRunner(owner, executor.RunnerConfig{
		Name: fmt.Sprintf("fragment-%d", frag.ID()),
	})
	defer func() {
		if recycleErr := d.cfg.Executor.RecycleTaskRunner(owner, runner); recycleErr != nil {
			err = multierror.Append(err, recycleErr)
		}
	}()

	if err = runner.AwaitLease(ctx); err != nil {
		return unchanged, err
	}

	if err = sm.ProcessEvent(frag.ID(), statemachine.Load); err != nil {
		return unchanged, err
	}

	var partial border.PartialResult
	var evalErr error
	if round == 0 {
		partial, evalErr = d.cfg.App.PEval(ctx, frag, runner)
	} else {
		partial, evalErr = d.cfg.App.IncEval(ctx, frag, runner)
	}

	switch {
	case evalErr != nil:
		if errors.Is(evalErr, ErrDiscard) {
			logger.Debug("fragment discarded")
		} else {
			logger.WithField("err", evalErr).Warn("evaluation failed; discarding fragment for this round")
		}

		return discarded, sm.ProcessEvent(frag.ID(), statemachine.NothingChanged)
	case len(partial) == 0:
		return unchanged, sm.ProcessEvent(frag.ID(), statemachine.NothingChanged)
	}

	if err = sm.ProcessEvent(frag.ID(), statemachine.Changed); err != nil {
		return unchanged, err
	}

	d.aggrMu.Lock()
	_ = d.cfg.App.MsgAggr(partial)
	d.aggrMu.Unlock()

	logger.WithField("border_changes", len(partial)).Debug("aggregated border changes")

	return changed, sm.ProcessEvent(frag.ID(), statemachine.Aggregate)
}
