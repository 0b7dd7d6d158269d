package pie

import (
	"context"
	"errors"

	"github.com/mycok/minigraph/border"
	"github.com/mycok/minigraph/emap"
	"github.com/mycok/minigraph/executor"
	"github.com/mycok/minigraph/frontier"
	"github.com/mycok/minigraph/graph"
)

// ErrDiscard is returned by evaluations that have nothing to contribute for
// the current round. The driver treats the fragment as unchanged.
var ErrDiscard = errors.New("fragment discarded for this round")

// App is implemented by algorithms that can be evaluated with the PIE
// model.
type App interface {
	// PEval runs the initial evaluation of a fragment to its local
	// fixpoint and returns the changed border vertices.
	PEval(ctx context.Context, frag graph.Fragment, runner *executor.TaskRunner) (border.PartialResult, error)

	// IncEval incorporates the current border-vertex table into a fragment
	// and returns the border vertices that changed as a result.
	IncEval(ctx context.Context, frag graph.Fragment, runner *executor.TaskRunner) (border.PartialResult, error)

	// MsgAggr folds a partial result into the border-vertex table. It
	// returns false if there was nothing to aggregate.
	MsgAggr(partial border.PartialResult) bool
}

// CollectBorderChanges returns copies of the border vertices of frag that
// are marked in visited.
func CollectBorderChanges(frag graph.Fragment, visited *emap.Visited) border.PartialResult {
	partial := make(border.PartialResult)
	visited.Each(func(id graph.LocalID) {
		if !frag.IsBorder(id) {
			return
		}

		v := frag.VertexByLocalID(id).Clone()
		partial[v.GlobalID] = v
	})

	return partial
}

// Converge repeatedly applies em starting from in until the produced
// frontier is empty. It returns the number of Map calls performed.
func Converge(ctx context.Context, em *emap.EdgeMap, in *frontier.Frontier, visited *emap.Visited, frag graph.Fragment, runner *executor.TaskRunner) (int, error) {
	var (
		steps int
		err   error
	)

	if in == nil {
		return 0, emap.ErrNilFrontier
	}

	for curr := in; !curr.Empty(); steps++ {
		if err = ensureContextNotExpired(ctx); err != nil {
			return steps, err
		}

		if curr, err = em.Map(curr, visited, frag, runner); err != nil {
			return steps, err
		}
	}

	return steps, nil
}

func ensureContextNotExpired(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
