/*
	sssp package computes unit-weight shortest path distances from a single
	source vertex. Vertices that cannot be reached keep a distance of
	Infinity.
*/

package sssp

import (
	"context"
	"math"

	"github.com/mycok/minigraph/border"
	"github.com/mycok/minigraph/emap"
	"github.com/mycok/minigraph/executor"
	"github.com/mycok/minigraph/frontier"
	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/pie"
)

// Infinity is the distance of unreachable vertices.
const Infinity int64 = math.MaxInt64

// Static and compile-time check to ensure App implements pie.App.
var _ pie.App = (*App)(nil)

// App evaluates hop distances from a source vertex.
type App struct {
	source    graph.VertexID
	table     *border.Table
	init      *emap.VertexMap
	propagate *emap.EdgeMap
}

// New returns an App that measures distances from source.
func New(source graph.VertexID, opts ...emap.Option) *App {
	return &App{
		source: source,
		table:  border.NewTable(),
		init: emap.NewVertexMap(emap.VertexKernelFuncs{
			Update: func(u graph.VertexDescriptor) bool {
				if u.GlobalID == source {
					u.SetValue(0)
					return true
				}

				u.SetValue(Infinity)
				return false
			},
		}, opts...),
		propagate: emap.NewEdgeMap(emap.EdgeKernelFuncs{
			Cond: func(u, v graph.VertexDescriptor) bool {
				d := u.Value()
				return d != Infinity && d+1 < v.Value()
			},
			Update: func(u, v graph.VertexDescriptor) bool { return lowerTo(v, u.Value()+1) },
		}, opts...),
	}
}

// Table returns the border-vertex table shared by all fragments.
func (a *App) Table() *border.Table { return a.table }

// PEval resets every distance and, if the fragment owns the source,
// relaxes the fragment starting from it.
func (a *App) PEval(ctx context.Context, frag graph.Fragment, runner *executor.TaskRunner) (border.PartialResult, error) {
	visited := emap.NewVisited(frag.NumVertices())
	seeded, err := a.init.Map(emap.AllVertices(frag), visited, frag, runner)
	if err != nil {
		return nil, err
	}

	if _, err = pie.Converge(ctx, a.propagate, seeded, visited, frag, runner); err != nil {
		return nil, err
	}

	return pie.CollectBorderChanges(frag, visited), nil
}

// IncEval relaxes the fragment's vertices against the distances held in
// the border-vertex table.
func (a *App) IncEval(ctx context.Context, frag graph.Fragment, runner *executor.TaskRunner) (border.PartialResult, error) {
	if a.table.Len() == 0 {
		return nil, nil
	}

	in := frontier.New(a.table.Len() + 1)
	var err error
	a.table.Range(func(v graph.VertexDescriptor) bool {
		if v.Value() != Infinity {
			err = in.Enqueue(v)
		}

		return err == nil
	})
	if err != nil {
		return nil, err
	}

	visited := emap.NewVisited(frag.NumVertices())
	if _, err = pie.Converge(ctx, a.propagate, in, visited, frag, runner); err != nil {
		return nil, err
	}

	return pie.CollectBorderChanges(frag, visited), nil
}

// MsgAggr keeps the shortest distance seen for every border vertex.
func (a *App) MsgAggr(partial border.PartialResult) bool {
	return a.table.Aggregate(partial, border.ReconcilerFunc(func(existing, incoming graph.VertexDescriptor) bool {
		return lowerTo(existing, incoming.Value())
	}))
}

func lowerTo(v graph.VertexDescriptor, val int64) bool {
	for {
		curr := v.Value()
		if val >= curr {
			return false
		}

		if v.CompareAndSetValue(curr, val) {
			return true
		}
	}
}
