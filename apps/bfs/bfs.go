/*
	bfs package implements reachability from a single root vertex on top of
	the PIE driver. A vertex payload is Reached once the vertex can be
	reached from the root.
*/

package bfs

import (
	"context"

	"github.com/mycok/minigraph/border"
	"github.com/mycok/minigraph/emap"
	"github.com/mycok/minigraph/executor"
	"github.com/mycok/minigraph/frontier"
	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/pie"
)

// Payload values used by the app. Fragments must be loaded with every
// payload set to Unreached.
const (
	Unreached int64 = 0
	Reached   int64 = 1
)

// Static and compile-time check to ensure App implements pie.App.
var _ pie.App = (*App)(nil)

// App evaluates reachability from a root vertex.
type App struct {
	root      graph.VertexID
	table     *border.Table
	seed      *emap.VertexMap
	propagate *emap.EdgeMap
}

// New returns an App that explores the graph starting at root.
func New(root graph.VertexID, opts ...emap.Option) *App {
	return &App{
		root:  root,
		table: border.NewTable(),
		seed: emap.NewVertexMap(emap.VertexKernelFuncs{
			Cond:   func(u graph.VertexDescriptor) bool { return u.Value() != Reached },
			Update: func(u graph.VertexDescriptor) bool { u.SetValue(Reached); return true },
		}, opts...),
		propagate: emap.NewEdgeMap(emap.EdgeKernelFuncs{
			Cond:   func(_, v graph.VertexDescriptor) bool { return v.Value() != Reached },
			Update: func(_, v graph.VertexDescriptor) bool { return v.CompareAndSetValue(Unreached, Reached) },
		}, opts...),
	}
}

// Table returns the border-vertex table shared by all fragments.
func (a *App) Table() *border.Table { return a.table }

// PEval marks the root as reached and explores the fragment from it.
// Fragments that do not own the root are discarded.
func (a *App) PEval(ctx context.Context, frag graph.Fragment, runner *executor.TaskRunner) (border.PartialResult, error) {
	local := frag.GlobalToLocal(a.root)
	if local == graph.NotFound {
		return nil, pie.ErrDiscard
	}

	visited := emap.NewVisited(frag.NumVertices())
	in := frontier.New(frag.NumVertices() + 1)
	if err := in.Enqueue(frag.VertexByLocalID(local)); err != nil {
		return nil, err
	}

	seeded, err := a.seed.Map(in, visited, frag, runner)
	if err != nil {
		return nil, err
	}

	if _, err = pie.Converge(ctx, a.propagate, seeded, visited, frag, runner); err != nil {
		return nil, err
	}

	return pie.CollectBorderChanges(frag, visited), nil
}

// IncEval continues the exploration from every reached border vertex.
func (a *App) IncEval(ctx context.Context, frag graph.Fragment, runner *executor.TaskRunner) (border.PartialResult, error) {
	if a.table.Len() == 0 {
		return nil, nil
	}

	in := frontier.New(a.table.Len() + 1)
	var err error
	a.table.Range(func(v graph.VertexDescriptor) bool {
		if v.Value() == Reached {
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

// MsgAggr marks existing border entries as reached and inserts new ones.
func (a *App) MsgAggr(partial border.PartialResult) bool {
	return a.table.Aggregate(partial, border.ReconcilerFunc(func(existing, incoming graph.VertexDescriptor) bool {
		if existing.Value() == Reached || incoming.Value() != Reached {
			return false
		}

		existing.SetValue(Reached)

		return true
	}))
}
