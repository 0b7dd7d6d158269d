/*
	wcc package labels the weakly connected components of a graph. Every
	vertex ends up labelled with the smallest global id in its component.
	Fragments must be built with undirected edges.
*/

package wcc

import (
	"context"

	"github.com/mycok/minigraph/border"
	"github.com/mycok/minigraph/emap"
	"github.com/mycok/minigraph/executor"
	"github.com/mycok/minigraph/frontier"
	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/pie"
)

// Static and compile-time check to ensure App implements pie.App.
var _ pie.App = (*App)(nil)

// App evaluates weakly connected components.
type App struct {
	table     *border.Table
	init      *emap.VertexMap
	propagate *emap.EdgeMap
}

// New returns a new component labelling App.
func New(opts ...emap.Option) *App {
	return &App{
		table: border.NewTable(),
		init: emap.NewVertexMap(emap.VertexKernelFuncs{
			Update: func(u graph.VertexDescriptor) bool {
				u.SetValue(int64(u.GlobalID))
				return true
			},
		}, opts...),
		propagate: emap.NewEdgeMap(emap.EdgeKernelFuncs{
			Cond:   func(u, v graph.VertexDescriptor) bool { return u.Value() < v.Value() },
			Update: func(u, v graph.VertexDescriptor) bool { return lowerTo(v, u.Value()) },
		}, opts...),
	}
}

// Table returns the border-vertex table shared by all fragments.
func (a *App) Table() *border.Table { return a.table }

// PEval labels every vertex with its own id and propagates the smallest
// label through the fragment. All border vertices are published.
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

// IncEval pushes the labels held in the border-vertex table into the
// fragment and propagates any label that got smaller.
func (a *App) IncEval(ctx context.Context, frag graph.Fragment, runner *executor.TaskRunner) (border.PartialResult, error) {
	if a.table.Len() == 0 {
		return nil, nil
	}

	in := frontier.New(a.table.Len() + 1)
	var err error
	a.table.Range(func(v graph.VertexDescriptor) bool {
		err = in.Enqueue(v)

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

// MsgAggr keeps the smallest label seen for every border vertex.
func (a *App) MsgAggr(partial border.PartialResult) bool {
	return a.table.Aggregate(partial, border.ReconcilerFunc(func(existing, incoming graph.VertexDescriptor) bool {
		return lowerTo(existing, incoming.Value())
	}))
}

// lowerTo replaces the payload of v with val if val is smaller.
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
