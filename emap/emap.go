/*
	emap package implements the vertex-centric EdgeMap and VertexMap
	primitives. Both consume an input frontier, apply an algorithm supplied
	condition/update kernel to every active vertex in parallel through a
	leased task runner and produce the frontier for the next round.
*/

package emap

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mycok/minigraph/aggregator"
	"github.com/mycok/minigraph/executor"
	"github.com/mycok/minigraph/frontier"
	"github.com/mycok/minigraph/graph"
)

const numOfStripes = 64

var (
	// ErrNilVisited is returned by Map when no visited marks are provided.
	ErrNilVisited = errors.New("visited marks must not be nil")

	// ErrNilFrontier is returned by Map when no input frontier is provided.
	ErrNilFrontier = errors.New("input frontier must not be nil")

	// ErrNilFragment is returned by Map when no fragment is provided.
	ErrNilFragment = errors.New("fragment must not be nil")

	// ErrNilRunner is returned by Map when no task runner is provided.
	ErrNilRunner = errors.New("task runner must not be nil")

	// ErrVisitedSize is returned by Map when the visited marks do not cover
	// the fragment's local vertices.
	ErrVisitedSize = errors.New("visited marks do not match fragment size")

	// ErrConcurrentWrite is reported in strict mode when the same
	// destination vertex is activated more than once within a single Map
	// call.
	ErrConcurrentWrite = errors.New("destination vertex written more than once in a round")
)

// Option configures an EdgeMap or VertexMap.
type Option func(*options)

type options struct {
	strict bool
	logger *logrus.Entry
}

// WithStrictWrites enables reporting of repeated activations of the same
// destination vertex within one Map call.
func WithStrictWrites(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithLogger sets the logger used by the engine.
func WithLogger(logger *logrus.Entry) Option {
	return func(o *options) { o.logger = logger }
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return o
}

// engine holds the state shared by EdgeMap and VertexMap.
type engine struct {
	opts        options
	stripes     [numOfStripes]sync.Mutex
	activations aggregator.IntAccumulator
}

func (e *engine) stripe(id graph.LocalID) *sync.Mutex {
	return &e.stripes[id%numOfStripes]
}

// Activations returns the number of vertices activated since the engine
// was created.
func (e *engine) Activations() int { return e.activations.Get().(int) }

func (e *engine) checkArgs(in *frontier.Frontier, visited *Visited, frag graph.Fragment, runner *executor.TaskRunner) error {
	var err error
	switch {
	case visited == nil:
		err = ErrNilVisited
	case in == nil:
		err = ErrNilFrontier
	case frag == nil:
		err = ErrNilFragment
	case runner == nil:
		err = ErrNilRunner
	case visited.Len() != frag.NumVertices():
		err = fmt.Errorf("%w: got %d, want %d", ErrVisitedSize, visited.Len(), frag.NumVertices())
	}

	if err != nil {
		e.opts.logger.WithField("err", err).Error("rejected map call")
	}

	return err
}

// activate records v as changed and enqueues it onto out unless it was
// already activated during the current call.
func (e *engine) activate(v graph.VertexDescriptor, visited, activated *Visited, out *frontier.Frontier) error {
	visited.Mark(v.ID)
	if !activated.Mark(v.ID) {
		if e.opts.strict {
			return fmt.Errorf("vertex %d: %w", v.GlobalID, ErrConcurrentWrite)
		}

		return nil
	}

	e.activations.Aggregate(1)

	return out.Enqueue(v)
}

func (e *engine) run(name string, tasks []executor.Task, frag graph.Fragment, runner *executor.TaskRunner) error {
	e.opts.logger.WithFields(logrus.Fields{
		"fragment": frag.ID(),
		"tasks":    len(tasks),
	}).Debug(name)

	if len(tasks) == 0 {
		return nil
	}

	if err := runner.Run(tasks, true); err != nil {
		return fmt.Errorf("%s on fragment %d: %w", name, frag.ID(), err)
	}

	return nil
}

// EdgeMap applies an EdgeKernel to the out-edges of every vertex in a
// frontier.
type EdgeMap struct {
	engine
	kernel EdgeKernel
}

// NewEdgeMap returns an EdgeMap that evaluates kernel.
func NewEdgeMap(kernel EdgeKernel, opts ...Option) *EdgeMap {
	m := &EdgeMap{kernel: kernel}
	m.opts = applyOptions(opts)

	return m
}

// Map drains in into one reduction task per vertex and runs the batch on
// runner, blocking until it completes. For every out-neighbour v resident
// in frag, C(u, v) is evaluated and, if it holds, F(u, v). Vertices for
// which F reports a change are marked in visited and enqueued onto the
// returned frontier. Neighbours owned by other fragments are skipped.
func (m *EdgeMap) Map(in *frontier.Frontier, visited *Visited, frag graph.Fragment, runner *executor.TaskRunner) (*frontier.Frontier, error) {
	if err := m.checkArgs(in, visited, frag, runner); err != nil {
		return nil, err
	}

	n := frag.NumVertices()
	out := frontier.New(n + 1)
	activated := NewVisited(n)

	var tasks []executor.Task
	for it := in.Vertices(); it.Next(); {
		u := it.Vertex()
		tasks = append(tasks, func() error {
			return m.reduce(u, visited, activated, frag, out)
		})
	}

	if err := m.run("edge map", tasks, frag, runner); err != nil {
		return nil, err
	}

	return out, nil
}

func (m *EdgeMap) reduce(u graph.VertexDescriptor, visited, activated *Visited, frag graph.Fragment, out *frontier.Frontier) error {
	for _, dest := range u.Out {
		local := frag.GlobalToLocal(dest)
		if local == graph.NotFound {
			continue
		}

		v := frag.VertexByLocalID(local)
		lock := m.stripe(local)
		lock.Lock()
		changed := m.kernel.C(u, v) && m.kernel.F(u, v)
		lock.Unlock()

		if !changed {
			continue
		}

		if err := m.activate(v, visited, activated, out); err != nil {
			return err
		}
	}

	return nil
}

// VertexMap applies a VertexKernel to every vertex in a frontier.
type VertexMap struct {
	engine
	kernel VertexKernel
}

// NewVertexMap returns a VertexMap that evaluates kernel.
func NewVertexMap(kernel VertexKernel, opts ...Option) *VertexMap {
	m := &VertexMap{kernel: kernel}
	m.opts = applyOptions(opts)

	return m
}

// Map drains in and evaluates C(u) and then F(u) for every vertex resident
// in frag. Vertices for which F reports a change are marked in visited and
// enqueued onto the returned frontier.
func (m *VertexMap) Map(in *frontier.Frontier, visited *Visited, frag graph.Fragment, runner *executor.TaskRunner) (*frontier.Frontier, error) {
	if err := m.checkArgs(in, visited, frag, runner); err != nil {
		return nil, err
	}

	n := frag.NumVertices()
	out := frontier.New(n + 1)
	activated := NewVisited(n)

	var tasks []executor.Task
	for it := in.Vertices(); it.Next(); {
		u := it.Vertex()
		tasks = append(tasks, func() error {
			local := frag.GlobalToLocal(u.GlobalID)
			if local == graph.NotFound {
				return nil
			}

			v := frag.VertexByLocalID(local)
			lock := m.stripe(local)
			lock.Lock()
			changed := m.kernel.C(v) && m.kernel.F(v)
			lock.Unlock()

			if !changed {
				return nil
			}

			return m.activate(v, visited, activated, out)
		})
	}

	if err := m.run("vertex map", tasks, frag, runner); err != nil {
		return nil, err
	}

	return out, nil
}

// AllVertices returns a frontier holding every vertex of frag.
func AllVertices(frag graph.Fragment) *frontier.Frontier {
	n := frag.NumVertices()
	f := frontier.New(n + 1)
	for i := 0; i < n; i++ {
		// Capacity covers every vertex.
		_ = f.Enqueue(frag.VertexByIndex(i))
	}

	return f
}
