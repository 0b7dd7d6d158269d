package emap_test

import (
	"errors"
	"sync"
	"testing"

	check "gopkg.in/check.v1"

	"github.com/mycok/minigraph/emap"
	"github.com/mycok/minigraph/executor"
	"github.com/mycok/minigraph/frontier"
	"github.com/mycok/minigraph/graph"
)

var _ = check.Suite(new(EdgeMapTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type EdgeMapTestSuite struct {
	exec   *executor.ScheduledExecutor
	runner *executor.TaskRunner
}

func (s *EdgeMapTestSuite) SetUpTest(c *check.C) {
	s.exec = executor.NewScheduledExecutor(4)
	s.runner = s.exec.RequestTaskRunner("test", executor.RunnerConfig{})
}

func (s *EdgeMapTestSuite) TearDownTest(c *check.C) {
	c.Assert(s.exec.RecycleTaskRunner("test", s.runner), check.IsNil)
	c.Assert(s.exec.Close(), check.IsNil)
}

var reach = emap.EdgeKernelFuncs{
	Cond:   func(_, v graph.VertexDescriptor) bool { return v.Value() != 1 },
	Update: func(_, v graph.VertexDescriptor) bool { return v.CompareAndSetValue(0, 1) },
}

func (s *EdgeMapTestSuite) TestBFSRoundsOnAChain(c *check.C) {
	frag := buildFragment(c, 3, [][2]graph.VertexID{{0, 1}, {1, 2}})
	visited := emap.NewVisited(frag.NumVertices())

	seed := emap.NewVertexMap(emap.VertexKernelFuncs{
		Cond:   func(u graph.VertexDescriptor) bool { return u.Value() != 1 },
		Update: func(u graph.VertexDescriptor) bool { u.SetValue(1); return true },
	})
	in := frontier.New(frag.NumVertices() + 1)
	c.Assert(in.Enqueue(frag.VertexByLocalID(0)), check.IsNil)

	curr, err := seed.Map(in, visited, frag, s.runner)
	c.Assert(err, check.IsNil)
	c.Assert(frontierIDs(curr.Vertices()), check.DeepEquals, []graph.VertexID{0})
	c.Assert(visited.IsMarked(0), check.Equals, true)

	// Re-queue the seeded root so propagation starts from it.
	curr = frontier.New(frag.NumVertices() + 1)
	c.Assert(curr.Enqueue(frag.VertexByLocalID(0)), check.IsNil)

	em := emap.NewEdgeMap(reach)
	expRounds := [][]graph.VertexID{{1}, {2}, nil}
	for round, exp := range expRounds {
		curr, err = em.Map(curr, visited, frag, s.runner)
		c.Assert(err, check.IsNil)

		ids := frontierIDs(curr.Vertices())
		c.Assert(ids, check.DeepEquals, exp, check.Commentf("round %d", round+1))
		for _, id := range ids {
			c.Assert(curr.Enqueue(frag.VertexByLocalID(frag.GlobalToLocal(id))), check.IsNil)
		}
	}

	for i := 0; i < frag.NumVertices(); i++ {
		c.Assert(frag.VertexByIndex(i).Value(), check.Equals, int64(1))
	}
	c.Assert(visited.Count(), check.Equals, 3)
	c.Assert(em.Activations(), check.Equals, 2)
}

func (s *EdgeMapTestSuite) TestRepeatedMapTerminates(c *check.C) {
	// A dense graph with cycles; every vertex reachable from vertex 0.
	var (
		numOfVertices = 50
		edges         [][2]graph.VertexID
	)
	for i := 0; i < numOfVertices; i++ {
		for _, j := range []int{(i + 1) % numOfVertices, (i * 7) % numOfVertices, (i + 13) % numOfVertices} {
			edges = append(edges, [2]graph.VertexID{graph.VertexID(i), graph.VertexID(j)})
		}
	}

	frag := buildFragment(c, numOfVertices, edges)
	frag.VertexByLocalID(0).SetValue(1)
	visited := emap.NewVisited(frag.NumVertices())
	curr := frontier.New(frag.NumVertices() + 1)
	c.Assert(curr.Enqueue(frag.VertexByLocalID(0)), check.IsNil)

	em := emap.NewEdgeMap(reach)
	var err error
	for rounds := 0; !curr.Empty(); rounds++ {
		c.Assert(rounds <= numOfVertices, check.Equals, true, check.Commentf("map did not converge"))
		curr, err = em.Map(curr, visited, frag, s.runner)
		c.Assert(err, check.IsNil)
	}

	c.Assert(visited.Count(), check.Equals, numOfVertices-1)
	c.Assert(em.Activations(), check.Equals, numOfVertices-1)
}

func (s *EdgeMapTestSuite) TestCrossFragmentNeighboursAreSkipped(c *check.C) {
	b := graph.NewBuilder(0)
	b.AddVertex(0, 1)
	b.AddVertex(1, 0)
	c.Assert(b.AddEdge(0, 1), check.IsNil)
	c.Assert(b.AddEdge(0, 42), check.IsNil)
	frag, err := b.Build()
	c.Assert(err, check.IsNil)

	in := frontier.New(3)
	c.Assert(in.Enqueue(frag.VertexByLocalID(0)), check.IsNil)
	out, err := emap.NewEdgeMap(reach).Map(in, emap.NewVisited(2), frag, s.runner)
	c.Assert(err, check.IsNil)
	c.Assert(frontierIDs(out.Vertices()), check.DeepEquals, []graph.VertexID{1})
}

func (s *EdgeMapTestSuite) TestDestinationEnqueuedOncePerCall(c *check.C) {
	// 0 -> 2 and 1 -> 2 both activate vertex 2.
	frag := buildFragment(c, 3, [][2]graph.VertexID{{0, 2}, {1, 2}})
	always := emap.EdgeKernelFuncs{
		Update: func(u, v graph.VertexDescriptor) bool {
			v.SetValue(v.Value() + 1)
			return true
		},
	}

	in := frontier.New(4)
	c.Assert(in.Enqueue(frag.VertexByLocalID(0)), check.IsNil)
	c.Assert(in.Enqueue(frag.VertexByLocalID(1)), check.IsNil)
	out, err := emap.NewEdgeMap(always).Map(in, emap.NewVisited(3), frag, s.runner)
	c.Assert(err, check.IsNil)
	c.Assert(frontierIDs(out.Vertices()), check.DeepEquals, []graph.VertexID{2})
	// Updates to the same destination are serialized.
	c.Assert(frag.VertexByLocalID(2).Value(), check.Equals, int64(2))

	c.Assert(in.Enqueue(frag.VertexByLocalID(0)), check.IsNil)
	c.Assert(in.Enqueue(frag.VertexByLocalID(1)), check.IsNil)
	_, err = emap.NewEdgeMap(always, emap.WithStrictWrites(true)).Map(in, emap.NewVisited(3), frag, s.runner)
	c.Assert(errors.Is(err, emap.ErrConcurrentWrite), check.Equals, true)
}

func (s *EdgeMapTestSuite) TestPreconditions(c *check.C) {
	frag := buildFragment(c, 2, nil)
	em := emap.NewEdgeMap(reach)

	_, err := em.Map(frontier.New(1), nil, frag, s.runner)
	c.Assert(err, check.Equals, emap.ErrNilVisited)

	_, err = em.Map(nil, emap.NewVisited(2), frag, s.runner)
	c.Assert(err, check.Equals, emap.ErrNilFrontier)

	_, err = em.Map(frontier.New(1), emap.NewVisited(2), nil, s.runner)
	c.Assert(err, check.Equals, emap.ErrNilFragment)

	_, err = em.Map(frontier.New(1), emap.NewVisited(2), frag, nil)
	c.Assert(err, check.Equals, emap.ErrNilRunner)

	_, err = em.Map(frontier.New(1), emap.NewVisited(5), frag, s.runner)
	c.Assert(errors.Is(err, emap.ErrVisitedSize), check.Equals, true)
}

func (s *EdgeMapTestSuite) TestEmptyFrontierProducesEmptyFrontier(c *check.C) {
	frag := buildFragment(c, 4, [][2]graph.VertexID{{0, 1}})
	out, err := emap.NewEdgeMap(reach).Map(frontier.New(1), emap.NewVisited(4), frag, s.runner)
	c.Assert(err, check.IsNil)
	c.Assert(out.Empty(), check.Equals, true)
	c.Assert(out.Cap(), check.Equals, 5)
}

func (s *EdgeMapTestSuite) TestVertexMapOverAllVertices(c *check.C) {
	frag := buildFragment(c, 10, nil)
	visited := emap.NewVisited(frag.NumVertices())
	vm := emap.NewVertexMap(emap.VertexKernelFuncs{
		Cond: func(u graph.VertexDescriptor) bool { return u.GlobalID%2 == 0 },
		Update: func(u graph.VertexDescriptor) bool {
			u.SetValue(int64(u.GlobalID))
			return true
		},
	})

	out, err := vm.Map(emap.AllVertices(frag), visited, frag, s.runner)
	c.Assert(err, check.IsNil)
	c.Assert(out.Len(), check.Equals, 5)
	c.Assert(visited.Count(), check.Equals, 5)
	visited.Each(func(id graph.LocalID) {
		c.Assert(frag.VertexByLocalID(id).Value(), check.Equals, int64(frag.LocalToGlobal(id)))
	})
}

var _ = check.Suite(new(VisitedTestSuite))

type VisitedTestSuite struct{}

func (s *VisitedTestSuite) TestConcurrentMarks(c *check.C) {
	var (
		v         = emap.NewVisited(100)
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstMark int
	)

	wg.Add(8)
	for w := 0; w < 8; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if v.Mark(graph.LocalID(i)) {
					mu.Lock()
					firstMark++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	c.Assert(firstMark, check.Equals, 100)
	c.Assert(v.Count(), check.Equals, 100)
	c.Assert(v.IsMarked(100), check.Equals, false)
}

func buildFragment(c *check.C, numOfVertices int, edges [][2]graph.VertexID) *graph.CSR {
	b := graph.NewBuilder(0)
	for i := 0; i < numOfVertices; i++ {
		b.AddVertex(graph.VertexID(i), 0)
	}
	for _, e := range edges {
		c.Assert(b.AddEdge(e[0], e[1]), check.IsNil)
	}

	frag, err := b.Build()
	c.Assert(err, check.IsNil)

	return frag
}

func frontierIDs(it frontier.Iterator) []graph.VertexID {
	var ids []graph.VertexID
	for it.Next() {
		ids = append(ids, it.Vertex().GlobalID)
	}

	return ids
}
