package wcc_test

import (
	"context"
	"testing"

	check "gopkg.in/check.v1"

	"github.com/mycok/minigraph/apps/wcc"
	"github.com/mycok/minigraph/executor"
	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/graph/partition"
	"github.com/mycok/minigraph/pie"
)

var _ = check.Suite(new(WCCTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type WCCTestSuite struct {
	exec *executor.ScheduledExecutor
}

func (s *WCCTestSuite) SetUpTest(c *check.C) {
	s.exec = executor.NewScheduledExecutor(4)
}

func (s *WCCTestSuite) TearDownTest(c *check.C) {
	c.Assert(s.exec.Close(), check.IsNil)
}

func (s *WCCTestSuite) TestIncEvalWithoutBorderEntriesChangesNothing(c *check.C) {
	b := graph.NewBuilder(0)
	for id := graph.VertexID(0); id < 4; id++ {
		b.AddVertex(id, 100+int64(id))
	}
	c.Assert(b.AddUndirectedEdge(0, 1), check.IsNil)
	c.Assert(b.AddUndirectedEdge(2, 3), check.IsNil)
	frag, err := b.Build()
	c.Assert(err, check.IsNil)

	runner := s.exec.RequestTaskRunner(0, executor.RunnerConfig{})
	defer func() { c.Assert(s.exec.RecycleTaskRunner(0, runner), check.IsNil) }()

	app := wcc.New()
	partial, err := app.IncEval(context.TODO(), frag, runner)
	c.Assert(err, check.IsNil)
	c.Assert(partial, check.HasLen, 0)
	c.Assert(payloads(c, frag), check.DeepEquals, map[graph.VertexID]int64{0: 100, 1: 101, 2: 102, 3: 103})

	partial, err = app.PEval(context.TODO(), frag, runner)
	c.Assert(err, check.IsNil)
	c.Assert(partial, check.HasLen, 0)
	c.Assert(payloads(c, frag), check.DeepEquals, map[graph.VertexID]int64{0: 0, 1: 0, 2: 2, 3: 2})
}

func (s *WCCTestSuite) TestMultiFragmentRun(c *check.C) {
	// Component {1, 4, 7, 10, 11} spans every fragment; {3, 9} and {5, 6}
	// span two; 0, 2 and 8 are isolated.
	edges := [][2]graph.VertexID{
		{11, 7}, {7, 4}, {4, 10}, {10, 1},
		{9, 3},
		{6, 5},
	}

	r, err := partition.NewRange(3, 0, 11)
	c.Assert(err, check.IsNil)
	p := partition.NewEdgeCut(r)
	for id := graph.VertexID(0); id <= 11; id++ {
		p.AddVertex(id, 0)
	}
	for _, e := range edges {
		p.AddEdge(e[0], e[1])
		p.AddEdge(e[1], e[0])
	}
	csrs, err := p.Fragments()
	c.Assert(err, check.IsNil)

	d, err := pie.NewDriver(pie.Config{App: wcc.New(), Executor: s.exec, MaxRounds: 20})
	c.Assert(err, check.IsNil)
	stats, err := d.Run(context.TODO(), graph.AsFragments(csrs))
	c.Assert(err, check.IsNil)
	c.Assert(stats.Rounds > 1, check.Equals, true)

	got := make(map[graph.VertexID]int64)
	for _, frag := range csrs {
		for id, v := range payloads(c, frag) {
			got[id] = v
		}
	}

	exp := map[graph.VertexID]int64{
		0: 0, 1: 1, 2: 2, 3: 3, 4: 1, 5: 5,
		6: 5, 7: 1, 8: 8, 9: 3, 10: 1, 11: 1,
	}
	c.Assert(got, check.DeepEquals, exp)
}

func payloads(c *check.C, frag *graph.CSR) map[graph.VertexID]int64 {
	values := make(map[graph.VertexID]int64)
	err := frag.Payloads(func(id graph.VertexID, value int64) error {
		values[id] = value
		return nil
	})
	c.Assert(err, check.IsNil)

	return values
}
