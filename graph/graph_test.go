package graph_test

import (
	"errors"
	"fmt"
	"testing"

	check "gopkg.in/check.v1"

	"github.com/mycok/minigraph/graph"
)

var _ = check.Suite(new(FragmentTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type FragmentTestSuite struct{}

func (s *FragmentTestSuite) TestBuildResolvesIDs(c *check.C) {
	b := graph.NewBuilder(3)
	b.AddVertex(10, 0)
	b.AddVertex(20, 5)
	b.AddVertex(30, 0)

	c.Assert(b.AddEdge(10, 20), check.IsNil)
	c.Assert(b.AddEdge(20, 30), check.IsNil)
	// 40 lives in another fragment.
	c.Assert(b.AddEdge(30, 40), check.IsNil)
	c.Assert(b.AddEdge(40, 10), check.IsNil)

	g, err := b.Build()
	c.Assert(err, check.IsNil)

	c.Assert(g.ID(), check.Equals, graph.FragmentID(3))
	c.Assert(g.NumVertices(), check.Equals, 3)
	c.Assert(g.NumEdges(), check.Equals, 3)
	c.Assert(g.GlobalToLocal(20), check.Equals, graph.LocalID(1))
	c.Assert(g.GlobalToLocal(40), check.Equals, graph.NotFound)
	c.Assert(g.LocalToGlobal(2), check.Equals, graph.VertexID(30))

	v := g.VertexByLocalID(1)
	c.Assert(v.GlobalID, check.Equals, graph.VertexID(20))
	c.Assert(v.Value(), check.Equals, int64(5))
	c.Assert(v.Out, check.DeepEquals, []graph.VertexID{30})
	c.Assert(v.In, check.DeepEquals, []graph.VertexID{10})

	// Only vertices touching 40 sit on the border.
	c.Assert(g.IsBorder(0), check.Equals, true)
	c.Assert(g.IsBorder(1), check.Equals, false)
	c.Assert(g.IsBorder(2), check.Equals, true)
	c.Assert(g.NumBorderVertices(), check.Equals, 2)
}

func (s *FragmentTestSuite) TestPayloadWritesAreVisibleThroughTheFragment(c *check.C) {
	b := graph.NewBuilder(0)
	b.AddVertex(1, 0)
	b.AddVertex(2, 0)
	g, err := b.Build()
	c.Assert(err, check.IsNil)

	g.VertexByIndex(1).SetValue(42)
	c.Assert(g.VertexByLocalID(1).Value(), check.Equals, int64(42))

	got := make(map[graph.VertexID]int64)
	err = g.Payloads(func(id graph.VertexID, value int64) error {
		got[id] = value
		return nil
	})
	c.Assert(err, check.IsNil)
	c.Assert(got, check.DeepEquals, map[graph.VertexID]int64{1: 0, 2: 42})
}

func (s *FragmentTestSuite) TestCloneDoesNotAlias(c *check.C) {
	b := graph.NewBuilder(0)
	b.AddVertex(1, 7)
	g, err := b.Build()
	c.Assert(err, check.IsNil)

	orig := g.VertexByIndex(0)
	clone := orig.Clone()
	clone.SetValue(99)

	c.Assert(orig.Value(), check.Equals, int64(7))
	c.Assert(clone.Value(), check.Equals, int64(99))
	c.Assert(clone.GlobalID, check.Equals, orig.GlobalID)
}

func (s *FragmentTestSuite) TestBuildErrors(c *check.C) {
	b := graph.NewBuilder(1)
	b.AddVertex(1, 0)
	b.AddVertex(1, 0)
	b.AddOutEdge(5, 1)

	_, err := b.Build()
	c.Assert(errors.Is(err, graph.ErrDuplicateVertex), check.Equals, true)
	c.Assert(errors.Is(err, graph.ErrUnknownVertex), check.Equals, true)

	err = b.AddEdge(8, 9)
	c.Assert(errors.Is(err, graph.ErrNoLocalEndpoint), check.Equals, true)
}

func (s *FragmentTestSuite) TestUndirectedEdges(c *check.C) {
	b := graph.NewBuilder(0)
	for i := 0; i < 4; i++ {
		b.AddVertex(graph.VertexID(i), 0)
	}
	for i := 0; i < 3; i++ {
		c.Assert(b.AddUndirectedEdge(graph.VertexID(i), graph.VertexID(i+1)), check.IsNil)
	}

	g, err := b.Build()
	c.Assert(err, check.IsNil)
	c.Assert(g.NumEdges(), check.Equals, 6)
	c.Assert(g.String(), check.Equals, fmt.Sprintf("fragment(0){vertices: %d, edges: %d}", 4, 6))

	mid := g.VertexByLocalID(1)
	c.Assert(mid.OutDegree(), check.Equals, 2)
	c.Assert(mid.InDegree(), check.Equals, 2)
}
