/*
	graphstoretest package contains a re-usable test suite that can be run
	against any type that implements the graphstore.Graph interface.
*/

package graphstoretest

import (
	"errors"
	"sync"

	check "gopkg.in/check.v1"

	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/graphstore"
)

// BaseSuite defines a set of re-usable graph store tests that can be
// executed against any concrete type that implements graphstore.Graph.
type BaseSuite struct {
	g graphstore.Graph
}

// SetGraph configures the test-suite to run all tests against an instance
// of graphstore.Graph.
func (s *BaseSuite) SetGraph(g graphstore.Graph) {
	s.g = g
}

// TestUpsertVertex verifies the vertex upsert logic.
func (s *BaseSuite) TestUpsertVertex(c *check.C) {
	v := &graphstore.Vertex{ID: 7, Value: 3}
	c.Assert(s.g.UpsertVertex(v), check.IsNil)

	// Mutating the caller's copy must not affect the store.
	v.Value = 42
	stored, err := s.g.FindVertex(7)
	c.Assert(err, check.IsNil)
	c.Assert(stored.Value, check.Equals, int64(3))

	c.Assert(s.g.UpsertVertex(&graphstore.Vertex{ID: 7, Value: 9}), check.IsNil)
	stored, err = s.g.FindVertex(7)
	c.Assert(err, check.IsNil)
	c.Assert(stored.Value, check.Equals, int64(9))

	_, err = s.g.FindVertex(8)
	c.Assert(errors.Is(err, graphstore.ErrNotFound), check.Equals, true)
}

// TestVertexRange verifies that vertex iterators honour the inclusive id
// range.
func (s *BaseSuite) TestVertexRange(c *check.C) {
	for id := graph.VertexID(0); id < 10; id++ {
		c.Assert(s.g.UpsertVertex(&graphstore.Vertex{ID: id, Value: int64(id) * 10}), check.IsNil)
	}

	it, err := s.g.Vertices(3, 6)
	c.Assert(err, check.IsNil)

	var got []graphstore.Vertex
	for it.Next() {
		got = append(got, *it.Vertex())
	}
	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)

	c.Assert(got, check.DeepEquals, []graphstore.Vertex{
		{ID: 3, Value: 30}, {ID: 4, Value: 40}, {ID: 5, Value: 50}, {ID: 6, Value: 60},
	})
}

// TestUpsertEdge verifies the edge upsert logic.
func (s *BaseSuite) TestUpsertEdge(c *check.C) {
	for id := graph.VertexID(0); id < 3; id++ {
		c.Assert(s.g.UpsertVertex(&graphstore.Vertex{ID: id}), check.IsNil)
	}

	c.Assert(s.g.UpsertEdge(&graphstore.Edge{Src: 0, Dest: 1}), check.IsNil)
	c.Assert(s.g.UpsertEdge(&graphstore.Edge{Src: 0, Dest: 1}), check.IsNil)
	c.Assert(s.g.UpsertEdge(&graphstore.Edge{Src: 2, Dest: 0}), check.IsNil)

	err := s.g.UpsertEdge(&graphstore.Edge{Src: 0, Dest: 99})
	c.Assert(errors.Is(err, graphstore.ErrUnknownEdgeVertices), check.Equals, true)

	it, err := s.g.Edges(0, 1)
	c.Assert(err, check.IsNil)

	var got []graphstore.Edge
	for it.Next() {
		got = append(got, *it.Edge())
	}
	c.Assert(it.Error(), check.IsNil)
	c.Assert(it.Close(), check.IsNil)
	c.Assert(got, check.DeepEquals, []graphstore.Edge{{Src: 0, Dest: 1}})
}

// TestUpdateValue verifies that computed values can be written back.
func (s *BaseSuite) TestUpdateValue(c *check.C) {
	c.Assert(s.g.UpsertVertex(&graphstore.Vertex{ID: 1}), check.IsNil)
	c.Assert(s.g.UpdateValue(1, 17), check.IsNil)

	stored, err := s.g.FindVertex(1)
	c.Assert(err, check.IsNil)
	c.Assert(stored.Value, check.Equals, int64(17))

	err = s.g.UpdateValue(2, 1)
	c.Assert(errors.Is(err, graphstore.ErrNotFound), check.Equals, true)
}

// TestConcurrentEdgeIterators ensures that multiple clients can concurrently
// access the store without causing data races.
func (s *BaseSuite) TestConcurrentEdgeIterators(c *check.C) {
	var (
		wg           sync.WaitGroup
		numIterators = 10
		numEdges     = 100
	)

	for id := graph.VertexID(0); id <= graph.VertexID(numEdges); id++ {
		c.Assert(s.g.UpsertVertex(&graphstore.Vertex{ID: id}), check.IsNil)
	}
	for id := graph.VertexID(0); id < graph.VertexID(numEdges); id++ {
		c.Assert(s.g.UpsertEdge(&graphstore.Edge{Src: id, Dest: id + 1}), check.IsNil)
	}

	wg.Add(numIterators)
	for i := 0; i < numIterators; i++ {
		go func(id int) {
			defer wg.Done()

			itTag := check.Commentf("iterator %d", id)
			it, err := s.g.Edges(0, graph.VertexID(numEdges))
			c.Check(err, check.IsNil, itTag)
			if err != nil {
				return
			}

			var count int
			for it.Next() {
				count++
			}
			c.Check(it.Error(), check.IsNil, itTag)
			c.Check(it.Close(), check.IsNil, itTag)
			c.Check(count, check.Equals, numEdges, itTag)
		}(i)
	}
	wg.Wait()
}
