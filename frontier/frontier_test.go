package frontier_test

import (
	"sync"
	"testing"

	check "gopkg.in/check.v1"

	"github.com/mycok/minigraph/frontier"
	"github.com/mycok/minigraph/graph"
)

var _ = check.Suite(new(FrontierTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type FrontierTestSuite struct{}

func (s *FrontierTestSuite) TestEnqueueAndDrain(c *check.C) {
	f := frontier.New(10)
	for i := 0; i < 10; i++ {
		err := f.Enqueue(graph.NewVertexDescriptor(graph.VertexID(i), 0, nil, nil))
		c.Assert(err, check.IsNil)
	}

	c.Assert(f.Len(), check.Equals, 10)
	c.Assert(f.Enqueue(graph.NewVertexDescriptor(99, 0, nil, nil)), check.Equals, frontier.ErrFrontierFull)

	// Vertices are drained from the tail.
	it := f.Vertices()
	var numOfDrained int
	for expNext := 9; it.Next(); expNext-- {
		c.Assert(it.Vertex().GlobalID, check.Equals, graph.VertexID(expNext))
		numOfDrained++
	}

	c.Assert(numOfDrained, check.Equals, 10)
	c.Assert(it.Error(), check.IsNil)
	c.Assert(f.Empty(), check.Equals, true)

	_, ok := f.Dequeue()
	c.Assert(ok, check.Equals, false)
}

func (s *FrontierTestSuite) TestConcurrentProducers(c *check.C) {
	var (
		wg           sync.WaitGroup
		numProducers = 8
		perProducer  = 100
		f            = frontier.New(numProducers * perProducer)
	)

	wg.Add(numProducers)
	for p := 0; p < numProducers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				id := graph.VertexID(p*perProducer + i)
				c.Check(f.Enqueue(graph.NewVertexDescriptor(id, 0, nil, nil)), check.IsNil)
			}
		}(p)
	}
	wg.Wait()

	c.Assert(f.Len(), check.Equals, f.Cap())

	seen := make(map[graph.VertexID]bool)
	for v, ok := f.Dequeue(); ok; v, ok = f.Dequeue() {
		seen[v.GlobalID] = true
	}
	c.Assert(seen, check.HasLen, numProducers*perProducer)
}
