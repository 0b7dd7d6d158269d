package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/graphstore"
)

// Static and compile-time check to ensure InMemoryGraph implements
// Graph interface.
var _ graphstore.Graph = (*InMemoryGraph)(nil)

// InMemoryGraph implements an in-memory vertex and edge graph that can be
// concurrently accessed by multiple clients.
type InMemoryGraph struct {
	mu       sync.RWMutex
	vertices map[graph.VertexID]*graphstore.Vertex
	outEdges map[graph.VertexID][]graph.VertexID // Maps vertices to their out-neighbours.
}

// NewInMemoryGraph creates a new in-memory graph.
func NewInMemoryGraph() *InMemoryGraph {
	return &InMemoryGraph{
		vertices: make(map[graph.VertexID]*graphstore.Vertex),
		outEdges: make(map[graph.VertexID][]graph.VertexID),
	}
}

// UpsertVertex creates a new or updates an existing vertex.
func (s *InMemoryGraph) UpsertVertex(v *graphstore.Vertex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to protect the stored vertex from changes made by the
	// caller.
	vCopy := new(graphstore.Vertex)
	*vCopy = *v
	s.vertices[vCopy.ID] = vCopy

	return nil
}

// FindVertex performs a vertex lookup by id.
func (s *InMemoryGraph) FindVertex(id graph.VertexID) (*graphstore.Vertex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, exists := s.vertices[id]
	if !exists {
		return nil, fmt.Errorf("find vertex: %w", graphstore.ErrNotFound)
	}

	vCopy := new(graphstore.Vertex)
	*vCopy = *v

	return vCopy, nil
}

// Vertices returns an iterator for the set of vertices whose ids belong to
// the [fromID, toID] range.
func (s *InMemoryGraph) Vertices(fromID, toID graph.VertexID) (graphstore.VertexIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []graphstore.Vertex
	for id, v := range s.vertices {
		if id >= fromID && id <= toID {
			list = append(list, *v)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return &vertexIterator{vertices: list}, nil
}

// UpsertEdge creates a new edge unless it already exists.
func (s *InMemoryGraph) UpsertEdge(e *graphstore.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, srcExists := s.vertices[e.Src]
	_, destExists := s.vertices[e.Dest]
	if !srcExists || !destExists {
		return fmt.Errorf("upsert edge: %w", graphstore.ErrUnknownEdgeVertices)
	}

	for _, dest := range s.outEdges[e.Src] {
		if dest == e.Dest {
			return nil
		}
	}

	s.outEdges[e.Src] = append(s.outEdges[e.Src], e.Dest)

	return nil
}

// Edges returns an iterator for the set of edges whose source vertex ids
// belong to the [fromID, toID] range.
func (s *InMemoryGraph) Edges(fromID, toID graph.VertexID) (graphstore.EdgeIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []graphstore.Edge
	for src, dests := range s.outEdges {
		if src < fromID || src > toID {
			continue
		}

		for _, dest := range dests {
			list = append(list, graphstore.Edge{Src: src, Dest: dest})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Src != list[j].Src {
			return list[i].Src < list[j].Src
		}

		return list[i].Dest < list[j].Dest
	})

	return &edgeIterator{edges: list}, nil
}

// UpdateValue overwrites the value of an existing vertex.
func (s *InMemoryGraph) UpdateValue(id graph.VertexID, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.vertices[id]
	if !exists {
		return fmt.Errorf("update value: %w", graphstore.ErrNotFound)
	}

	v.Value = value

	return nil
}
