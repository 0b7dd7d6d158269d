/*
	graphstore package defines types that outline the behavior of the
	vertex and edge data stores that graphs are loaded from and that
	computed vertex values are written back to.
*/

package graphstore

import (
	"errors"

	"github.com/mycok/minigraph/graph"
)

var (
	// ErrNotFound is returned when a vertex lookup fails.
	ErrNotFound = errors.New("not found")

	// ErrUnknownEdgeVertices is returned when attempting to create an edge
	// with an invalid source and / or destination vertex.
	ErrUnknownEdgeVertices = errors.New("unknown source and / or destination")
)

// Graph should be implemented by vertex and edge data stores.
type Graph interface {
	// UpsertVertex creates a new or updates an existing vertex.
	UpsertVertex(v *Vertex) error

	// FindVertex performs a vertex lookup by id.
	FindVertex(id graph.VertexID) (*Vertex, error)

	// Vertices returns an iterator for the set of vertices whose ids
	// belong to the [fromID, toID] range.
	Vertices(fromID, toID graph.VertexID) (VertexIterator, error)

	// UpsertEdge creates a new edge unless it already exists.
	UpsertEdge(e *Edge) error

	// Edges returns an iterator for the set of edges whose source vertex
	// ids belong to the [fromID, toID] range.
	Edges(fromID, toID graph.VertexID) (EdgeIterator, error)

	// UpdateValue overwrites the value of an existing vertex.
	UpdateValue(id graph.VertexID, value int64) error
}

// VertexIterator is implemented by types that iterate graph vertices.
type VertexIterator interface {
	Iterator

	// Vertex returns the currently fetched vertex object.
	Vertex() *Vertex
}

// EdgeIterator is implemented by types that iterate graph edges.
type EdgeIterator interface {
	Iterator

	// Edge returns the currently fetched edge object.
	Edge() *Edge
}

// Iterator should be embedded / implemented by types that require
// iteration functionality.
type Iterator interface {
	// Next loads the next item, returns false when no more items are
	// available or when an error occurs.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources allocated to the iterator.
	Close() error
}

// Vertex is a graph vertex together with its current value.
type Vertex struct {
	ID    graph.VertexID
	Value int64
}

// Edge is a directed edge that originates from Src and terminates at Dest.
type Edge struct {
	Src  graph.VertexID
	Dest graph.VertexID
}
