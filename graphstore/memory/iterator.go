package memory

import "github.com/mycok/minigraph/graphstore"

// Static and compile-time check to ensure the iterators implement the
// graphstore iterator interfaces.
var (
	_ graphstore.VertexIterator = (*vertexIterator)(nil)
	_ graphstore.EdgeIterator   = (*edgeIterator)(nil)
)

// vertexIterator iterates over a snapshot of the stored vertices, so it
// never observes writes made after its creation.
type vertexIterator struct {
	vertices     []graphstore.Vertex
	currentIndex int
}

// Next loads the next item, returns false when no more vertices are
// available.
func (i *vertexIterator) Next() bool {
	if i.currentIndex >= len(i.vertices) {
		return false
	}

	i.currentIndex++

	return true
}

// Error returns the last error encountered by the iterator.
func (i *vertexIterator) Error() error { return nil }

// Close releases any resources allocated to the iterator.
func (i *vertexIterator) Close() error { return nil }

// Vertex returns the currently fetched vertex object.
func (i *vertexIterator) Vertex() *graphstore.Vertex {
	v := i.vertices[i.currentIndex-1]

	return &v
}

// edgeIterator iterates over a snapshot of the stored edges.
type edgeIterator struct {
	edges        []graphstore.Edge
	currentIndex int
}

// Next loads the next item, returns false when no more edges are
// available.
func (i *edgeIterator) Next() bool {
	if i.currentIndex >= len(i.edges) {
		return false
	}

	i.currentIndex++

	return true
}

// Error returns the last error encountered by the iterator.
func (i *edgeIterator) Error() error { return nil }

// Close releases any resources allocated to the iterator.
func (i *edgeIterator) Close() error { return nil }

// Edge returns the currently fetched edge object.
func (i *edgeIterator) Edge() *graphstore.Edge {
	e := i.edges[i.currentIndex-1]

	return &e
}
