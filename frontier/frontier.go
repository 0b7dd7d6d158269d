/*
	frontier package provides the bounded active-vertex container that is
	consumed and produced by each evaluation round.
*/

package frontier

import (
	"errors"
	"sync"

	"github.com/mycok/minigraph/graph"
)

// ErrFrontierFull is returned by Enqueue when the frontier has reached its
// capacity.
var ErrFrontierFull = errors.New("frontier is full")

// Iterator provides an API for draining a frontier.
type Iterator interface {
	// Next advances the iterator. If no more vertices are available or an
	// error occurs, calls to Next() return false.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Vertex returns the vertex pointed to by the iterator.
	Vertex() graph.VertexDescriptor
}

// Frontier is a bounded multi-producer / multi-consumer container of vertex
// descriptors. Ordering is irrelevant: vertices are dequeued from the tail.
type Frontier struct {
	mu       sync.Mutex
	capacity int
	vertices []graph.VertexDescriptor
	current  graph.VertexDescriptor
}

// New returns an empty frontier that holds at most capacity vertices.
func New(capacity int) *Frontier {
	if capacity < 0 {
		capacity = 0
	}

	return &Frontier{
		capacity: capacity,
		vertices: make([]graph.VertexDescriptor, 0, capacity),
	}
}

// Enqueue adds a vertex to the frontier. It never blocks; ErrFrontierFull is
// returned once the capacity has been reached.
func (f *Frontier) Enqueue(v graph.VertexDescriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.vertices) >= f.capacity {
		return ErrFrontierFull
	}

	f.vertices = append(f.vertices, v)

	return nil
}

// Dequeue removes and returns a vertex. The second return value is false if
// the frontier is empty.
func (f *Frontier) Dequeue() (graph.VertexDescriptor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.vertices)
	if n == 0 {
		return graph.VertexDescriptor{}, false
	}

	v := f.vertices[n-1]
	f.vertices = f.vertices[:n-1]

	return v, true
}

// Len returns the number of queued vertices.
func (f *Frontier) Len() int {
	f.mu.Lock()
	n := len(f.vertices)
	f.mu.Unlock()

	return n
}

// Cap returns the capacity of the frontier.
func (f *Frontier) Cap() int { return f.capacity }

// Empty returns true if the frontier holds no vertices.
func (f *Frontier) Empty() bool { return f.Len() == 0 }

// Vertices returns a draining iterator over the queued vertices.
func (f *Frontier) Vertices() Iterator { return f }

// Next implements Iterator.Next.
func (f *Frontier) Next() bool {
	v, ok := f.Dequeue()

	f.mu.Lock()
	f.current = v
	f.mu.Unlock()

	return ok
}

// Vertex implements Iterator.Vertex.
func (f *Frontier) Vertex() graph.VertexDescriptor {
	f.mu.Lock()
	v := f.current
	f.mu.Unlock()

	return v
}

// Error implements Iterator.Error.
func (*Frontier) Error() error { return nil }
