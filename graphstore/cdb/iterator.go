package cdb

import (
	"database/sql"
	"fmt"

	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/graphstore"
)

// vertexIterator is a graphstore.VertexIterator implementation for the
// cockroachDB graph store.
type vertexIterator struct {
	rows    *sql.Rows
	lastErr error
	vertex  *graphstore.Vertex
}

// Next implements graphstore.VertexIterator.Next.
func (i *vertexIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	var (
		rawID int64
		v     = new(graphstore.Vertex)
	)

	i.lastErr = i.rows.Scan(&rawID, &v.Value)
	if i.lastErr != nil {
		return false
	}

	v.ID = graph.VertexID(rawID)
	i.vertex = v

	return true
}

// Error implements graphstore.VertexIterator.Error.
func (i *vertexIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}

	return i.rows.Err()
}

// Close implements graphstore.VertexIterator.Close.
func (i *vertexIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("vertex iterator: %w", err)
	}

	return nil
}

// Vertex implements graphstore.VertexIterator.Vertex.
func (i *vertexIterator) Vertex() *graphstore.Vertex {
	return i.vertex
}

// edgeIterator is a graphstore.EdgeIterator implementation for the
// cockroachDB graph store.
type edgeIterator struct {
	rows    *sql.Rows
	lastErr error
	edge    *graphstore.Edge
}

// Next implements graphstore.EdgeIterator.Next.
func (i *edgeIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	var src, dest int64
	i.lastErr = i.rows.Scan(&src, &dest)
	if i.lastErr != nil {
		return false
	}

	i.edge = &graphstore.Edge{Src: graph.VertexID(src), Dest: graph.VertexID(dest)}

	return true
}

// Error implements graphstore.EdgeIterator.Error.
func (i *edgeIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}

	return i.rows.Err()
}

// Close implements graphstore.EdgeIterator.Close.
func (i *edgeIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return fmt.Errorf("edge iterator: %w", err)
	}

	return nil
}

// Edge implements graphstore.EdgeIterator.Edge.
func (i *edgeIterator) Edge() *graphstore.Edge {
	return i.edge
}
