package cdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/graphstore"
)

const queryTimeout = 500 * time.Millisecond

var (
	createSchemaQuery = `
					CREATE TABLE IF NOT EXISTS vertices (
						id INT8 PRIMARY KEY,
						value INT8 NOT NULL DEFAULT 0
					);
					CREATE TABLE IF NOT EXISTS edges (
						src INT8 NOT NULL REFERENCES vertices(id) ON DELETE CASCADE,
						dest INT8 NOT NULL REFERENCES vertices(id) ON DELETE CASCADE,
						PRIMARY KEY (src, dest)
					);
					`

	upsertVertexQuery = `
					INSERT INTO vertices (id, value)
					VALUES ($1, $2)
					ON CONFLICT (id)
					DO UPDATE SET value=$2
					`
	findVertexQuery = "SELECT id, value FROM vertices WHERE id=$1"

	rangeVerticesQuery = `
						SELECT id, value FROM vertices
						WHERE id >= $1 AND id <= $2
						ORDER BY id
						`

	upsertEdgeQuery = `
					INSERT INTO edges (src, dest)
					VALUES ($1, $2)
					ON CONFLICT (src, dest) DO NOTHING
					`
	rangeEdgesQuery = `
					SELECT src, dest FROM edges
					WHERE src >= $1 AND src <= $2
					ORDER BY src, dest
					`

	updateValueQuery = "UPDATE vertices SET value=$2 WHERE id=$1"
)

// Static and compile-time check to ensure CockroachDBGraph implements
// Graph interface.
var _ graphstore.Graph = (*CockroachDBGraph)(nil)

// CockroachDBGraph implements a persistent vertex and edge graph using a
// CockroachDB instance.
type CockroachDBGraph struct {
	db *sql.DB
}

// NewCockroachDBGraph returns a CockroachDBGraph instance that connects to
// the instance specified by dsn.
func NewCockroachDBGraph(dsn string) (*CockroachDBGraph, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &CockroachDBGraph{db}, nil
}

// EnsureSchema creates the vertices and edges tables if they do not exist.
func (s *CockroachDBGraph) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSchemaQuery); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	return nil
}

// Close terminates the connection to the cockroachDB instance.
func (s *CockroachDBGraph) Close() error {
	return s.db.Close()
}

// UpsertVertex creates a new or updates an existing vertex.
func (s *CockroachDBGraph) UpsertVertex(v *graphstore.Vertex) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, upsertVertexQuery, int64(v.ID), v.Value); err != nil {
		return fmt.Errorf("upsert vertex: %w", err)
	}

	return nil
}

// FindVertex performs a vertex lookup by id.
func (s *CockroachDBGraph) FindVertex(id graph.VertexID) (*graphstore.Vertex, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var (
		rawID int64
		v     = new(graphstore.Vertex)
	)

	err := s.db.QueryRowContext(ctx, findVertexQuery, int64(id)).Scan(&rawID, &v.Value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("find vertex: %w", graphstore.ErrNotFound)
		}

		return nil, fmt.Errorf("find vertex: %w", err)
	}
	v.ID = graph.VertexID(rawID)

	return v, nil
}

// Vertices returns an iterator for the set of vertices whose ids belong to
// the [fromID, toID] range.
func (s *CockroachDBGraph) Vertices(fromID, toID graph.VertexID) (graphstore.VertexIterator, error) {
	rows, err := s.db.Query(rangeVerticesQuery, int64(fromID), int64(toID))
	if err != nil {
		return nil, fmt.Errorf("vertices: %w", err)
	}

	return &vertexIterator{rows: rows}, nil
}

// UpsertEdge creates a new edge unless it already exists.
func (s *CockroachDBGraph) UpsertEdge(e *graphstore.Edge) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, upsertEdgeQuery, int64(e.Src), int64(e.Dest)); err != nil {
		if isForeignKeyViolationError(err) {
			err = graphstore.ErrUnknownEdgeVertices
		}

		return fmt.Errorf("upsert edge: %w", err)
	}

	return nil
}

// Edges returns an iterator for the set of edges whose source vertex ids
// belong to the [fromID, toID] range.
func (s *CockroachDBGraph) Edges(fromID, toID graph.VertexID) (graphstore.EdgeIterator, error) {
	rows, err := s.db.Query(rangeEdgesQuery, int64(fromID), int64(toID))
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}

	return &edgeIterator{rows: rows}, nil
}

// UpdateValue overwrites the value of an existing vertex.
func (s *CockroachDBGraph) UpdateValue(id graph.VertexID, value int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, updateValueQuery, int64(id), value)
	if err != nil {
		return fmt.Errorf("update value: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update value: %w", err)
	} else if n == 0 {
		return fmt.Errorf("update value: %w", graphstore.ErrNotFound)
	}

	return nil
}

// isForeignKeyViolationError returns true if error is a foreign key
// constraint violation error.
func isForeignKeyViolationError(err error) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}

	return pqErr.Code.Name() == "foreign_key_violation"
}
