package graph

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type halfEdge struct {
	local  VertexID
	remote VertexID
}

// Builder collects the vertices and edges of a single fragment and
// materializes them into a CSR. A Builder is not safe for concurrent use.
type Builder struct {
	id       FragmentID
	vertices []VertexID
	values   []int64
	index    map[VertexID]int
	dups     []VertexID
	in       []halfEdge
	out      []halfEdge
}

// NewBuilder returns a Builder for the fragment with the specified id.
func NewBuilder(id FragmentID) *Builder {
	return &Builder{
		id:    id,
		index: make(map[VertexID]int),
	}
}

// AddVertex adds a vertex with an initial payload. Local ids are assigned in
// insertion order.
func (b *Builder) AddVertex(id VertexID, initValue int64) {
	if _, exists := b.index[id]; exists {
		b.dups = append(b.dups, id)

		return
	}

	b.index[id] = len(b.vertices)
	b.vertices = append(b.vertices, id)
	b.values = append(b.values, initValue)
}

// HasVertex returns true if the vertex has been added to the builder.
func (b *Builder) HasVertex(id VertexID) bool {
	_, exists := b.index[id]

	return exists
}

// AddOutEdge records an outgoing edge of the local vertex src.
func (b *Builder) AddOutEdge(src, dest VertexID) {
	b.out = append(b.out, halfEdge{local: src, remote: dest})
}

// AddInEdge records an incoming edge of the local vertex dest.
func (b *Builder) AddInEdge(dest, src VertexID) {
	b.in = append(b.in, halfEdge{local: dest, remote: src})
}

// AddEdge records the directed edge src->dest on whichever endpoints are
// local to the fragment. Endpoints must be added before their edges.
func (b *Builder) AddEdge(src, dest VertexID) error {
	srcLocal, destLocal := b.HasVertex(src), b.HasVertex(dest)
	if !srcLocal && !destLocal {
		return fmt.Errorf("add edge %d->%d: %w", src, dest, ErrNoLocalEndpoint)
	}

	if srcLocal {
		b.AddOutEdge(src, dest)
	}

	if destLocal {
		b.AddInEdge(dest, src)
	}

	return nil
}

// AddUndirectedEdge records both src->dest and dest->src.
func (b *Builder) AddUndirectedEdge(src, dest VertexID) error {
	if err := b.AddEdge(src, dest); err != nil {
		return err
	}

	return b.AddEdge(dest, src)
}

// Build validates the collected data and returns the fragment.
func (b *Builder) Build() (*CSR, error) {
	var err error
	for _, id := range b.dups {
		err = multierror.Append(err, fmt.Errorf("vertex %d: %w", id, ErrDuplicateVertex))
	}

	for _, e := range b.out {
		if !b.HasVertex(e.local) {
			err = multierror.Append(err, fmt.Errorf("out-edge %d->%d: %w", e.local, e.remote, ErrUnknownVertex))
		}
	}

	for _, e := range b.in {
		if !b.HasVertex(e.local) {
			err = multierror.Append(err, fmt.Errorf("in-edge %d->%d: %w", e.remote, e.local, ErrUnknownVertex))
		}
	}

	if err != nil {
		return nil, fmt.Errorf("build fragment %d: %w", b.id, err)
	}

	n := len(b.vertices)
	g := &CSR{
		id:        b.id,
		globalIDs: append([]VertexID(nil), b.vertices...),
		localIDs:  make(map[VertexID]LocalID, n),
		payloads:  append([]int64(nil), b.values...),
		border:    make([]bool, n),
	}

	for i, id := range g.globalIDs {
		g.localIDs[id] = LocalID(i)
	}

	g.inOffsets, g.inEdges = b.compress(b.in)
	g.outOffsets, g.outEdges = b.compress(b.out)

	for i := 0; i < n; i++ {
		for _, nbr := range g.inEdges[g.inOffsets[i]:g.inOffsets[i+1]] {
			if _, local := g.localIDs[nbr]; !local {
				g.border[i] = true
			}
		}

		for _, nbr := range g.outEdges[g.outOffsets[i]:g.outOffsets[i+1]] {
			if _, local := g.localIDs[nbr]; !local {
				g.border[i] = true
			}
		}
	}

	return g, nil
}

// compress turns a list of half edges into CSR offsets and a flat adjacency
// slice. Edges keep their insertion order within a vertex.
func (b *Builder) compress(edges []halfEdge) ([]int, []VertexID) {
	offsets := make([]int, len(b.vertices)+1)
	for _, e := range edges {
		offsets[b.index[e.local]+1]++
	}

	for i := 1; i < len(offsets); i++ {
		offsets[i] += offsets[i-1]
	}

	flat := make([]VertexID, len(edges))
	cursor := append([]int(nil), offsets[:len(b.vertices)]...)
	for _, e := range edges {
		pos := b.index[e.local]
		flat[cursor[pos]] = e.remote
		cursor[pos]++
	}

	return offsets, flat
}
