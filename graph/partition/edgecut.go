package partition

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/mycok/minigraph/graph"
)

// EdgeCut assigns each vertex to the fragment owning its id range. Inner
// vertices of a fragment are the ones assigned to it; an edge (u, v) is
// stored as an out-edge of u in frag(u) and as an in-edge of v in frag(v),
// so fragments only ever hold adjacency for their own vertices.
//
// For example, with V = {0..4}, two fragments over [0, 4] and
// E = {(0,2), (0,3), (1,0), (3,1), (3,4), (4,1), (4,2)}, F0 owns {0, 1}
// and F1 owns {2, 3, 4}; (0,3) is an out-edge in F0 and an in-edge in F1.
type EdgeCut struct {
	r        Range
	builders []*graph.Builder
	err      error
}

// NewEdgeCut returns a partitioner that splits vertices according to r.
func NewEdgeCut(r Range) *EdgeCut {
	builders := make([]*graph.Builder, r.NumOfPartitions())
	for i := range builders {
		builders[i] = graph.NewBuilder(graph.FragmentID(i))
	}

	return &EdgeCut{r: r, builders: builders}
}

// AddVertex assigns a vertex to its fragment.
func (p *EdgeCut) AddVertex(id graph.VertexID, initValue int64) {
	frag, err := p.r.PartitionOf(id)
	if err != nil {
		p.err = multierror.Append(p.err, fmt.Errorf("vertex %d: %w", id, err))

		return
	}

	p.builders[frag].AddVertex(id, initValue)
}

// AddEdge records a directed edge. Unknown endpoints are reported by
// Fragments.
func (p *EdgeCut) AddEdge(src, dest graph.VertexID) {
	srcFrag, err := p.r.PartitionOf(src)
	if err != nil {
		p.err = multierror.Append(p.err, fmt.Errorf("edge %d->%d: %w", src, dest, err))

		return
	}

	destFrag, err := p.r.PartitionOf(dest)
	if err != nil {
		p.err = multierror.Append(p.err, fmt.Errorf("edge %d->%d: %w", src, dest, err))

		return
	}

	p.builders[srcFrag].AddOutEdge(src, dest)
	p.builders[destFrag].AddInEdge(dest, src)
}

// Fragments builds and returns the fragments, indexed by fragment id.
func (p *EdgeCut) Fragments() ([]*graph.CSR, error) {
	err := p.err
	frags := make([]*graph.CSR, len(p.builders))

	for i, b := range p.builders {
		g, buildErr := b.Build()
		if buildErr != nil {
			err = multierror.Append(err, buildErr)

			continue
		}

		frags[i] = g
	}

	if err != nil {
		return nil, fmt.Errorf("edge-cut partitioning failed: %w", err)
	}

	return frags, nil
}
