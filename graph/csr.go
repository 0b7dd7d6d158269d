package graph

import "fmt"

// Static and compile-time check to ensure CSR implements the Fragment
// interface.
var _ Fragment = (*CSR)(nil)

// CSR is an immutable fragment that stores adjacency in compressed sparse
// row form. All per-vertex data lives in contiguous slices indexed by local
// id so a fragment owns exactly one arena.
type CSR struct {
	id FragmentID

	globalIDs  []VertexID
	localIDs   map[VertexID]LocalID
	payloads   []int64
	border     []bool
	inOffsets  []int
	inEdges    []VertexID
	outOffsets []int
	outEdges   []VertexID
}

// ID returns the fragment identifier.
func (g *CSR) ID() FragmentID { return g.id }

// NumVertices returns the number of vertices owned by the fragment.
func (g *CSR) NumVertices() int { return len(g.globalIDs) }

// NumEdges returns the number of outgoing edges stored in the fragment.
func (g *CSR) NumEdges() int { return len(g.outEdges) }

// VertexByLocalID returns the descriptor for the vertex with the specified
// local id. It panics if id is out of range.
func (g *CSR) VertexByLocalID(id LocalID) VertexDescriptor {
	return VertexDescriptor{
		ID:       id,
		GlobalID: g.globalIDs[id],
		In:       g.inEdges[g.inOffsets[id]:g.inOffsets[id+1]:g.inOffsets[id+1]],
		Out:      g.outEdges[g.outOffsets[id]:g.outOffsets[id+1]:g.outOffsets[id+1]],
		payload:  &g.payloads[id],
	}
}

// VertexByIndex returns the descriptor for the i-th vertex.
func (g *CSR) VertexByIndex(i int) VertexDescriptor { return g.VertexByLocalID(LocalID(i)) }

// GlobalToLocal resolves a global id to a local one or returns NotFound.
func (g *CSR) GlobalToLocal(id VertexID) LocalID {
	if local, exists := g.localIDs[id]; exists {
		return local
	}

	return NotFound
}

// LocalToGlobal resolves a local id to its global id.
func (g *CSR) LocalToGlobal(id LocalID) VertexID { return g.globalIDs[id] }

// IsBorder reports whether the vertex has an edge crossing the fragment
// boundary.
func (g *CSR) IsBorder(id LocalID) bool { return g.border[id] }

// NumBorderVertices returns the number of border vertices in the fragment.
func (g *CSR) NumBorderVertices() int {
	var n int
	for _, b := range g.border {
		if b {
			n++
		}
	}

	return n
}

// Payloads invokes visitFn with the global id and current payload of every
// vertex in local id order. Iteration stops at the first error.
func (g *CSR) Payloads(visitFn func(id VertexID, value int64) error) error {
	for i := range g.globalIDs {
		if err := visitFn(g.globalIDs[i], g.VertexByIndex(i).Value()); err != nil {
			return err
		}
	}

	return nil
}

// String implements fmt.Stringer.
func (g *CSR) String() string {
	return fmt.Sprintf("fragment(%d){vertices: %d, edges: %d}", g.id, g.NumVertices(), g.NumEdges())
}

// AsFragments converts a slice of CSR fragments to the Fragment interface.
func AsFragments(csrs []*CSR) []Fragment {
	frags := make([]Fragment, len(csrs))
	for i, g := range csrs {
		frags[i] = g
	}

	return frags
}
