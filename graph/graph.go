/*
	graph package defines the partition-local view of a graph that the
	evaluation engine computes over: vertex descriptors, the read-only
	Fragment interface and an arena-backed CSR fragment implementation.
*/

package graph

import (
	"math"
	"sync/atomic"
)

// VertexID is a global vertex identifier, unique across all fragments.
type VertexID uint32

// LocalID is a fragment-local vertex identifier in the range
// [0, NumVertices).
type LocalID uint32

// FragmentID identifies a fragment (gid).
type FragmentID uint32

// NotFound is returned by GlobalToLocal when a global id is not resident in
// the fragment.
const NotFound LocalID = math.MaxUint32

// Fragment is implemented by partition-local graph views. Fragments are
// structurally immutable once built; only vertex payloads change during
// evaluation.
type Fragment interface {
	// ID returns the fragment identifier.
	ID() FragmentID

	// NumVertices returns the number of vertices owned by the fragment.
	NumVertices() int

	// VertexByLocalID returns the descriptor of the vertex with the
	// provided local id.
	VertexByLocalID(id LocalID) VertexDescriptor

	// VertexByIndex returns the descriptor of the i-th local vertex.
	VertexByIndex(i int) VertexDescriptor

	// GlobalToLocal resolves a global id to a local one. It returns
	// NotFound if the vertex is owned by another fragment.
	GlobalToLocal(id VertexID) LocalID

	// LocalToGlobal resolves a local id to its global id.
	LocalToGlobal(id LocalID) VertexID

	// IsBorder returns true if the vertex has at least one edge that
	// crosses the fragment boundary.
	IsBorder(id LocalID) bool
}

// VertexDescriptor is a lightweight handle to a vertex. Copies of a
// descriptor share the same payload slot; use Clone to obtain a descriptor
// that owns an independent copy of the payload.
type VertexDescriptor struct {
	ID       LocalID
	GlobalID VertexID
	In       []VertexID
	Out      []VertexID

	payload *int64
}

// NewVertexDescriptor returns a detached descriptor that owns its payload.
// Detached descriptors are used for vertices that are not resident in a
// fragment, e.g. entries of the border-vertex table.
func NewVertexDescriptor(id VertexID, value int64, in, out []VertexID) VertexDescriptor {
	v := value

	return VertexDescriptor{
		ID:       NotFound,
		GlobalID: id,
		In:       in,
		Out:      out,
		payload:  &v,
	}
}

// Value returns the vertex payload.
func (v VertexDescriptor) Value() int64 { return atomic.LoadInt64(v.payload) }

// SetValue overwrites the vertex payload.
func (v VertexDescriptor) SetValue(val int64) { atomic.StoreInt64(v.payload, val) }

// CompareAndSetValue replaces the payload with val only if it still equals
// old.
func (v VertexDescriptor) CompareAndSetValue(old, val int64) bool {
	return atomic.CompareAndSwapInt64(v.payload, old, val)
}

// Valid returns false for the zero descriptor.
func (v VertexDescriptor) Valid() bool { return v.payload != nil }

// InDegree returns the number of incoming edges.
func (v VertexDescriptor) InDegree() int { return len(v.In) }

// OutDegree returns the number of outgoing edges.
func (v VertexDescriptor) OutDegree() int { return len(v.Out) }

// Clone returns a copy of the descriptor that owns an independent payload.
// Adjacency slices are shared since fragments never mutate them.
func (v VertexDescriptor) Clone() VertexDescriptor {
	c := v
	val := v.Value()
	c.payload = &val

	return c
}
