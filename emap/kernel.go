package emap

import "github.com/mycok/minigraph/graph"

// EdgeKernel is implemented by algorithms that propagate values along
// edges. C decides whether the edge u->v should be processed and F applies
// the update to v, reporting whether v changed.
type EdgeKernel interface {
	C(u, v graph.VertexDescriptor) bool
	F(u, v graph.VertexDescriptor) bool
}

// VertexKernel is implemented by algorithms that update single vertices,
// e.g. to seed an evaluation before propagation starts.
type VertexKernel interface {
	C(u graph.VertexDescriptor) bool
	F(u graph.VertexDescriptor) bool
}

// EdgeKernelFuncs adapts a pair of ordinary functions to an EdgeKernel. A
// nil Cond always holds.
type EdgeKernelFuncs struct {
	Cond   func(u, v graph.VertexDescriptor) bool
	Update func(u, v graph.VertexDescriptor) bool
}

// C implements EdgeKernel.
func (k EdgeKernelFuncs) C(u, v graph.VertexDescriptor) bool {
	if k.Cond == nil {
		return true
	}

	return k.Cond(u, v)
}

// F implements EdgeKernel.
func (k EdgeKernelFuncs) F(u, v graph.VertexDescriptor) bool { return k.Update(u, v) }

// VertexKernelFuncs adapts a pair of ordinary functions to a VertexKernel.
// A nil Cond always holds.
type VertexKernelFuncs struct {
	Cond   func(u graph.VertexDescriptor) bool
	Update func(u graph.VertexDescriptor) bool
}

// C implements VertexKernel.
func (k VertexKernelFuncs) C(u graph.VertexDescriptor) bool {
	if k.Cond == nil {
		return true
	}

	return k.Cond(u)
}

// F implements VertexKernel.
func (k VertexKernelFuncs) F(u graph.VertexDescriptor) bool { return k.Update(u) }
