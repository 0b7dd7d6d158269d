package emap

import (
	"math/bits"
	"sync/atomic"

	"github.com/mycok/minigraph/graph"
)

// Visited records which local vertices changed during an evaluation. Marks
// are set atomically so concurrent reduction tasks may share one instance.
type Visited struct {
	n     int
	words []uint32
}

// NewVisited returns an empty Visited sized to n local vertices.
func NewVisited(n int) *Visited {
	return &Visited{
		n:     n,
		words: make([]uint32, (n+31)/32),
	}
}

// Len returns the number of vertices the marks cover.
func (v *Visited) Len() int { return v.n }

// Mark marks id and reports whether it was previously unmarked. It panics
// if id is out of range.
func (v *Visited) Mark(id graph.LocalID) bool {
	if int(id) >= v.n {
		panic("visited: local id out of range")
	}

	word, bit := &v.words[id/32], uint32(1)<<(id%32)
	for {
		old := atomic.LoadUint32(word)
		if old&bit != 0 {
			return false
		}

		if atomic.CompareAndSwapUint32(word, old, old|bit) {
			return true
		}
	}
}

// IsMarked returns true if id has been marked.
func (v *Visited) IsMarked(id graph.LocalID) bool {
	if int(id) >= v.n {
		return false
	}

	return atomic.LoadUint32(&v.words[id/32])&(uint32(1)<<(id%32)) != 0
}

// Count returns the number of marked vertices.
func (v *Visited) Count() int {
	var n int
	for i := range v.words {
		n += bits.OnesCount32(atomic.LoadUint32(&v.words[i]))
	}

	return n
}

// Each invokes fn for every marked vertex in ascending local id order.
func (v *Visited) Each(fn func(id graph.LocalID)) {
	for i := 0; i < v.n; i++ {
		if v.IsMarked(graph.LocalID(i)) {
			fn(graph.LocalID(i))
		}
	}
}
