/*
	border package implements the process-wide border-vertex table through
	which fragments exchange the payloads of vertices that sit on fragment
	boundaries.
*/

package border

import (
	"sort"
	"sync"

	"github.com/mycok/minigraph/graph"
)

// PartialResult maps the global ids of changed border vertices to their
// descriptors, as produced by one evaluation round of a fragment.
type PartialResult map[graph.VertexID]graph.VertexDescriptor

// Reconciler is implemented by algorithms to fold an incoming payload into
// an existing table entry. Implementations update existing in place and
// report whether it changed.
type Reconciler interface {
	Reconcile(existing, incoming graph.VertexDescriptor) bool
}

// ReconcilerFunc is an adapter to allow the use of ordinary functions as
// Reconcilers.
type ReconcilerFunc func(existing, incoming graph.VertexDescriptor) bool

// Reconcile calls f(existing, incoming).
func (f ReconcilerFunc) Reconcile(existing, incoming graph.VertexDescriptor) bool {
	return f(existing, incoming)
}

// Table maps global vertex ids to payloads shared by all fragments. The
// table owns independent copies of the descriptors it stores.
type Table struct {
	mu      sync.RWMutex
	entries map[graph.VertexID]graph.VertexDescriptor
}

// NewTable returns an empty border-vertex table.
func NewTable() *Table {
	return &Table{
		entries: make(map[graph.VertexID]graph.VertexDescriptor),
	}
}

// Aggregate folds a partial result into the table. Ids that are already
// present are passed to r together with the incoming descriptor; new ids
// are inserted as clones. Aggregate returns false if partial is empty.
// Calls are serialized.
func (t *Table) Aggregate(partial PartialResult, r Reconciler) bool {
	if len(partial) == 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for id, incoming := range partial {
		if existing, found := t.entries[id]; found {
			_ = r.Reconcile(existing, incoming)
			continue
		}

		t.entries[id] = incoming.Clone()
	}

	return true
}

// Lookup returns a copy of the entry for id.
func (t *Table) Lookup(id graph.VertexID) (graph.VertexDescriptor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, found := t.entries[id]
	if !found {
		return graph.VertexDescriptor{}, false
	}

	return v.Clone(), true
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}

// Snapshot returns the current payload of every entry.
func (t *Table) Snapshot() map[graph.VertexID]int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make(map[graph.VertexID]int64, len(t.entries))
	for id, v := range t.entries {
		snapshot[id] = v.Value()
	}

	return snapshot
}

// Range invokes fn with a copy of every entry in ascending id order until
// fn returns false. The table is not locked while fn runs.
func (t *Table) Range(fn func(v graph.VertexDescriptor) bool) {
	t.mu.RLock()
	entries := make([]graph.VertexDescriptor, 0, len(t.entries))
	for _, v := range t.entries {
		entries = append(entries, v.Clone())
	}
	t.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].GlobalID < entries[j].GlobalID })
	for _, v := range entries {
		if !fn(v) {
			return
		}
	}
}

// Reset removes all entries.
func (t *Table) Reset() {
	t.mu.Lock()
	t.entries = make(map[graph.VertexID]graph.VertexDescriptor)
	t.mu.Unlock()
}
