/*
	partition package splits the global vertex id space into contiguous
	ranges and assigns vertices and edges to fragments (edge-cut).
*/

package partition

import (
	"errors"
	"math"
	"sort"

	"github.com/mycok/minigraph/graph"
)

var (
	// ErrInvalidRange is returned when the range start is greater than the
	// range end.
	ErrInvalidRange = errors.New("range start must not be greater than the range end")

	// ErrInvalidPartitionCount is returned when less than one partition is
	// requested or when the range is too small to be split.
	ErrInvalidPartitionCount = errors.New("number of partitions must be at least 1 and at most the range size")

	// ErrInvalidPartition is returned by PartitionRange for out of bounds
	// partition indices.
	ErrInvalidPartition = errors.New("invalid partition index")

	// ErrOutOfRange is returned by PartitionOf for ids outside the range.
	ErrOutOfRange = errors.New("vertex id is outside the partitioned range")
)

// Range represents a contiguous vertex id region [start, end] which is split
// into a number of partitions.
type Range struct {
	start graph.VertexID
	// Inclusive upper bound of each partition.
	rangeSplits []graph.VertexID
}

// NewFullRange creates a new range that uses the full vertex id space and
// splits it into the provided number of partitions.
func NewFullRange(numOfPartitions int) (Range, error) {
	return NewRange(numOfPartitions, 0, math.MaxUint32)
}

// NewRange creates a new range [start, end] and splits it into the provided
// number of partitions.
func NewRange(numOfPartitions int, start, end graph.VertexID) (Range, error) {
	if start > end {
		return Range{}, ErrInvalidRange
	}

	size := uint64(end) - uint64(start) + 1
	if numOfPartitions <= 0 || uint64(numOfPartitions) > size {
		return Range{}, ErrInvalidPartitionCount
	}

	// Each partition holds size / numOfPartitions ids, the last one also
	// absorbs the remainder.
	partitionSize := size / uint64(numOfPartitions)
	splits := make([]graph.VertexID, numOfPartitions)
	for p := 0; p < numOfPartitions; p++ {
		if p == numOfPartitions-1 {
			splits[p] = end

			continue
		}

		splits[p] = graph.VertexID(uint64(start) + partitionSize*uint64(p+1) - 1)
	}

	return Range{
		start:       start,
		rangeSplits: splits,
	}, nil
}

// NumOfPartitions returns the number of partitions in the range.
func (r Range) NumOfPartitions() int { return len(r.rangeSplits) }

// PartitionRange returns the inclusive [first, last] id range for the
// requested partition.
func (r Range) PartitionRange(partition int) (graph.VertexID, graph.VertexID, error) {
	if partition < 0 || partition >= len(r.rangeSplits) {
		return 0, 0, ErrInvalidPartition
	}

	if partition == 0 {
		return r.start, r.rangeSplits[0], nil
	}

	return r.rangeSplits[partition-1] + 1, r.rangeSplits[partition], nil
}

// PartitionOf returns the index of the partition that owns id.
func (r Range) PartitionOf(id graph.VertexID) (int, error) {
	if len(r.rangeSplits) == 0 || id < r.start || id > r.rangeSplits[len(r.rangeSplits)-1] {
		return -1, ErrOutOfRange
	}

	return sort.Search(len(r.rangeSplits), func(i int) bool {
		return r.rangeSplits[i] >= id
	}), nil
}
