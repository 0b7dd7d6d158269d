/*
	aggregator package provides concurrent-safe counters used to collect
	per-round statistics from parallel reduction tasks.
*/

package aggregator

import "sync/atomic"

// Aggregator is implemented by types that provide concurrent-safe
// aggregation primitives.
type Aggregator interface {
	// Type returns the type of this aggregator.
	Type() string

	// Set the aggregator to the specified value.
	Set(val interface{})

	// Get the current aggregator value.
	Get() interface{}

	// Aggregate updates the aggregator's value based on the provided value.
	Aggregate(val interface{})

	// Delta returns the change in the aggregator's value since the last
	// call to Delta or Set.
	Delta() interface{}
}

// Static and compile-time check to ensure IntAccumulator implements
// the Aggregator interface.
var _ Aggregator = (*IntAccumulator)(nil)

// IntAccumulator implements a concurrent-safe accumulator for int values.
type IntAccumulator struct {
	prevSum int64
	currSum int64
}

// Type implements Aggregator.
func (a *IntAccumulator) Type() string { return "IntAccumulator" }

// Get returns the current value of the accumulator.
func (a *IntAccumulator) Get() interface{} {
	return int(atomic.LoadInt64(&a.currSum))
}

// Set the current value of the accumulator. The delta baseline is moved to
// the same value.
func (a *IntAccumulator) Set(val interface{}) {
	v64 := int64(val.(int))
	atomic.StoreInt64(&a.currSum, v64)
	atomic.StoreInt64(&a.prevSum, v64)
}

// Aggregate adds an int value to the accumulator.
func (a *IntAccumulator) Aggregate(val interface{}) {
	_ = atomic.AddInt64(&a.currSum, int64(val.(int)))
}

// Delta returns the delta change in the accumulator value since the last time
// it was invoked or the last time that Set was invoked.
func (a *IntAccumulator) Delta() interface{} {
	for {
		currSum := atomic.LoadInt64(&a.currSum)
		prevSum := atomic.LoadInt64(&a.prevSum)

		if atomic.CompareAndSwapInt64(&a.prevSum, prevSum, currSum) {
			return int(currSum - prevSum)
		}
	}
}
