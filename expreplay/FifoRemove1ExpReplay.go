package expreplay

import (
	"fmt"

	ts "github.com/samuelfneumann/aquarl/timestep"
)

// fifoRemove1Cache implements a concrete ExperienceReplayer where
// elements are removed from the buffer in a FiFo manner, and only a
// single element is removed from the cache at a time. The cache is a
// ring: once full, each Add overwrites the oldest transition.
type fifoRemove1Cache struct {
	transitions []ts.Transition

	indices         []int
	currentInUsePos int
	isFull          bool

	// Outlines how data is sampled
	sampler Selector

	minCapacity int
	maxCapacity int
}

// newFifoRemove1Cache returns a new fifoRemove1Cache. The sampler
// parameter is a Selector which determines how data is sampled
// from the replay buffer.
// The minCapacity parameter determines the minimum number of samples
// that should be in the buffer before sampling is allowed.
// The maxCapacity parameter determines the maximum number of samples
// allowed in the buffer at any given time.
func newFifoRemove1Cache(sampler Selector, minCapacity,
	maxCapacity int) *fifoRemove1Cache {
	indices := make([]int, maxCapacity)
	for i := 0; i < maxCapacity; i++ {
		indices[i] = i
	}

	return &fifoRemove1Cache{
		transitions: make([]ts.Transition, maxCapacity),

		indices:         indices,
		currentInUsePos: 0,
		isFull:          false,

		sampler: sampler,

		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
	}
}

// String returns the string representation of the fifoRemove1Cache
func (c *fifoRemove1Cache) String() string {
	return fmt.Sprintf("FifoRemove1Cache | Capacity: %v/%v  |  "+
		"Batch Size: %v", c.Capacity(), c.MaxCapacity(), c.BatchSize())
}

// BatchSize returns the number of samples sampled using Sample() -
// a.k.a the batch size
func (c *fifoRemove1Cache) BatchSize() int {
	return c.sampler.BatchSize()
}

// insertOrder returns the first n indices in the order they were
// inserted into the buffer, oldest first
func (c *fifoRemove1Cache) insertOrder(n int) []int {
	if !c.isFull {
		return c.indices[:min(n, c.currentInUsePos)]
	}

	// The oldest transition sits at the next write position
	ordered := make([]int, c.MaxCapacity())
	copy(ordered, c.indices[c.currentInUsePos:])
	copy(ordered[c.MaxCapacity()-c.currentInUsePos:],
		c.indices[:c.currentInUsePos])

	return ordered[:min(n, len(ordered))]
}

// sampleFrom returns the slice of indices to sample from
func (c *fifoRemove1Cache) sampleFrom() []int {
	if !c.isFull {
		return c.indices[:c.currentInUsePos]
	}
	return c.indices
}

// Sample samples and returns a batch of transitions from the replay
// buffer
func (c *fifoRemove1Cache) Sample() ([]ts.Transition, error) {
	if c.Capacity() == 0 {
		err := &ExpReplayError{
			Op:  "sample",
			Err: errEmptyCache,
		}
		return nil, err
	}
	if c.Capacity() < c.MinCapacity() {
		err := &ExpReplayError{
			Op:  "sample",
			Err: errInsufficientSamples,
		}
		return nil, err
	}

	indices := c.sampler.choose(c)
	batch := make([]ts.Transition, len(indices))
	for i, index := range indices {
		batch[i] = c.transitions[index]
	}
	return batch, nil
}

// Capacity returns the current number of elements in the fifoRemove1Cache that
// are available for sampling
func (c *fifoRemove1Cache) Capacity() int {
	if c.isFull {
		return c.MaxCapacity()
	}
	return c.currentInUsePos
}

// MaxCapacity returns the maximum number of elements that are allowed
// in the fifoRemove1Cache
func (c *fifoRemove1Cache) MaxCapacity() int {
	return c.maxCapacity
}

// MinCapacity returns the minimum number of elements required in the
// fifoRemove1Cache before sampling is allowed
func (c *fifoRemove1Cache) MinCapacity() int {
	return c.minCapacity
}

// Add adds a transition to the fifoRemove1Cache, evicting the oldest
// transition if the cache is full
func (c *fifoRemove1Cache) Add(t ts.Transition) error {
	index := c.currentInUsePos
	if !c.isFull && index+1 == c.MaxCapacity() {
		c.isFull = true
	}

	c.transitions[index] = t
	c.currentInUsePos = (c.currentInUsePos + 1) % c.MaxCapacity()
	return nil
}
