package expreplay

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SelectorType determines how a Selector chooses data from a buffer
type SelectorType string

const (
	Uniform SelectorType = "Uniform"
	Fifo    SelectorType = "Fifo"
)

// Selector implements functionality for choosing how data should be
// sampled from an experience replay buffer
type Selector interface {
	// choose selects the indices at which data should be sampled from
	// the experience replay buffer
	choose(c orderedSampler) []int

	// BatchSize returns the number of elements that will be selected
	BatchSize() int
}

// CreateSelector returns a new Selector of type t selecting samples
// elements at a time
func CreateSelector(t SelectorType, samples int,
	rng *rand.Rand) (Selector, error) {
	if samples < 1 {
		return nil, fmt.Errorf("createSelector: batch size must be >= 1, "+
			"have %v", samples)
	}

	switch t {
	case Uniform:
		return NewUniformSelector(samples, rng), nil
	case Fifo:
		return NewFifoSelector(samples), nil
	default:
		return nil, fmt.Errorf("createSelector: unknown selector type %q", t)
	}
}

// uniformSelector is a Selector which selects data from an experience
// replay buffer uniformly randomly without replacement
type uniformSelector struct {
	samples int
	rng     *rand.Rand
}

// NewUniformSelector returns a new Selector which selects data uniformly
// randomly, without replacement, from an experience replay buffer
func NewUniformSelector(samples int, rng *rand.Rand) Selector {
	return &uniformSelector{samples: samples, rng: rng}
}

// BatchSize gets the number of samples in a batch drawn from the buffer
func (u *uniformSelector) BatchSize() int {
	return u.samples
}

// choose selects a number of distinct indices at which to draw data
// from the buffer
func (u *uniformSelector) choose(c orderedSampler) []int {
	from := c.sampleFrom()
	positions := make([]int, u.BatchSize())
	sampleuv.WithoutReplacement(positions, len(from), u.rng)

	selected := make([]int, len(positions))
	for i, pos := range positions {
		selected[i] = from[pos]
	}
	return selected
}

// fifoSelector is a Selector which selects the oldest data in an
// experience replay buffer
type fifoSelector struct {
	samples int
}

// NewFifoSelector returns a new Selector which draws data from an
// experience replay buffer in as FiFo.
func NewFifoSelector(samples int) Selector {
	return &fifoSelector{samples: samples}
}

// BatchSize gets the number of samples in a batch drawn from the buffer
func (f *fifoSelector) BatchSize() int {
	return f.samples
}

// choose selects a number of indices at which to draw data from the
// buffer
func (f *fifoSelector) choose(c orderedSampler) []int {
	return c.insertOrder(min(f.BatchSize(), c.Capacity()))
}
