// Package tabular implements the tables used by tabular agents: a
// discretizer from continuous observations to packed integer states, a
// table of action values, and a model of observed transitions.
package tabular

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/aquarl/utils/floatutils"
)

const (
	// Bits of a packed State used by each observation dimension
	BitsPerDim = 8

	// MaxDims is the maximum number of observation dimensions a State
	// can hold
	MaxDims = 64 / BitsPerDim

	maxBin = 1<<BitsPerDim - 1
)

// State is a discretized observation packed into an integer, with the
// bin index of observation dimension i held in bits
// [BitsPerDim*i, BitsPerDim*(i+1)). Two observations are in the same
// State exactly when each of their dimensions falls in the same bin.
type State uint64

// Pack returns the State with the given bin indices
func Pack(bins []int) State {
	if len(bins) > MaxDims {
		panic(fmt.Sprintf("pack: at most %v dimensions, have %v", MaxDims,
			len(bins)))
	}
	var s State
	for i, b := range bins {
		if b < 0 || b > maxBin {
			panic(fmt.Sprintf("pack: bin %v out of range [0, %v]", b,
				maxBin))
		}
		s |= State(b) << (BitsPerDim * i)
	}
	return s
}

// Unpack returns the bin indices of the first dims dimensions of s
func (s State) Unpack(dims int) []int {
	bins := make([]int, dims)
	for i := range bins {
		bins[i] = int(s>>(BitsPerDim*i)) & maxBin
	}
	return bins
}

// Discretizer maps observations in a bounded box to States. Each
// dimension is split by equally spaced edges, and the bin of a value is
// the number of edges less than or equal to it. With n edges a
// dimension therefore has n+1 bins, numbered 0 through n, where bin 0
// holds values below the lowest edge and bin n values at or above the
// highest.
type Discretizer struct {
	edges [][]float64
}

// NewDiscretizer returns a Discretizer of observations bounded by low
// and high with edges equally spaced edges per dimension
func NewDiscretizer(low, high []float64, edges int) (*Discretizer, error) {
	if len(low) != len(high) {
		return nil, fmt.Errorf("newDiscretizer: have %v lower bounds but %v "+
			"upper bounds", len(low), len(high))
	}
	if len(low) > MaxDims {
		return nil, fmt.Errorf("newDiscretizer: at most %v dimensions, "+
			"have %v", MaxDims, len(low))
	}
	if edges < 1 || edges > maxBin {
		return nil, fmt.Errorf("newDiscretizer: edges must be in [1, %v], "+
			"have %v", maxBin, edges)
	}

	e := make([][]float64, len(low))
	for i := range low {
		if low[i] > high[i] {
			return nil, fmt.Errorf("newDiscretizer: dimension %v has "+
				"inverted bounds [%v, %v]", i, low[i], high[i])
		}
		e[i] = floatutils.Linspace(low[i], high[i], edges)
	}
	return &Discretizer{e}, nil
}

// Dims returns the number of observation dimensions
func (d *Discretizer) Dims() int {
	return len(d.edges)
}

// Bins returns the bin index of each dimension of obs
func (d *Discretizer) Bins(obs mat.Vector) []int {
	if obs.Len() != len(d.edges) {
		panic(fmt.Sprintf("bins: observation must have %v dimensions, "+
			"have %v", len(d.edges), obs.Len()))
	}
	bins := make([]int, len(d.edges))
	for i, edges := range d.edges {
		bins[i] = floatutils.Digitize(obs.AtVec(i), edges)
	}
	return bins
}

// Discretize returns the State of obs
func (d *Discretizer) Discretize(obs mat.Vector) State {
	return Pack(d.Bins(obs))
}
