// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/aquarl/utils/floatutils"
)

// Catalogue is a fixed, ordered list of continuous actions formed as the
// cross product of equally spaced grids over each action dimension. The
// first dimension varies slowest. For example, with bins [2, 3] the
// catalogue is ordered:
//
//	(a0, b0), (a0, b1), (a0, b2), (a1, b0), (a1, b1), (a1, b2)
//
// A Catalogue is immutable once created.
type Catalogue struct {
	grids   [][]float64
	strides []int
	length  int
}

// NewCatalogue returns a new Catalogue over the given bounds with
// bins[i] grid points along dimension i
func NewCatalogue(bounds []r1.Interval, bins []int) (*Catalogue, error) {
	if len(bounds) != len(bins) {
		return nil, fmt.Errorf("newCatalogue: have %v bounds but %v bins",
			len(bounds), len(bins))
	}
	if len(bins) == 0 {
		return nil, fmt.Errorf("newCatalogue: no action dimensions")
	}

	grids := make([][]float64, len(bins))
	for i, n := range bins {
		if n < 1 {
			return nil, fmt.Errorf("newCatalogue: dimension %v must have at "+
				"least one bin, have %v", i, n)
		}
		if bounds[i].Min > bounds[i].Max {
			return nil, fmt.Errorf("newCatalogue: dimension %v has inverted "+
				"bounds %v", i, bounds[i])
		}
		grids[i] = floatutils.Linspace(bounds[i].Min, bounds[i].Max, n)
	}

	strides := make([]int, len(bins))
	length := 1
	for i := len(bins) - 1; i >= 0; i-- {
		strides[i] = length
		length *= bins[i]
	}

	return &Catalogue{grids, strides, length}, nil
}

// Len returns the number of actions in the catalogue
func (c *Catalogue) Len() int {
	return c.length
}

// Dims returns the dimension of each action in the catalogue
func (c *Catalogue) Dims() int {
	return len(c.grids)
}

// Grid returns the grid points along dimension i. The returned slice
// must not be modified.
func (c *Catalogue) Grid(i int) []float64 {
	return c.grids[i]
}

// Action returns the continuous action at index i. Action panics if i
// is not a valid index.
func (c *Catalogue) Action(i int) *mat.VecDense {
	coords := c.Coordinates(i)
	action := make([]float64, len(coords))
	for dim, j := range coords {
		action[dim] = c.grids[dim][j]
	}
	return mat.NewVecDense(len(action), action)
}

// Coordinates returns the grid index along each dimension of the action
// at index i. Coordinates panics if i is not a valid index.
func (c *Catalogue) Coordinates(i int) []int {
	if i < 0 || i >= c.length {
		panic(fmt.Sprintf("coordinates: action index %v out of range "+
			"[0, %v)", i, c.length))
	}
	coords := make([]int, len(c.grids))
	for dim, stride := range c.strides {
		coords[dim] = i / stride
		i %= stride
	}
	return coords
}

// Index returns the index of the action with the given grid coordinates.
// Index panics if the coordinates are out of range.
func (c *Catalogue) Index(coords ...int) int {
	if len(coords) != len(c.grids) {
		panic(fmt.Sprintf("index: want %v coordinates, have %v",
			len(c.grids), len(coords)))
	}
	index := 0
	for dim, j := range coords {
		if j < 0 || j >= len(c.grids[dim]) {
			panic(fmt.Sprintf("index: coordinate %v out of range [0, %v) "+
				"along dimension %v", j, len(c.grids[dim]), dim))
		}
		index += j * c.strides[dim]
	}
	return index
}
