// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// ClipSlice clips each value in dst to within the intervals at the
// same index and returns dst
func ClipSlice(dst []float64, intervals []r1.Interval) []float64 {
	if len(dst) != len(intervals) {
		panic("clipSlice: slice lengths do not match")
	}
	for i := range dst {
		dst[i] = ClipInterval(dst[i], intervals[i])
	}
	return dst
}

// Linspace returns n equally spaced values over [min, max]. If n is 1,
// the returned slice contains only min.
func Linspace(min, max float64, n int) []float64 {
	if n < 1 {
		panic("linspace: n must be positive")
	}
	if n == 1 {
		return []float64{min}
	}
	return floats.Span(make([]float64, n), min, max)
}

// Digitize returns the index of the bin that value falls into given
// increasing bin edges. The returned index is the number of edges
// less than or equal to value, so values below the first edge return
// 0 and values at or above the last edge return len(edges).
func Digitize(value float64, edges []float64) int {
	return sort.Search(len(edges), func(i int) bool {
		return edges[i] > value
	})
}

// Min calculates and returns the minimum float64 in a list
func Min(floats ...float64) float64 {
	min := floats[0]
	for _, val := range floats {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum float64 in a list
func Max(floats ...float64) float64 {
	max := floats[0]
	for _, val := range floats {
		if val > max {
			max = val
		}
	}
	return max
}
