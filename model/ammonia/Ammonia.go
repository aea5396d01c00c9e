// Package ammonia implements the un-ionized ammonia (UIA) model of a
// tank. Nitrogen excreted from feed is converted to total ammonia
// nitrogen, partitioned by temperature into its un-ionized form, and
// accumulated with exponential decay.
package ammonia

import (
	"math"

	"github.com/samuelfneumann/aquarl/config"
	"github.com/samuelfneumann/aquarl/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
)

// Kelvin is the offset from degrees Celsius to Kelvin
const Kelvin float64 = 273.15

// Model accumulates un-ionized ammonia in a tank of fixed volume
type Model struct {
	params config.AmmoniaConfig
	volume float64 // litres
	bounds r1.Interval
	level  float64
}

// New returns a new ammonia model with its accumulator at the
// configured initial level
func New(cfg *config.Config) *Model {
	return &Model{
		params: cfg.Ammonia,
		volume: cfg.Costs.Common.Volume,
		bounds: r1.Interval{Min: cfg.Ammonia.Min, Max: cfg.Ammonia.Max},
		level:  cfg.Ammonia.Initial,
	}
}

// Fraction returns the un-ionized fraction of total ammonia nitrogen
// at temperature t in degrees Celsius
func (m *Model) Fraction(t float64) float64 {
	pKa := 0.09018 + 2729.92/(t+Kelvin)
	return 1 / (1 + math.Pow(10, pKa-m.params.PH))
}

// Produced returns the UIA concentration (mg/L) produced by feeding
// feedGrams of feed at temperature t
func (m *Model) Produced(feedGrams, t float64) float64 {
	p := m.params
	saturated := feedGrams / (1 + p.Saturation*feedGrams)
	nitrogenMg := saturated * p.ProteinFraction * p.NitrogenFraction *
		p.ExcretedFraction * 1000

	tan := nitrogenMg / m.volume
	return tan * m.Fraction(t)
}

// Update decays the accumulated UIA, adds the UIA produced by today's
// feed, and returns the accumulated level clipped to the valid range.
// The accumulator itself is not clipped.
func (m *Model) Update(feedGrams, t float64) float64 {
	m.level = m.level*(1-m.params.DecayRate) + m.Produced(feedGrams, t)
	return m.Level()
}

// Level returns the accumulated UIA clipped to the valid range
func (m *Model) Level() float64 {
	return floatutils.ClipInterval(m.level, m.bounds)
}
