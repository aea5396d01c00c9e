// Package calc implements production indicators of a grow-out cycle:
// feed conversion, growth rate, profitability, and energy efficiency.
//
// Indicators that are undefined for their inputs return false as their
// second value.
package calc

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FeedWeight returns the feed given at feeding rate rate to biomass
// weight
func FeedWeight(rate, weight float64) float64 {
	return rate * weight * 0.1
}

// FCR returns the feed conversion ratio: feed given per unit of weight
// gained. It is undefined when no weight was gained.
func FCR(feed, finalWeight, initialWeight float64) (float64, bool) {
	gain := finalWeight - initialWeight
	if gain <= 0 {
		return 0, false
	}
	return feed / gain, true
}

// SGR returns the specific growth rate, the mean daily percentage
// increase in weight over days. It is undefined for non-positive
// weights.
func SGR(initialWeight, finalWeight float64, days int) (float64, bool) {
	if initialWeight <= 0 || finalWeight <= 0 || days <= 0 {
		return 0, false
	}
	return (math.Log(finalWeight) - math.Log(initialWeight)) /
		float64(days) * 100, true
}

// ProfitMargin returns the total profit as a percentage of the total
// revenue, given the per-period revenue and cost. It is undefined when
// the slices differ in length or there is no revenue.
func ProfitMargin(revenue, cost []float64) (float64, bool) {
	if len(revenue) != len(cost) {
		return 0, false
	}

	total := floats.Sum(revenue)
	if total == 0 {
		return 0, false
	}
	profit := total - floats.Sum(cost)
	return profit / total * 100, true
}

// EnergyEfficiency returns the value gained per unit of electricity
// spent on heating and oxygenation. It is undefined when no electricity
// was spent.
func EnergyEfficiency(valueGain, heatCost, oxygenationCost float64) (float64,
	bool) {
	electricity := heatCost + oxygenationCost
	if electricity == 0 {
		return 0, false
	}
	return valueGain / electricity, true
}
