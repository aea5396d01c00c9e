// Package cost implements the economic model of a tank: the value of
// biomass gained and the costs of feed, heating, and oxygenation.
package cost

import (
	"fmt"

	"github.com/samuelfneumann/aquarl/config"
)

// Model computes regional economic terms
type Model struct {
	prices config.Prices
	common config.CommonCosts
	reward config.RewardConfig
	region string
}

// Inputs are the quantities of a single day that the reward depends on
type Inputs struct {
	PrevBiomass float64 // grams
	Biomass     float64 // grams
	FeedMass    float64 // grams
	HeatedDelta float64 // degrees Celsius the heater had to supply
	Oxygen      float64 // dissolved oxygen, mg/L
}

// Breakdown holds the weighted terms of a daily reward
type Breakdown struct {
	FishValue   float64
	FeedCost    float64
	HeatCost    float64
	Oxygenation float64
	Reward      float64
}

// New returns a new cost model for the named region
func New(cfg *config.Config, region string) (*Model, error) {
	r, err := cfg.Region(region)
	if err != nil {
		return nil, fmt.Errorf("new cost model: %w", err)
	}
	return &Model{
		prices: r.Prices,
		common: cfg.Costs.Common,
		reward: cfg.Reward,
		region: region,
	}, nil
}

// Region returns the region the model prices
func (m *Model) Region() string {
	return m.region
}

// Prices returns the regional prices
func (m *Model) Prices() config.Prices {
	return m.prices
}

// FishValueGain returns the value of biomass gained between two days.
// Biomass is given in kilograms.
func (m *Model) FishValueGain(prevKg, currKg float64) float64 {
	return m.reward.ValueScale * (currKg - prevKg) * m.prices.Selling
}

// FeedCost returns the cost of feedKg kilograms of feed
func (m *Model) FeedCost(feedKg float64) float64 {
	return m.reward.FeedScale * m.prices.Feed * feedKg
}

// HeatCost returns the cost of heating the tank by deltaT degrees
func (m *Model) HeatCost(deltaT float64) float64 {
	c := m.common
	return m.prices.Electricity * c.SpecificHeat * c.Volume * c.WaterMass *
		deltaT / 3600
}

// OxygenationCost returns the cost of holding dissolved oxygen at do
// for a day
func (m *Model) OxygenationCost(do float64) float64 {
	return 24 * m.prices.Electricity * m.common.MaxPower * do
}

// Evaluate returns the weighted economic terms and the net reward of
// a single day
func (m *Model) Evaluate(in Inputs) Breakdown {
	w := m.reward.Weights

	b := Breakdown{
		FishValue:   m.FishValueGain(in.PrevBiomass/1000, in.Biomass/1000) * w.ValueGain,
		FeedCost:    m.FeedCost(in.FeedMass/1000) * w.Feed,
		HeatCost:    m.HeatCost(in.HeatedDelta) * w.Heat,
		Oxygenation: m.OxygenationCost(in.Oxygen) * w.Oxygenation,
	}
	b.Reward = b.FishValue - b.FeedCost - b.HeatCost - b.Oxygenation
	return b
}
