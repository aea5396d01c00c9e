package aquaculture

import (
	"github.com/samuelfneumann/aquarl/environment"
	"github.com/samuelfneumann/aquarl/model/cost"
	ts "github.com/samuelfneumann/aquarl/timestep"
)

// Task implements the grow-out task: the daily economic reward and the
// conditions that end a production cycle. A cycle ends in a terminal
// state when the day limit is reached or the biomass collapses to the
// survival threshold.
type Task struct {
	environment.Ender
	cost            *cost.Model
	maxDays         int
	survivalBiomass float64
}

// NewTask returns a new grow-out task
func NewTask(c *cost.Model, maxDays int, survivalBiomass float64) *Task {
	dayLimit := environment.NewStepLimit(maxDays, ts.TerminalStateReached)
	collapse := environment.NewFunctionEnder(func(t *ts.TimeStep) bool {
		return t.Info[InfoBiomass] <= survivalBiomass
	}, ts.TerminalStateReached)

	return &Task{
		Ender:           environment.AnyEnder{dayLimit, collapse},
		cost:            c,
		maxDays:         maxDays,
		survivalBiomass: survivalBiomass,
	}
}

// GetReward returns the weighted economic terms of a single day
func (t *Task) GetReward(in cost.Inputs) cost.Breakdown {
	return t.cost.Evaluate(in)
}

// MaxDays returns the length of a production cycle
func (t *Task) MaxDays() int {
	return t.maxDays
}

// Cost returns the economic model of the task
func (t *Task) Cost() *cost.Model {
	return t.cost
}
