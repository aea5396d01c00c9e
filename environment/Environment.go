// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/aquarl/timestep"
)

// Ender determines when episodes should end. If an episode should end,
// End modifies the TimeStep so that it is the last in the episode.
type Ender interface {
	End(*ts.TimeStep) bool
}

// Environment implements a simulated environment
type Environment interface {
	// Reset starts a new episode and returns its first TimeStep
	Reset() (ts.TimeStep, error)

	// Step takes one environmental step given an action and returns the
	// next TimeStep and whether the episode has ended
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)

	// Seed reseeds all randomness used by the environment
	Seed(seed uint64)

	ObservationSpec() Spec
	ActionSpec() Spec
	DiscountSpec() Spec

	// Close releases any resources held by the environment
	Close() error
}

// Renderer is an Environment that can be drawn
type Renderer interface {
	Environment
	Render(mode string) (any, error)
}
