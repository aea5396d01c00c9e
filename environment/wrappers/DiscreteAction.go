package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/aquarl/environment"
	ts "github.com/samuelfneumann/aquarl/timestep"
)

// DiscreteAction wraps an environment with continuous actions and
// presents an integer action space of fixed cardinality. Each integer
// action selects the continuous action at that position of a Catalogue
// built over the wrapped environment's action bounds. Actions are
// passed to Step as 1-dimensional vectors holding the action index.
//
// DiscreteAction itself implements the environment.Environment
// interface and is therefore itself an environment. All methods other
// than Step and ActionSpec are forwarded to the wrapped environment.
type DiscreteAction struct {
	environment.Environment
	catalogue *Catalogue
}

// NewDiscreteAction returns a new DiscreteAction wrapping env, with
// bins[i] equally spaced actions along the i-th action dimension
func NewDiscreteAction(env environment.Environment,
	bins []int) (*DiscreteAction, error) {
	spec := env.ActionSpec()
	if spec.Cardinality != environment.Continuous {
		return nil, fmt.Errorf("newDiscreteAction: cannot discretize "+
			"%v actions", spec.Cardinality)
	}

	catalogue, err := NewCatalogue(spec.Intervals(), bins)
	if err != nil {
		return nil, fmt.Errorf("newDiscreteAction: %w", err)
	}
	return &DiscreteAction{env, catalogue}, nil
}

// Catalogue returns the catalogue mapping action indices to the
// continuous actions of the wrapped environment
func (d *DiscreteAction) Catalogue() *Catalogue {
	return d.catalogue
}

// Unwrap returns the wrapped environment
func (d *DiscreteAction) Unwrap() environment.Environment {
	return d.Environment
}

// Step takes one environmental step with the continuous action at the
// index held by action. Step panics if the index is not an integer in
// [0, NumActions).
func (d *DiscreteAction) Step(action *mat.VecDense) (ts.TimeStep, bool,
	error) {
	if action.Len() != 1 {
		panic(fmt.Sprintf("step: discrete actions are 1-dimensional, "+
			"have %v dimensions", action.Len()))
	}
	index := action.AtVec(0)
	if index != float64(int(index)) {
		panic(fmt.Sprintf("step: action index %v is not an integer", index))
	}

	return d.StepIndex(int(index))
}

// StepIndex takes one environmental step with the action at index i
func (d *DiscreteAction) StepIndex(i int) (ts.TimeStep, bool, error) {
	return d.Environment.Step(d.catalogue.Action(i))
}

// NumActions returns the number of discrete actions
func (d *DiscreteAction) NumActions() int {
	return d.catalogue.Len()
}

// ActionSpec returns the action specification of the environment: a
// single integer in [0, NumActions - 1]
func (d *DiscreteAction) ActionSpec() environment.Spec {
	return environment.NewBoxSpec(environment.Action, []float64{0},
		[]float64{float64(d.catalogue.Len() - 1)}, environment.Discrete)
}

// Render renders the wrapped environment if it can be rendered
func (d *DiscreteAction) Render(mode string) (any, error) {
	r, ok := d.Environment.(environment.Renderer)
	if !ok {
		return nil, fmt.Errorf("render: %T cannot be rendered",
			d.Environment)
	}
	return r.Render(mode)
}

// String returns a string representation of the DiscreteAction
// environment
func (d *DiscreteAction) String() string {
	return fmt.Sprintf("DiscreteAction(%v actions): %v", d.catalogue.Len(),
		d.Environment)
}
