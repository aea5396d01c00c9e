package environment

import ts "github.com/samuelfneumann/aquarl/timestep"

// FunctionEnder ends an episode whenever a function of a TimeStep
// returns true. The function usually inspects the underlying
// environment state rather than the (possibly normalized) observation.
type FunctionEnder struct {
	end     func(*ts.TimeStep) bool
	endType ts.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true.
func NewFunctionEnder(f func(*ts.TimeStep) bool,
	endType ts.EndType) *FunctionEnder {
	return &FunctionEnder{f, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended, End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (f *FunctionEnder) End(t *ts.TimeStep) bool {
	if f.end(t) {
		t.StepType = ts.Last
		t.SetEnd(f.endType)
		return true
	}
	return false
}

// AnyEnder ends an episode when any of its Enders does. Enders are
// consulted in order and the first to end the episode sets its end
// type.
type AnyEnder []Ender

// End satisfies the Ender interface
func (a AnyEnder) End(t *ts.TimeStep) bool {
	for _, ender := range a {
		if ender.End(t) {
			return true
		}
	}
	return false
}
