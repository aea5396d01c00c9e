package environment

import ts "github.com/samuelfneumann/aquarl/timestep"

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
	endType      ts.EndType
}

// NewStepLimit creates and returns a new step limit. The endType
// argument determines what the episode end should be considered as.
func NewStepLimit(episodeSteps int, endType ts.EndType) *StepLimit {
	return &StepLimit{episodeSteps, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (s *StepLimit) End(t *ts.TimeStep) bool {
	if t.Number >= s.episodeSteps {
		t.StepType = ts.Last
		t.SetEnd(s.endType)
		return true
	}
	return false
}

// Limit returns the number of steps after which episodes end
func (s *StepLimit) Limit() int {
	return s.episodeSteps
}
