package timestep

import "testing"

func TestEnd(t *testing.T) {
	step := New(Mid, 1.0, 0.99, nil, 3)
	if step.Last() || step.Terminated() || step.Truncated() {
		t.Fatal("middle step reported as ended")
	}

	step.StepType = Last
	step.SetEnd(TerminalStateReached)
	if !step.Terminated() || step.Truncated() {
		t.Errorf("want terminated, have end type %v", step.EndType())
	}

	step.SetEnd(Timeout)
	if step.Terminated() || !step.Truncated() {
		t.Errorf("want truncated, have end type %v", step.EndType())
	}
}

func TestString(t *testing.T) {
	if s := First.String(); s != "First" {
		t.Errorf("want(First) have(%v)", s)
	}
	if s := Timeout.String(); s != "Timeout" {
		t.Errorf("want(Timeout) have(%v)", s)
	}
}
