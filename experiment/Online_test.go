package experiment

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/aquarl/agent"
	env "github.com/samuelfneumann/aquarl/environment"
	"github.com/samuelfneumann/aquarl/experiment/trackers"
	ts "github.com/samuelfneumann/aquarl/timestep"
)

// chain is an environment whose episodes last a fixed number of steps
// and reward the action taken
type chain struct {
	length int
	step   int
	log    *[]string
}

func (c *chain) Reset() (ts.TimeStep, error) {
	c.step = 0
	*c.log = append(*c.log, "reset")
	return ts.New(ts.First, 0, 1, mat.NewVecDense(1, nil), 0), nil
}

func (c *chain) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	c.step++
	*c.log = append(*c.log, "env.step")
	kind := ts.Mid
	if c.step == c.length {
		kind = ts.Last
	}
	step := ts.New(kind, a.AtVec(0), 1, mat.NewVecDense(1, nil), c.step)
	if kind == ts.Last {
		step.SetEnd(ts.TerminalStateReached)
	}
	return step, kind == ts.Last, nil
}

func (c *chain) Seed(uint64) {}

func (c *chain) ObservationSpec() env.Spec {
	return env.NewBoxSpec(env.Observation, []float64{0}, []float64{1},
		env.Continuous)
}

func (c *chain) ActionSpec() env.Spec {
	return env.NewBoxSpec(env.Action, []float64{0}, []float64{1},
		env.Discrete)
}

func (c *chain) DiscountSpec() env.Spec {
	return env.NewBoxSpec(env.Discount, []float64{1}, []float64{1},
		env.Continuous)
}

func (c *chain) Close() error { return nil }

// recorder is an agent which always takes action 1 and logs its calls
type recorder struct {
	log     *[]string
	stepErr error
	eval    bool
}

func (r *recorder) SelectAction(ts.TimeStep) *mat.VecDense {
	*r.log = append(*r.log, "select")
	return mat.NewVecDense(1, []float64{1})
}

func (r *recorder) ObserveFirst(ts.TimeStep) error {
	*r.log = append(*r.log, "observeFirst")
	return nil
}

func (r *recorder) Observe(mat.Vector, ts.TimeStep) error {
	*r.log = append(*r.log, "observe")
	return nil
}

func (r *recorder) Step() error {
	*r.log = append(*r.log, "agent.step")
	return r.stepErr
}

func (r *recorder) EndEpisode()  { *r.log = append(*r.log, "endEpisode") }
func (r *recorder) Eval()        { r.eval = true }
func (r *recorder) Train()       { r.eval = false }
func (r *recorder) IsEval() bool { return r.eval }

var _ agent.Agent = (*recorder)(nil)

// logTracker logs each tracked TimeStep
type logTracker struct {
	log     *[]string
	saveErr error
}

func (l *logTracker) Track(t ts.TimeStep) {
	*l.log = append(*l.log, "track")
}

func (l *logTracker) Save() error { return l.saveErr }

func TestRunEpisodeOrder(t *testing.T) {
	var log []string
	o := NewOnline(&chain{length: 2, log: &log}, &recorder{log: &log}, 1,
		&logTracker{log: &log})

	done, err := o.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("episode limit should be reached")
	}

	want := []string{
		"reset", "observeFirst", "track",
		"select", "env.step", "observe", "agent.step", "track",
		"select", "env.step", "observe", "agent.step", "endEpisode", "track",
	}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("call order:\nwant(%v)\nhave(%v)", want, log)
	}
}

func TestRun(t *testing.T) {
	var log []string
	ret := trackers.NewReturn("")
	o := NewOnline(&chain{length: 3, log: &log}, &recorder{log: &log}, 4, ret)

	if err := o.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if o.Episodes() != 4 {
		t.Errorf("episodes: want(4) have(%v)", o.Episodes())
	}
	returns := ret.EpisodeReturns()
	if !reflect.DeepEqual(returns, []float64{3, 3, 3, 3}) {
		t.Errorf("returns: have(%v)", returns)
	}
}

func TestRunCancelled(t *testing.T) {
	var log []string
	o := NewOnline(&chain{length: 3, log: &log}, &recorder{log: &log}, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := o.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("run: want(context.Canceled) have(%v)", err)
	}
	if o.Episodes() != 0 {
		t.Errorf("episodes: want(0) have(%v)", o.Episodes())
	}
}

func TestRunAgentError(t *testing.T) {
	var log []string
	fail := errors.New("fail")
	o := NewOnline(&chain{length: 3, log: &log},
		&recorder{log: &log, stepErr: fail}, 1)

	if err := o.Run(context.Background()); !errors.Is(err, fail) {
		t.Errorf("run: want(%v) have(%v)", fail, err)
	}
}

func TestSaveJoinsErrors(t *testing.T) {
	var log []string
	a, b := errors.New("a"), errors.New("b")
	o := NewOnline(&chain{length: 1, log: &log}, &recorder{log: &log}, 1,
		&logTracker{log: &log, saveErr: a}, &logTracker{log: &log},
		&logTracker{log: &log, saveErr: b})

	err := o.Save()
	if !errors.Is(err, a) || !errors.Is(err, b) {
		t.Errorf("save: have(%v)", err)
	}
}
