// Package dynaq implements the tabular Dyna-Q algorithm.
//
// Observations are discretized into packed integer states and actions
// are indices into a discrete action space. Every environmental step
// drives three updates to the table of action values: a direct
// Q-learning update on the observed transition, a replay of a batch of
// past transitions drawn from a FIFO experience buffer (every
// ReplayFreq steps), and a number of planning updates on
// transitions simulated from a learned model of the environment. The
// model remembers only the most recent outcome of each state-action
// pair.
//
// Exploration is ε-greedy, with ε decayed linearly at the end of each
// episode from its initial to its final value over a fraction of the
// episodes.
package dynaq

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"

	"github.com/samuelfneumann/aquarl/agent"
	"github.com/samuelfneumann/aquarl/agent/tabular"
	"github.com/samuelfneumann/aquarl/environment"
	"github.com/samuelfneumann/aquarl/expreplay"
	ts "github.com/samuelfneumann/aquarl/timestep"
)

// ErrNoTransition is returned by Step when no transition has been
// observed since the last update
var ErrNoTransition = errors.New("no transition observed")

var (
	_ agent.TdErrorer = (*DynaQ)(nil)
	_ agent.EGreedy   = (*DynaQ)(nil)
	_ agent.Config    = Config{}
)

// DynaQ implements the Dyna-Q agent
type DynaQ struct {
	env environment.Environment
	cfg Config
	rng *rand.Rand

	discretizer *tabular.Discretizer
	q           *tabular.QTable
	model       *tabular.Model
	buffer      expreplay.ExperienceReplayer
	numActions  int

	epsilon    float64
	eval       bool
	globalStep int
	episode    int

	state   tabular.State
	pending *ts.Transition
}

// New creates a new Dyna-Q agent acting in env, which must have a
// single discrete action dimension. All randomness of the agent is
// drawn from rng, which may be shared with env so that a single seed
// determines an entire run.
func New(env environment.Environment, c Config,
	rng *rand.Rand) (*DynaQ, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	actionSpec := env.ActionSpec()
	if actionSpec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: Dyna-Q can only be used with " +
			"discrete actions")
	}
	if actionSpec.Shape.Len() != 1 {
		return nil, fmt.Errorf("new: Dyna-Q can only be used with "+
			"1-dimensional actions, have %v", actionSpec.Shape.Len())
	}
	numActions := int(actionSpec.UpperBound.AtVec(0)) + 1

	obsSpec := env.ObservationSpec()
	discretizer, err := tabular.NewDiscretizer(
		mat.Col(nil, 0, obsSpec.LowerBound),
		mat.Col(nil, 0, obsSpec.UpperBound),
		c.ObservationBin,
	)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	replay := expreplay.Config{
		SampleMethod:      c.ReplaySampler,
		SampleSize:        c.BatchSize,
		MaxReplayCapacity: c.BufferSize,
		MinReplayCapacity: c.BatchSize,
	}
	buffer, err := replay.Create(rng)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &DynaQ{
		env: env,
		cfg: c,
		rng: rng,

		discretizer: discretizer,
		q:           tabular.NewQTable(numActions),
		model:       tabular.NewModel(),
		buffer:      buffer,
		numActions:  numActions,

		epsilon: c.InitialEpsilon,
	}, nil
}

// Discretize returns the discrete state of an observation
func (d *DynaQ) Discretize(obs mat.Vector) tabular.State {
	return d.discretizer.Discretize(obs)
}

// ChooseAction returns an ε-greedy action in state s. In evaluation
// mode the greedy action is always returned.
func (d *DynaQ) ChooseAction(s tabular.State) int {
	if !d.eval && d.rng.Float64() < d.epsilon {
		return d.rng.Intn(d.numActions)
	}
	return d.q.Greedy(s)
}

// SelectAction selects an action in the state observed in t and
// returns it as a 1-dimensional vector holding the action index
func (d *DynaQ) SelectAction(t ts.TimeStep) *mat.VecDense {
	s := d.Discretize(t.Observation)
	return mat.NewVecDense(1, []float64{float64(d.ChooseAction(s))})
}

// ObserveFirst records the first timestep of an episode
func (d *DynaQ) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: timestep %v is not the first in "+
			"an episode", t.Number)
	}
	d.state = d.Discretize(t.Observation)
	d.pending = nil
	return nil
}

// Observe records that taking action in the current state led to
// nextStep. The transition is learned from on the next call to Step.
func (d *DynaQ) Observe(action mat.Vector, nextStep ts.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: actions must be 1-dimensional, have %v "+
			"dimensions", action.Len())
	}
	a := int(action.AtVec(0))
	if a < 0 || a >= d.numActions {
		return fmt.Errorf("observe: action %v out of range [0, %v)", a,
			d.numActions)
	}

	next := d.Discretize(nextStep.Observation)
	d.pending = &ts.Transition{
		State:     uint64(d.state),
		Action:    a,
		Reward:    nextStep.Reward,
		NextState: uint64(next),
	}
	d.state = next
	return nil
}

// Step learns from the most recently observed transition: a direct
// update, then the transition is recorded in the model and buffer, a
// batch is replayed if the step is a replay step, and finally the
// planning updates are made.
func (d *DynaQ) Step() error {
	if d.pending == nil {
		return fmt.Errorf("step: %w", ErrNoTransition)
	}
	t := *d.pending
	d.pending = nil

	s, next := tabular.State(t.State), tabular.State(t.NextState)
	d.Update(s, t.Action, t.Reward, next)
	d.model.Learn(s, t.Action, t.Reward, next)
	if err := d.buffer.Add(t); err != nil {
		return fmt.Errorf("step: %w", err)
	}

	if d.globalStep%d.cfg.ReplayFreq == 0 {
		if err := d.Replay(); err != nil {
			return fmt.Errorf("step: %w", err)
		}
	}
	d.Plan()

	d.globalStep++
	return nil
}

// Update performs a Q-learning update of action a in s towards
// r + γ max_a' Q(next, a') and returns the TD error before the update
func (d *DynaQ) Update(s tabular.State, a int, r float64,
	next tabular.State) float64 {
	target := r + d.cfg.Discount*d.q.Max(next)
	return d.q.Update(s, a, target, d.cfg.LearningRate)
}

// TdError returns the TD error of a transition without updating
func (d *DynaQ) TdError(t ts.Transition) float64 {
	target := t.Reward + d.cfg.Discount*d.q.Max(tabular.State(t.NextState))
	return target - d.q.Value(tabular.State(t.State), t.Action)
}

// Replay updates on a batch of transitions chosen from the experience
// buffer by the configured sampler. Nothing is done until the buffer holds at
// least a batch of transitions.
func (d *DynaQ) Replay() error {
	batch, err := d.buffer.Sample()
	if expreplay.IsInsufficientSamples(err) || expreplay.IsEmptyBuffer(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	for _, t := range batch {
		d.Update(tabular.State(t.State), t.Action, t.Reward,
			tabular.State(t.NextState))
	}
	return nil
}

// Plan makes the planning updates on transitions simulated by the
// model. Nothing is done while the model is empty.
func (d *DynaQ) Plan() {
	for i := 0; i < d.cfg.PlanningSteps; i++ {
		t, ok := d.model.Sample(d.rng)
		if !ok {
			return
		}
		d.Update(tabular.State(t.State), t.Action, t.Reward,
			tabular.State(t.NextState))
	}
}

// EndEpisode decays ε according to the index of the episode just
// finished
func (d *DynaQ) EndEpisode() {
	d.epsilon = d.Schedule(d.episode)
	d.episode++
	klog.V(2).Infof("dynaq: episode %v done, epsilon %.4f, %v states",
		d.episode, d.epsilon, d.q.Len())
}

// Schedule returns the value of ε after the episode with index ep
// (starting at 0) has finished. ε decays linearly over the first
// ExplorationFraction of the episodes and is constant afterwards.
func (d *DynaQ) Schedule(ep int) float64 {
	span := float64(d.cfg.Episodes) * d.cfg.ExplorationFraction
	if float64(ep) >= span {
		return d.cfg.FinalEpsilon
	}
	progress := float64(ep) / span
	return d.cfg.InitialEpsilon -
		progress*(d.cfg.InitialEpsilon-d.cfg.FinalEpsilon)
}

// Epsilon returns the current exploration probability
func (d *DynaQ) Epsilon() float64 {
	return d.epsilon
}

// SetEpsilon sets the exploration probability
func (d *DynaQ) SetEpsilon(e float64) {
	d.epsilon = e
}

// Eval sets the agent to act greedily
func (d *DynaQ) Eval() { d.eval = true }

// Train sets the agent to act ε-greedily
func (d *DynaQ) Train() { d.eval = false }

// IsEval returns whether the agent acts greedily
func (d *DynaQ) IsEval() bool { return d.eval }

// GlobalStep returns the number of environmental steps learned from
func (d *DynaQ) GlobalStep() int {
	return d.globalStep
}

// Episodes returns the number of episodes finished
func (d *DynaQ) Episodes() int {
	return d.episode
}

// QTable returns the action values of the agent
func (d *DynaQ) QTable() *tabular.QTable {
	return d.q
}

// Model returns the learned model of the environment
func (d *DynaQ) Model() *tabular.Model {
	return d.model
}

// Buffer returns the experience buffer of the agent
func (d *DynaQ) Buffer() expreplay.ExperienceReplayer {
	return d.buffer
}

// Config returns the configuration of the agent
func (d *DynaQ) Config() Config {
	return d.cfg
}

func (d *DynaQ) String() string {
	return fmt.Sprintf("DynaQ  |  Episodes: %v  |  Steps: %v  |  "+
		"Epsilon: %.4f  |  States: %v", d.episode, d.globalStep, d.epsilon,
		d.q.Len())
}

// States returns the number of discrete states in the Q-table
func (d *DynaQ) States() int {
	return d.q.Len()
}
