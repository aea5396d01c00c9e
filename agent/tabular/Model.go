package tabular

import (
	"golang.org/x/exp/rand"

	ts "github.com/samuelfneumann/aquarl/timestep"
)

// Key identifies a state-action pair
type Key struct {
	State  State
	Action int
}

// Outcome is the result of taking an action in a state
type Outcome struct {
	Reward    float64
	NextState State
}

// Model is a deterministic model of the environment which remembers,
// for each state-action pair, only the most recently observed outcome.
// Pairs are kept in order of their first observation so that sampling
// is reproducible for a given random source.
type Model struct {
	outcomes map[Key]Outcome
	keys     []Key
}

// NewModel returns a new, empty Model
func NewModel() *Model {
	return &Model{outcomes: make(map[Key]Outcome)}
}

// Learn records that taking action a in s led to reward r and next
func (m *Model) Learn(s State, a int, r float64, next State) {
	k := Key{s, a}
	if _, ok := m.outcomes[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.outcomes[k] = Outcome{Reward: r, NextState: next}
}

// Predict returns the remembered outcome of taking a in s
func (m *Model) Predict(s State, a int) (Outcome, bool) {
	o, ok := m.outcomes[Key{s, a}]
	return o, ok
}

// Sample returns a remembered transition chosen uniformly at random
// over the state-action pairs in the model. Sample returns false if
// the model is empty.
func (m *Model) Sample(rng *rand.Rand) (ts.Transition, bool) {
	if len(m.keys) == 0 {
		return ts.Transition{}, false
	}
	k := m.keys[rng.Intn(len(m.keys))]
	o := m.outcomes[k]
	return ts.Transition{
		State:     uint64(k.State),
		Action:    k.Action,
		Reward:    o.Reward,
		NextState: uint64(o.NextState),
	}, true
}

// Len returns the number of state-action pairs in the model
func (m *Model) Len() int {
	return len(m.keys)
}
