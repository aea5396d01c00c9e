package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/samuelfneumann/aquarl/agent"
	env "github.com/samuelfneumann/aquarl/environment"
	"github.com/samuelfneumann/aquarl/experiment/trackers"
	ts "github.com/samuelfneumann/aquarl/timestep"
)

// Online is an Experiment that runs an agent online only for a fixed
// number of episodes. No offline evaluation is performed.
//
// On each step the agent selects an action, the environment is stepped,
// and the agent observes and learns from the resulting transition. At
// the end of an episode the agent's EndEpisode is called before the
// last TimeStep is tracked, so Trackers see the agent's end-of-episode
// state.
type Online struct {
	env.Environment
	agent.Agent
	maxEpisodes     int
	currentEpisodes int
	trackers        []trackers.Tracker
}

var _ Experiment = (*Online)(nil)

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The episodes parameter determines how
// many episodes the experiment is run for, and the t parameter
// is a slice of trackers.Tracker which determine what data is tracked.
func NewOnline(e env.Environment, a agent.Agent, episodes int,
	t ...trackers.Tracker) *Online {
	return &Online{e, a, episodes, 0, t}
}

// Register registers a trackers.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Episodes returns the number of episodes run
func (o *Online) Episodes() int {
	return o.currentEpisodes
}

// RunEpisode runs a single episode of the experiment and returns
// whether the episode limit has been reached
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)

	for !step.Last() {
		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		if step.Last() {
			o.Agent.EndEpisode()
		}
		o.track(step)
	}

	o.currentEpisodes++
	return o.currentEpisodes >= o.maxEpisodes, nil
}

// Run runs the entire experiment for all episodes. Cancelling ctx stops
// the experiment between episodes.
func (o *Online) Run(ctx context.Context) error {
	for o.currentEpisodes < o.maxEpisodes {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run: stopped after %v episodes: %w",
				o.currentEpisodes, err)
		}
		if _, err := o.RunEpisode(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}
	return nil
}

// Save has each Tracker save its data. Every Tracker is saved even if
// some fail, and all failures are returned.
func (o *Online) Save() error {
	var errs []error
	for _, tracker := range o.trackers {
		if err := tracker.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// track tracks the current timestep by sending it to each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
