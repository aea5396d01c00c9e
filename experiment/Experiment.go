// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"

	"github.com/samuelfneumann/aquarl/experiment/trackers"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments send each environment TimeStep to Trackers, which cache
// the data they need. The Save() function then has each Tracker save
// or report its data, usually after the experiment has been run. The
// Run() method runs all episodes of the experiment and the RunEpisode()
// method runs a single episode.
type Experiment interface {
	// Run runs episodes until the experiment finishes or ctx is
	// cancelled
	Run(ctx context.Context) error

	// RunEpisode runs a single episode and returns whether the
	// experiment has finished
	RunEpisode() (bool, error)

	// Save has every Tracker save its data
	Save() error

	// Adds a new trackers.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t trackers.Tracker)
}
