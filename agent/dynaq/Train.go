package dynaq

import (
	"context"
	"errors"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/samuelfneumann/aquarl/environment"
	"github.com/samuelfneumann/aquarl/experiment"
	"github.com/samuelfneumann/aquarl/experiment/plot"
	"github.com/samuelfneumann/aquarl/experiment/trackers"
)

// Train trains d online for the given number of episodes and returns
// the total reward of each episode. The exploration schedule is laid
// out over episodes. If verbose, a line is printed to standard output
// for each episode, followed by a summary of all episodes. If plotPath
// is not empty, the reward curve is saved there. Any extra Trackers
// observe every TimeStep of training.
func Train(d *DynaQ, episodes int, plotPath string, verbose bool,
	extra ...trackers.Tracker) ([]float64, error) {
	return TrainContext(context.Background(), d, episodes, plotPath, verbose,
		extra...)
}

// TrainContext is like Train but stops between episodes once ctx is
// done. The rewards of the finished episodes are returned along with
// the error.
func TrainContext(ctx context.Context, d *DynaQ, episodes int,
	plotPath string, verbose bool, extra ...trackers.Tracker) ([]float64,
	error) {
	if episodes < 1 {
		return nil, fmt.Errorf("train: episodes must be >= 1, have %v",
			episodes)
	}
	d.cfg.Episodes = episodes

	rewards := trackers.NewReturn("")
	t := []trackers.Tracker{rewards}
	if verbose {
		t = append(t, trackers.NewPrinter(os.Stdout, d))
	}
	t = append(t, extra...)

	klog.V(1).Infof("dynaq: training for %v episodes in region %v",
		episodes, Region(d.env))
	e := experiment.NewOnline(d.env, d, episodes, t...)
	runErr := e.Run(ctx)
	if err := errors.Join(runErr, e.Save()); err != nil {
		return rewards.EpisodeReturns(), fmt.Errorf("train: %w", err)
	}

	if plotPath != "" {
		err := plot.Rewards(rewards.EpisodeReturns(), Region(d.env),
			d.cfg.FinalEpsilon, d.cfg.PlotWindow, plotPath)
		if err != nil {
			return rewards.EpisodeReturns(), fmt.Errorf("train: %w", err)
		}
		klog.Infof("dynaq: reward curve saved to %v", plotPath)
	}
	return rewards.EpisodeReturns(), nil
}

// Region returns the region of the environment wrapped by env, or
// "unknown" if no wrapped environment reports one
func Region(env environment.Environment) string {
	for env != nil {
		if r, ok := env.(interface{ Region() string }); ok {
			return r.Region()
		}
		u, ok := env.(interface{ Unwrap() environment.Environment })
		if !ok {
			break
		}
		env = u.Unwrap()
	}
	return "unknown"
}
