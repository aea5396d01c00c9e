// Package runstore persists the results of training runs
package runstore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run describes a single training run
type Run struct {
	ID       string
	Region   string
	Seed     uint64
	Episodes int
	Started  time.Time
}

// Store defines persistence operations for training runs and the
// rewards of their episodes
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]Run, error)

	// AppendReward records the total reward of episode (starting at 1)
	// of a run. Recording an episode again overwrites its reward.
	AppendReward(ctx context.Context, runID string, episode int,
		reward float64) error

	// GetRewards returns the episode rewards of a run in episode order
	GetRewards(ctx context.Context, runID string) ([]float64, bool, error)
}

// NewRunID returns a new unique run identifier
func NewRunID() string {
	return uuid.NewString()
}
