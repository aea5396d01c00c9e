package trackers

import (
	"context"
	"errors"
	"fmt"

	"github.com/samuelfneumann/aquarl/experiment/runstore"
	ts "github.com/samuelfneumann/aquarl/timestep"
)

// Store records the total reward of each finished episode of a run in
// a runstore.Store as the episode finishes. Write failures are kept
// and returned by Save.
type Store struct {
	ctx   context.Context
	store runstore.Store
	runID string

	episode int
	total   float64
	errs    []error
}

// NewStore returns a new Store tracker writing the rewards of run runID
// to store
func NewStore(ctx context.Context, store runstore.Store, runID string) *Store {
	return &Store{ctx: ctx, store: store, runID: runID}
}

// Track accumulates rewards and stores the return of each finished
// episode
func (s *Store) Track(t ts.TimeStep) {
	if t.First() {
		s.total = 0
		return
	}
	s.total += t.Reward
	if !t.Last() {
		return
	}

	s.episode++
	err := s.store.AppendReward(s.ctx, s.runID, s.episode, s.total)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("episode %d: %w", s.episode, err))
	}
}

// Save returns the errors encountered while storing rewards
func (s *Store) Save() error {
	if err := errors.Join(s.errs...); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
