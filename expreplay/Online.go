package expreplay

import (
	ts "github.com/samuelfneumann/aquarl/timestep"
)

// onlineCache implements an experience replay buffer for sampling
// completely online.
//
// When creating a new experience replay buffer, the user could
// choose to use a buffer with a maximum capacity of 1. In this case,
// experience replay reduces to replaying the most recent transition.
type onlineCache struct {
	transition ts.Transition
	filled     bool
}

// newOnline returns a new online replay buffer
func newOnline() ExperienceReplayer {
	return &onlineCache{}
}

// Add replaces the stored transition with t
func (o *onlineCache) Add(t ts.Transition) error {
	o.transition = t
	o.filled = true
	return nil
}

// Sample returns the most recently added transition
func (o *onlineCache) Sample() ([]ts.Transition, error) {
	if !o.filled {
		err := &ExpReplayError{
			Op:  "sample",
			Err: errEmptyCache,
		}
		return nil, err
	}
	return []ts.Transition{o.transition}, nil
}

// Capacity returns the current number of elements in the cache that
// are available for sampling
func (o *onlineCache) Capacity() int {
	if o.filled {
		return 1
	}
	return 0
}

// MaxCapacity returns the maximum number of elements that are allowed
// in the cache
func (o *onlineCache) MaxCapacity() int {
	return 1
}

// MinCapacity returns the minimum number of elements required in the
// cache before sampling is allowed
func (o *onlineCache) MinCapacity() int {
	return 1
}

// BatchSize returns the number of samples sampled using Sample() -
// a.k.a the batch size
func (o *onlineCache) BatchSize() int {
	return 1
}
