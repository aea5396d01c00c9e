package runstore

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryStore is a Store which keeps runs in memory
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	rewards     map[string][]float64
}

// NewMemoryStore returns a new MemoryStore. Init must be called before
// it is used.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.rewards = make(map[string][]float64)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Started.Before(runs[j].Started)
	})
	return runs, nil
}

func (s *MemoryStore) AppendReward(_ context.Context, runID string, episode int,
	reward float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if episode < 1 {
		return errors.New("episodes are numbered from 1")
	}

	rewards := s.rewards[runID]
	for len(rewards) < episode {
		rewards = append(rewards, 0)
	}
	rewards[episode-1] = reward
	s.rewards[runID] = rewards
	return nil
}

func (s *MemoryStore) GetRewards(_ context.Context, runID string) ([]float64,
	bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rewards, ok := s.rewards[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), rewards...), true, nil
}
