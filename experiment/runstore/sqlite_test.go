//go:build sqlite

package runstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "aquarl.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := Run{
		ID:       NewRunID(),
		Region:   "kafr_el_sheikh",
		Seed:     7,
		Episodes: 2,
		Started:  time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	loaded, ok, err := store.GetRun(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("get run: %v %v", ok, err)
	}
	if loaded.Region != run.Region || loaded.Seed != run.Seed ||
		!loaded.Started.Equal(run.Started) {
		t.Fatalf("unexpected run: %+v", loaded)
	}

	for i, r := range []float64{-1.25, 4.5} {
		if err := store.AppendReward(ctx, run.ID, i+1, r); err != nil {
			t.Fatalf("append reward: %v", err)
		}
	}
	rewards, ok, err := store.GetRewards(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("get rewards: %v %v", ok, err)
	}
	if len(rewards) != 2 || rewards[0] != -1.25 || rewards[1] != 4.5 {
		t.Fatalf("unexpected rewards: %v", rewards)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil || len(runs) != 1 {
		t.Fatalf("list runs: %v %v", runs, err)
	}
}

func TestNewStoreSQLite(t *testing.T) {
	store, err := NewStore("sqlite", filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close: %v", err)
	}
}
