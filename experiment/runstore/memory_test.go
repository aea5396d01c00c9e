package runstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := Run{
		ID:       NewRunID(),
		Region:   "guangdong",
		Seed:     42,
		Episodes: 3,
		Started:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok || loaded != run {
		t.Fatalf("unexpected run: %+v", loaded)
	}

	if _, ok, _ := store.GetRun(ctx, "missing"); ok {
		t.Fatal("expected missing run")
	}
}

func TestMemoryStoreRewards(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for i, r := range []float64{1.5, -2, 3} {
		if err := store.AppendReward(ctx, "run-1", i+1, r); err != nil {
			t.Fatalf("append reward: %v", err)
		}
	}
	if err := store.AppendReward(ctx, "run-1", 2, 7); err != nil {
		t.Fatalf("overwrite reward: %v", err)
	}

	rewards, ok, err := store.GetRewards(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get rewards: %v %v", ok, err)
	}
	want := []float64{1.5, 7, 3}
	for i := range want {
		if rewards[i] != want[i] {
			t.Fatalf("rewards: want(%v) have(%v)", want, rewards)
		}
	}

	if err := store.AppendReward(ctx, "run-1", 0, 1); err == nil {
		t.Fatal("expected an error for episode 0")
	}
}

func TestMemoryStoreUninitialized(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveRun(context.Background(), Run{ID: "x"}); err == nil {
		t.Fatal("expected an error before Init")
	}
}

func TestListRunsOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	now := time.Now()
	store.SaveRun(ctx, Run{ID: "b", Started: now.Add(time.Hour)})
	store.SaveRun(ctx, Run{ID: "a", Started: now})

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "a" || runs[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", runs)
	}
}
