package plot

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		data   []float64
		window int
		want   []float64
	}{
		{[]float64{1, 2, 3, 4}, 1, []float64{1, 2, 3, 4}},
		{[]float64{1, 2, 3, 4}, 2, []float64{1.5, 2.5, 3.5}},
		{[]float64{1, 2, 3, 4}, 4, []float64{2.5}},
		{[]float64{1, 2, 3}, 4, nil},
	}

	for _, test := range tests {
		have := MovingAverage(test.data, test.window)
		if len(have) != len(test.want) ||
			!floats.EqualApprox(have, test.want, 1e-12) {
			t.Errorf("movingAverage(%v, %v): want(%v) have(%v)", test.data,
				test.window, test.want, have)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"guangdong":      "Guangdong",
		"KAFR_EL_SHEIKH": "Kafr_el_sheikh",
		"":               "",
	}
	for in, want := range tests {
		if have := Capitalize(in); have != want {
			t.Errorf("capitalize(%q): want(%q) have(%q)", in, want, have)
		}
	}
}

func TestRewards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewards.png")
	rewards := []float64{-3, -1, 0.5, 2, 1.5, 4, 3.5}

	if err := Rewards(rewards, "guangdong", 0.01, 3, path); err != nil {
		t.Fatalf("rewards: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}

	if err := Rewards(nil, "guangdong", 0.01, 1, path); err == nil {
		t.Error("expected an error when there is nothing to plot")
	}
}
