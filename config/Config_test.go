package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("could not load defaults: %v", err)
	}

	if cfg.Growth.TOpt != 33.0 {
		t.Errorf("t_opt: want(33) have(%v)", cfg.Growth.TOpt)
	}
	if cfg.Environment.MaxDays != 180 {
		t.Errorf("max_days: want(180) have(%v)", cfg.Environment.MaxDays)
	}
	if cfg.Reward.Weights.ValueGain != 2.0 {
		t.Errorf("value_gain weight: want(2) have(%v)",
			cfg.Reward.Weights.ValueGain)
	}
	if cfg.Mortality.Enabled {
		t.Error("mortality should be disabled by default")
	}

	want := []string{"guangdong", "kafr_el_sheikh", "north_sulawesi"}
	if have := cfg.Regions(); !reflect.DeepEqual(have, want) {
		t.Errorf("regions: want(%v) have(%v)", want, have)
	}
}

func TestRegion(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	r, err := cfg.Region("guangdong")
	if err != nil {
		t.Fatalf("guangdong: %v", err)
	}
	if r.Latitude != 23.13 || r.Site.TMean != 23.0 || r.Prices.Selling != 2.2 {
		t.Errorf("guangdong: unexpected region view %+v", r)
	}

	_, err = cfg.Region("atlantis")
	if !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("atlantis: want ErrUnknownRegion have(%v)", err)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("environment:\n  max_days: 10\nmortality:\n  enabled: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment.MaxDays != 10 {
		t.Errorf("max_days: want(10) have(%v)", cfg.Environment.MaxDays)
	}
	if !cfg.Mortality.Enabled {
		t.Error("mortality should be enabled by override")
	}

	// Values not overridden keep their defaults
	if cfg.Environment.InitialFishCount != 100 {
		t.Errorf("initial_fish_count: want(100) have(%v)",
			cfg.Environment.InitialFishCount)
	}
	if len(cfg.Growth.Latitude) != 3 {
		t.Errorf("latitude: want 3 regions have(%v)", len(cfg.Growth.Latitude))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		is   error
	}{
		{
			name: "unknown key",
			yaml: "growth:\n  not_a_parameter: 1\n",
		},
		{
			name: "inverted band",
			yaml: "growth:\n  t_min: 35\n",
		},
		{
			name: "region without prices",
			yaml: "growth:\n  latitude:\n    atlantis: 10\n" +
				"temperature:\n  sites:\n    atlantis: {t_mean: 20, t_amp: 1, phase_shift: 0}\n",
			is: ErrUnknownRegion,
		},
		{
			name: "bins length mismatch",
			yaml: "environment:\n  action_bins: [40, 16]\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if test.is != nil && !errors.Is(err, test.is) {
				t.Errorf("want error wrapping %v have(%v)", test.is, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error loading a missing file")
	}
}
