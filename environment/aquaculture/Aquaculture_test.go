package aquaculture

import (
	"errors"
	"image"
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/aquarl/config"
	ts "github.com/samuelfneumann/aquarl/timestep"
)

func newEnv(t *testing.T, cfg *config.Config, seed uint64) (*Aquaculture,
	ts.TimeStep) {
	if cfg == nil {
		var err error
		cfg, err = config.Default()
		if err != nil {
			t.Fatal(err)
		}
	}
	env, step, err := New(cfg, "guangdong", rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatal(err)
	}
	return env, step
}

func inUnitBox(v mat.Vector) bool {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < 0 || v.AtVec(i) > 1 {
			return false
		}
	}
	return true
}

func TestNewUnknownRegion(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = New(cfg, "atlantis", rand.New(rand.NewSource(1)))
	if !errors.Is(err, config.ErrUnknownRegion) {
		t.Errorf("want ErrUnknownRegion have(%v)", err)
	}
}

func TestReset(t *testing.T) {
	env, step := newEnv(t, nil, 1)

	if !step.First() || step.Number != 0 {
		t.Errorf("want first step 0, have %v", step)
	}
	if !inUnitBox(step.Observation) {
		t.Errorf("observation %v outside [0, 1]", step.Observation.RawVector().Data)
	}
	if env.FishCount() != 100 || env.Day() != 0 {
		t.Errorf("want 100 fish on day 0, have %v on day %v", env.FishCount(),
			env.Day())
	}
	if env.UIA() != 0.06 || env.DissolvedOxygen() != 0.6 {
		t.Errorf("unexpected initial water quality: %v", env)
	}
	if env.FeedToday() != 0 || env.FeedRateToday() != 0 {
		t.Error("feed counters should be zero after reset")
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	env, _ := newEnv(t, nil, 1)

	obs := mat.NewVecDense(ObservationDims, []float64{0, 0.25, 0.5, 0.75, 1})
	back := env.Normalize(env.Denormalize(obs))
	if !floats.EqualApprox(back.RawVector().Data, obs.RawVector().Data, 1e-12) {
		t.Errorf("round trip: want(%v) have(%v)", obs.RawVector().Data,
			back.RawVector().Data)
	}

	raw := mat.NewVecDense(ObservationDims, []float64{1000, 100, 30, 0.6, 0.1})
	again := env.Denormalize(env.Normalize(raw))
	if !floats.EqualApprox(again.RawVector().Data, raw.RawVector().Data, 1e-6) {
		t.Errorf("inverse: want(%v) have(%v)", raw.RawVector().Data,
			again.RawVector().Data)
	}

	// Out-of-range values are clipped
	wild := mat.NewVecDense(ObservationDims, []float64{-1, 1e4, 100, 0, 5})
	if !inUnitBox(env.Normalize(wild)) {
		t.Error("normalized observation should be clipped to [0, 1]")
	}
}

func TestStepScenario(t *testing.T) {
	env, _ := newEnv(t, nil, 42)

	step, last, err := env.Step(mat.NewVecDense(3, []float64{0.5, 30.0, 0.6}))
	if err != nil {
		t.Fatal(err)
	}
	if last {
		t.Fatal("first step should not end the episode")
	}

	if math.IsNaN(step.Reward) || math.IsInf(step.Reward, 0) {
		t.Errorf("reward %v is not finite", step.Reward)
	}
	if temp := env.Temperature(); temp < 24 || temp > 40 {
		t.Errorf("temperature %v outside [24, 40]", temp)
	}
	if uia := env.UIA(); uia < 0.06 || uia > 1.8 {
		t.Errorf("uia %v outside [0.06, 1.8]", uia)
	}
	if !inUnitBox(step.Observation) {
		t.Errorf("observation %v outside [0, 1]", step.Observation.RawVector().Data)
	}
	if step.Number != 1 || env.Day() != 1 {
		t.Errorf("want day 1, have step %v day %v", step.Number, env.Day())
	}
	if step.Truncated() {
		t.Error("steps are never truncated")
	}

	info := step.Info
	want := info[InfoFishValue] - info[InfoFeedCost] - info[InfoHeatCost] -
		info[InfoOxygenationCost]
	if math.Abs(step.Reward-want) > 1e-9 || info[InfoReward] != step.Reward {
		t.Errorf("reward %v does not match its terms %v", step.Reward, want)
	}
	if math.Abs(info[InfoFeedMass]-0.05*info[InfoBiomass]) > 1e-9 {
		t.Errorf("feed mass %v should be 5%% of biomass %v",
			info[InfoFeedMass], info[InfoBiomass])
	}
	if env.DissolvedOxygen() != 0.6 {
		t.Errorf("dissolved oxygen should follow aeration, have(%v)",
			env.DissolvedOxygen())
	}
}

func TestStepClipsActions(t *testing.T) {
	wild, _ := newEnv(t, nil, 7)
	clipped, _ := newEnv(t, nil, 7)

	for i := 0; i < 20; i++ {
		s1, _, _ := wild.Step(mat.NewVecDense(3, []float64{5.0, 100, -1}))
		s2, _, _ := clipped.Step(mat.NewVecDense(3, []float64{1.0, 40, 0.3}))

		if s1.Reward != s2.Reward {
			t.Fatalf("step %v: rewards differ %v != %v", i, s1.Reward, s2.Reward)
		}
		if !mat.Equal(s1.Observation, s2.Observation) {
			t.Fatalf("step %v: observations differ", i)
		}
	}
}

func TestStepPanicsOnActionDims(t *testing.T) {
	env, _ := newEnv(t, nil, 1)
	defer func() {
		if recover() == nil {
			t.Error("expected a panic on a 2-dimensional action")
		}
	}()
	env.Step(mat.NewVecDense(2, []float64{0.5, 30}))
}

func TestTerminationAtDayLimit(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Environment.MaxDays = 5
	env, _ := newEnv(t, cfg, 3)

	action := mat.NewVecDense(3, []float64{0.68, 33, 1.0})
	for day := 1; day <= 5; day++ {
		step, last, err := env.Step(action)
		if err != nil {
			t.Fatal(err)
		}
		if last != (day == 5) {
			t.Fatalf("day %v: last = %v", day, last)
		}
		if last && (!step.Terminated() || step.Truncated()) {
			t.Errorf("day limit should terminate, have end type %v",
				step.EndType())
		}
	}
}

func TestCalendar(t *testing.T) {
	tests := []struct {
		start int
		first int
	}{
		{start: 1, first: 0},
		{start: 100, first: 99},
	}

	for _, test := range tests {
		cfg, err := config.Default()
		if err != nil {
			t.Fatal(err)
		}
		cfg.Environment.MaxDays = 5
		cfg.Growth.StartDayOfYear = test.start
		env, _ := newEnv(t, cfg, 3)

		if d := env.growth.DayOfYear(); d != test.first {
			t.Errorf("start %v: reset day: want(%v) have(%v)", test.start,
				test.first, d)
		}

		// The temperature model reads the day set for the step and then
		// advances its own calendar by one day.
		action := mat.NewVecDense(3, []float64{0.68, 33, 1.0})
		for day := 0; day < 5; day++ {
			_, last, err := env.Step(action)
			if err != nil {
				t.Fatal(err)
			}
			want := test.first + day
			if d := env.growth.DayOfYear(); d != want {
				t.Errorf("start %v step %v: growth day: want(%v) have(%v)",
					test.start, day, want, d)
			}
			if d := env.temperature.DayOfYear(); d != want+1 {
				t.Errorf("start %v step %v: temperature day: want(%v) "+
					"have(%v)", test.start, day, want+1, d)
			}
			if last {
				break
			}
		}
	}
}

func TestTerminationOnCollapse(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Environment.SurvivalBiomass = 1e9
	env, _ := newEnv(t, cfg, 3)

	step, last, _ := env.Step(mat.NewVecDense(3, []float64{0.5, 30, 0.6}))
	if !last || !step.Terminated() {
		t.Error("biomass below the survival threshold should terminate")
	}
}

func TestSeedReproducible(t *testing.T) {
	run := func() []float64 {
		env, _ := newEnv(t, nil, 99)
		env.Seed(11)
		if _, err := env.Reset(); err != nil {
			t.Fatal(err)
		}

		var rewards []float64
		action := mat.NewVecDense(3, []float64{0.4, 31, 0.8})
		for i := 0; i < 30; i++ {
			step, _, _ := env.Step(action)
			rewards = append(rewards, step.Reward)
		}
		return rewards
	}

	if a, b := run(), run(); !floats.Equal(a, b) {
		t.Error("identical seeds produced different trajectories")
	}
}

func TestMortality(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Mortality.Enabled = true
	cfg.Mortality.Eta = 0 // lethal at any ammonia level
	env, _ := newEnv(t, cfg, 5)

	step, _, _ := env.Step(mat.NewVecDense(3, []float64{0.5, 30, 0.6}))
	if step.Info[InfoDeaths] == 0 || env.FishCount() >= 100 {
		t.Errorf("expected deaths, have %v deaths and %v fish",
			step.Info[InfoDeaths], env.FishCount())
	}
}

func TestRender(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Render.Width, cfg.Render.Height = 300, 180
	cfg.Render.Dir = t.TempDir()
	env, _ := newEnv(t, cfg, 1)

	if _, err := env.Render("ascii"); !errors.Is(err, ErrRenderMode) {
		t.Errorf("want ErrRenderMode have(%v)", err)
	}
	if env.renderer != nil {
		t.Error("an invalid mode should not create a renderer")
	}

	frame, err := env.Render(RenderRGBArray)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := frame.(image.Image); !ok {
		t.Errorf("rgb_array should return an image, have %T", frame)
	}

	path, err := env.Render(RenderHuman)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := path.(string); !ok {
		t.Errorf("human should return the frame path, have %T", path)
	}

	if err := env.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func BenchmarkStep(b *testing.B) {
	cfg, err := config.Default()
	if err != nil {
		b.Fatal(err)
	}
	env, _, err := New(cfg, "guangdong", rand.New(rand.NewSource(1)))
	if err != nil {
		b.Fatal(err)
	}
	action := mat.NewVecDense(3, []float64{0.5, 30, 0.6})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, last, _ := env.Step(action); last {
			env.Reset()
		}
	}
}
