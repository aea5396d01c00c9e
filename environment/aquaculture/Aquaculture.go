// Package aquaculture implements a daily-step simulation of a single
// fish tank. Each step the controller chooses a feeding rate, a
// temperature setpoint, and an aeration level. The population grows
// in response, ammonia accumulates from the feed, and the step is
// rewarded by the economic value of the biomass gained net of the
// costs of feed, heating, and oxygenation.
//
// Observations are the total biomass (g), fish count, temperature
// (°C), dissolved oxygen (mg/L), and un-ionized ammonia (mg/L), each
// normalized to [0, 1] by the configured bounds.
package aquaculture

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"k8s.io/klog/v2"

	"github.com/samuelfneumann/aquarl/config"
	"github.com/samuelfneumann/aquarl/environment"
	"github.com/samuelfneumann/aquarl/environment/aquaculture/render"
	"github.com/samuelfneumann/aquarl/model/ammonia"
	"github.com/samuelfneumann/aquarl/model/cost"
	"github.com/samuelfneumann/aquarl/model/fish"
	"github.com/samuelfneumann/aquarl/model/growth"
	"github.com/samuelfneumann/aquarl/model/population"
	"github.com/samuelfneumann/aquarl/model/temperature"
	ts "github.com/samuelfneumann/aquarl/timestep"
	"github.com/samuelfneumann/aquarl/utils/floatutils"
)

// Observation dimensions
const (
	Biomass int = iota
	Count
	Temperature
	DissolvedOxygen
	UIA
	ObservationDims
)

// Action dimensions
const (
	FeedRate int = iota
	Setpoint
	Aeration
	ActionDims
)

// Render modes
const (
	RenderHuman    = "human"
	RenderRGBArray = "rgb_array"
)

// Keys of the per-step diagnostics in TimeStep.Info
const (
	InfoBiomass         = "biomass"
	InfoBiomassGain     = "biomass_gain"
	InfoUIA             = "uia"
	InfoReward          = "reward"
	InfoFeedRate        = "feed_rate"
	InfoFeedMass        = "feed_mass"
	InfoTemperature     = "temperature"
	InfoAmbient         = "ambient_temperature"
	InfoDissolvedOxygen = "dissolved_oxygen"
	InfoFishValue       = "fish_value"
	InfoFeedCost        = "feed_cost"
	InfoHeatCost        = "heat_cost"
	InfoOxygenationCost = "oxygenation_cost"
	InfoCount           = "count"
	InfoDeaths          = "deaths"
	InfoStocked         = "stocked"
)

// ErrRenderMode is returned when rendering with an unsupported mode
var ErrRenderMode = errors.New("unsupported render mode")

// Aquaculture implements the tank simulation as an
// environment.Environment with continuous actions
type Aquaculture struct {
	*Task
	cfg    *config.Config
	region string
	rng    *rand.Rand

	growth      *growth.Model
	temperature *temperature.Model
	ammonia     *ammonia.Model
	hatchery    *fish.Hatchery
	population  *population.Population
	mortality   population.Mortality

	obsBounds    []r1.Interval
	actionBounds []r1.Interval
	obsSpec      environment.Spec
	actionSpec   environment.Spec

	day               int
	temp              float64
	setpoint          float64
	dissolvedOxygen   float64
	uia               float64
	feedToday         float64
	feedYesterday     float64
	feedRateToday     float64
	feedRateYesterday float64
	prevBiomass       float64
	lastStep          ts.TimeStep

	renderer *render.Renderer
}

// New returns a new Aquaculture environment for the named region along
// with the first TimeStep of its first episode. All randomness of the
// environment is drawn from rng, which may be shared with an agent so
// that a single seed determines an entire run.
func New(cfg *config.Config, region string, rng *rand.Rand) (*Aquaculture,
	ts.TimeStep, error) {
	if _, err := cfg.Region(region); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: invalid region "+
			"(allowed %v): %w", cfg.Regions(), err)
	}

	g, err := growth.New(cfg, region)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	c, err := cost.New(cfg, region)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	ec := cfg.Environment
	if len(ec.ObservationLow) != ObservationDims {
		return nil, ts.TimeStep{}, fmt.Errorf("new: observation bounds "+
			"must have %v dimensions, have %v", ObservationDims,
			len(ec.ObservationLow))
	}
	if len(ec.ActionLow) != ActionDims {
		return nil, ts.TimeStep{}, fmt.Errorf("new: action bounds must "+
			"have %v dimensions, have %v", ActionDims, len(ec.ActionLow))
	}

	obsSpec := environment.NewBoxSpec(environment.Observation,
		make([]float64, ObservationDims), ones(ObservationDims),
		environment.Continuous)
	actionSpec := environment.NewBoxSpec(environment.Action, ec.ActionLow,
		ec.ActionHigh, environment.Continuous)

	a := &Aquaculture{
		Task:   NewTask(c, ec.MaxDays, ec.SurvivalBiomass),
		cfg:    cfg,
		region: region,
		rng:    rng,

		growth:    g,
		ammonia:   ammonia.New(cfg),
		hatchery:  fish.NewHatchery(cfg.Fish, g, rng),
		mortality: population.NewMortality(cfg.Mortality),

		obsBounds:    intervals(ec.ObservationLow, ec.ObservationHigh),
		actionBounds: intervals(ec.ActionLow, ec.ActionHigh),
		obsSpec:      obsSpec,
		actionSpec:   actionSpec,

		temp:            ec.InitialTemperature,
		setpoint:        ec.InitialTemperature,
		dissolvedOxygen: ec.InitialDissolvedOxygen,
		uia:             cfg.Ammonia.Initial,
	}

	step, err := a.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return a, step, nil
}

// Seed reseeds the random number generator of the environment. If the
// generator is shared, this reseeds every user of it.
func (a *Aquaculture) Seed(seed uint64) {
	a.rng.Seed(seed)
}

// Rand returns the random number generator of the environment
func (a *Aquaculture) Rand() *rand.Rand {
	return a.rng
}

// Reset starts a new production cycle with a freshly generated
// population and fresh temperature and ammonia models
func (a *Aquaculture) Reset() (ts.TimeStep, error) {
	ec := a.cfg.Environment

	temp, err := temperature.New(a.cfg, a.region, a.rng)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	a.temperature = temp
	a.ammonia = ammonia.New(a.cfg)

	a.day = 0
	a.growth.SetDayOfYear(a.calendarDay())
	a.population = population.New(a.hatchery, ec.InitialFishCount, a.rng)
	a.prevBiomass = a.population.Biomass()

	ambient := a.temperature.Ambient()
	a.temp = a.temperature.Set(ambient)
	a.setpoint = ambient

	a.dissolvedOxygen = ec.InitialDissolvedOxygen
	a.uia = a.cfg.Ammonia.Initial
	a.feedToday, a.feedYesterday = 0, 0
	a.feedRateToday, a.feedRateYesterday = 0, 0

	obs := a.observe(a.prevBiomass, a.population.Count())
	step := ts.New(ts.First, 0, 1.0, obs, 0)
	step.Info = map[string]float64{
		InfoBiomass:         a.prevBiomass,
		InfoCount:           float64(a.population.Count()),
		InfoTemperature:     a.temp,
		InfoDissolvedOxygen: a.dissolvedOxygen,
		InfoUIA:             a.uia,
	}
	a.lastStep = step

	return step, nil
}

// Step takes one environmental step given the action
// [feeding rate, temperature setpoint, aeration] and returns the next
// TimeStep and whether the episode has ended. Actions outside the
// action bounds are clipped to them.
func (a *Aquaculture) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != ActionDims {
		panic(fmt.Sprintf("step: action must have %v dimensions, have %v",
			ActionDims, action.Len()))
	}

	act := make([]float64, ActionDims)
	copy(act, action.RawVector().Data)
	floatutils.ClipSlice(act, a.actionBounds)
	feedRate, setpoint, aeration := act[FeedRate], act[Setpoint], act[Aeration]

	a.dissolvedOxygen = aeration
	a.setpoint = setpoint
	a.temperature.SetDayOfYear(a.calendarDay())
	a.growth.SetDayOfYear(a.calendarDay())

	ambient := a.temperature.Ambient()
	heated := math.Max(setpoint-ambient, 0)
	a.temp = a.temperature.Set(setpoint)

	// Fish grow under yesterday's ammonia
	a.population.Grow(feedRate, a.temp, a.dissolvedOxygen, a.uia)

	var stocked, deaths int
	if a.cfg.Mortality.Enabled {
		stocked, deaths = a.mortality.Step(a.population, a.uia)
	}

	biomass := a.population.Biomass()
	count := a.population.Count()
	gain := biomass - a.prevBiomass

	feed := feedRate * a.cfg.Environment.FeedRatio * biomass
	a.feedYesterday, a.feedToday = a.feedToday, feed
	a.feedRateYesterday, a.feedRateToday = a.feedRateToday, feedRate
	a.uia = a.ammonia.Update(feed, a.temp)

	terms := a.GetReward(cost.Inputs{
		PrevBiomass: a.prevBiomass,
		Biomass:     biomass,
		FeedMass:    feed,
		HeatedDelta: heated,
		Oxygen:      a.dissolvedOxygen,
	})

	a.prevBiomass = biomass
	a.day++

	obs := a.observe(biomass, count)
	step := ts.New(ts.Mid, terms.Reward, 1.0, obs, a.day)
	step.Info = map[string]float64{
		InfoBiomass:         biomass,
		InfoBiomassGain:     gain,
		InfoCount:           float64(count),
		InfoUIA:             a.uia,
		InfoReward:          terms.Reward,
		InfoFeedRate:        feedRate,
		InfoFeedMass:        feed,
		InfoTemperature:     a.temp,
		InfoAmbient:         ambient,
		InfoDissolvedOxygen: a.dissolvedOxygen,
		InfoFishValue:       terms.FishValue,
		InfoFeedCost:        terms.FeedCost,
		InfoHeatCost:        terms.HeatCost,
		InfoOxygenationCost: terms.Oxygenation,
		InfoDeaths:          float64(deaths),
		InfoStocked:         float64(stocked),
	}

	a.End(&step)
	a.lastStep = step

	return step, step.Last(), nil
}

// observe returns the normalized observation of the current state
func (a *Aquaculture) observe(biomass float64, count int) *mat.VecDense {
	raw := mat.NewVecDense(ObservationDims, []float64{
		biomass,
		float64(count),
		a.temp,
		a.dissolvedOxygen,
		a.uia,
	})
	return a.Normalize(raw)
}

// Normalize maps a raw state vector to [0, 1] per dimension using the
// observation bounds. Values outside the bounds are clipped.
func (a *Aquaculture) Normalize(raw mat.Vector) *mat.VecDense {
	out := mat.NewVecDense(ObservationDims, nil)
	for i, b := range a.obsBounds {
		norm := (raw.AtVec(i) - b.Min) / (b.Max - b.Min)
		out.SetVec(i, floatutils.Clip(norm, 0, 1))
	}
	return out
}

// Denormalize maps a normalized observation back to raw units
func (a *Aquaculture) Denormalize(obs mat.Vector) *mat.VecDense {
	out := mat.NewVecDense(ObservationDims, nil)
	for i, b := range a.obsBounds {
		out.SetVec(i, obs.AtVec(i)*(b.Max-b.Min)+b.Min)
	}
	return out
}

// ObservationSpec returns the observation specification of the
// environment
func (a *Aquaculture) ObservationSpec() environment.Spec {
	return a.obsSpec
}

// ActionSpec returns the action specification of the environment
func (a *Aquaculture) ActionSpec() environment.Spec {
	return a.actionSpec
}

// DiscountSpec returns the discounting specification of the
// environment. The tank does not discount.
func (a *Aquaculture) DiscountSpec() environment.Spec {
	return environment.NewBoxSpec(environment.Discount, []float64{1},
		[]float64{1}, environment.Continuous)
}

// LastTimeStep returns the most recent TimeStep of the environment
func (a *Aquaculture) LastTimeStep() ts.TimeStep {
	return a.lastStep
}

// Render draws the current state of the tank. In human mode the frame
// is written as a PNG to the configured directory and the returned
// value is the path written. In rgb_array mode the frame is returned
// as an image.Image.
func (a *Aquaculture) Render(mode string) (any, error) {
	if mode != RenderHuman && mode != RenderRGBArray {
		return nil, fmt.Errorf("render: %q (allowed %v, %v): %w", mode,
			RenderHuman, RenderRGBArray, ErrRenderMode)
	}

	if a.renderer == nil {
		a.renderer = render.New(a.cfg.Render, a)
	}

	frame := a.renderer.Draw()
	if mode == RenderRGBArray {
		return frame, nil
	}
	path, err := a.renderer.Save(frame)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return path, nil
}

// Close releases the renderer, if one was created. Failures are logged
// and never returned.
func (a *Aquaculture) Close() error {
	if a.renderer == nil {
		return nil
	}
	if err := a.renderer.Close(); err != nil {
		klog.Warningf("aquaculture: closing renderer: %v", err)
	}
	a.renderer = nil
	return nil
}

// calendarDay returns the day of year the models are set to on the
// current day of the cycle. The first day of a cycle with the default
// start_day_of_year of 1 is day 0.
func (a *Aquaculture) calendarDay() int {
	return a.cfg.Growth.StartDayOfYear - 1 + a.day
}

// Region returns the name of the region the tank is in
func (a *Aquaculture) Region() string { return a.region }

// Day returns the number of days elapsed in the current cycle
func (a *Aquaculture) Day() int { return a.day }

// Biomass returns the total weight of the population in grams
func (a *Aquaculture) Biomass() float64 { return a.population.Biomass() }

// FishCount returns the number of fish in the tank
func (a *Aquaculture) FishCount() int { return a.population.Count() }

// Fishes returns the fish in the tank. The returned slice must not be
// modified.
func (a *Aquaculture) Fishes() []*fish.Fish { return a.population.Fishes() }

// Temperature returns the current tank temperature
func (a *Aquaculture) Temperature() float64 { return a.temp }

// TemperatureSetpoint returns the most recent temperature setpoint
func (a *Aquaculture) TemperatureSetpoint() float64 { return a.setpoint }

// DissolvedOxygen returns the current dissolved oxygen level
func (a *Aquaculture) DissolvedOxygen() float64 { return a.dissolvedOxygen }

// UIA returns the current un-ionized ammonia level
func (a *Aquaculture) UIA() float64 { return a.uia }

// FeedRateToday returns the feeding rate of the most recent day
func (a *Aquaculture) FeedRateToday() float64 { return a.feedRateToday }

// FeedRateYesterday returns the feeding rate of the day before
func (a *Aquaculture) FeedRateYesterday() float64 {
	return a.feedRateYesterday
}

// FeedToday returns the feed mass given on the most recent day
func (a *Aquaculture) FeedToday() float64 { return a.feedToday }

// FeedYesterday returns the feed mass given on the day before
func (a *Aquaculture) FeedYesterday() float64 { return a.feedYesterday }

func (a *Aquaculture) String() string {
	return fmt.Sprintf("Aquaculture  |  Region: %v  |  Day: %v  |  "+
		"Biomass: %.2fg  |  Count: %v  |  Temperature: %.2f", a.region,
		a.day, a.Biomass(), a.FishCount(), a.temp)
}

func intervals(low, high []float64) []r1.Interval {
	out := make([]r1.Interval, len(low))
	for i := range low {
		out[i] = r1.Interval{Min: low[i], Max: high[i]}
	}
	return out
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1.0
	}
	return out
}
