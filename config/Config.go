// Package config implements the typed parameter store used by every
// simulation model. A Config is loaded once per process, validated, and
// then passed by pointer to the constructors of the models that read it.
// Models never mutate a Config.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	// ErrUnknownRegion is returned when a region is requested that is
	// not described by every regional parameter group
	ErrUnknownRegion = errors.New("unknown region")

	// ErrMissingGroup is returned when a parameter group is absent or
	// empty after loading
	ErrMissingGroup = errors.New("missing parameter group")
)

// Config holds all simulation parameters
type Config struct {
	Growth      GrowthConfig      `yaml:"growth"`
	Biomass     BiomassConfig     `yaml:"biomass"`
	Temperature TemperatureConfig `yaml:"temperature"`
	Ammonia     AmmoniaConfig     `yaml:"ammonia"`
	Costs       CostsConfig       `yaml:"costs"`
	Reward      RewardConfig      `yaml:"reward"`
	Environment EnvironmentConfig `yaml:"environment"`
	Fish        FishConfig        `yaml:"fish"`
	Mortality   MortalityConfig   `yaml:"mortality"`
	Render      RenderConfig      `yaml:"render"`
}

// GrowthConfig holds the individual growth kinetics constants
type GrowthConfig struct {
	H                  float64            `yaml:"h"`
	B                  float64            `yaml:"b"`
	A                  float64            `yaml:"a"`
	KMin               float64            `yaml:"k_min"`
	J                  float64            `yaml:"j"`
	TMin               float64            `yaml:"t_min"`
	TOpt               float64            `yaml:"t_opt"`
	TMax               float64            `yaml:"t_max"`
	Kappa              float64            `yaml:"kappa"`
	DOCrit             float64            `yaml:"do_crit"`
	DOMin              float64            `yaml:"do_min"`
	UIACrit            float64            `yaml:"uia_crit"`
	UIAMax             float64            `yaml:"uia_max"`
	FOpt               float64            `yaml:"f_opt"`
	LeftWidth          float64            `yaml:"left_width"`
	RightWidth         float64            `yaml:"right_width"`
	EfficiencyExponent float64            `yaml:"efficiency_exponent"`
	WThreshold         float64            `yaml:"w_threshold"`
	SlowdownGamma      float64            `yaml:"slowdown_gamma"`
	StartDayOfYear     int                `yaml:"start_day_of_year"`
	Latitude           map[string]float64 `yaml:"latitude"`
}

// BiomassConfig holds the allometric exponents of anabolism (M) and
// catabolism (N)
type BiomassConfig struct {
	M float64 `yaml:"m"`
	N float64 `yaml:"n"`
}

// SiteConfig describes the seasonal ambient temperature of one region
type SiteConfig struct {
	TMean      float64 `yaml:"t_mean"`
	TAmp       float64 `yaml:"t_amp"`
	PhaseShift float64 `yaml:"phase_shift"`
}

// TemperatureConfig holds the tank temperature dynamics parameters
type TemperatureConfig struct {
	Alpha        float64               `yaml:"alpha"` // heater gain
	Beta         float64               `yaml:"beta"`  // ambient exchange
	SeasonPeriod int                   `yaml:"season_period"`
	NoiseStdDev  float64               `yaml:"noise_std_dev"`
	Sites        map[string]SiteConfig `yaml:"sites"`
}

// AmmoniaConfig holds the un-ionized ammonia model parameters
type AmmoniaConfig struct {
	PH               float64 `yaml:"ph"`
	DecayRate        float64 `yaml:"decay_rate"`
	Initial          float64 `yaml:"initial"`
	ProteinFraction  float64 `yaml:"protein_fraction"`
	NitrogenFraction float64 `yaml:"nitrogen_fraction"`
	ExcretedFraction float64 `yaml:"excreted_fraction"`
	Saturation       float64 `yaml:"saturation"`
	Min              float64 `yaml:"min"`
	Max              float64 `yaml:"max"`
}

// CommonCosts holds the tank constants shared by every region
type CommonCosts struct {
	SpecificHeat float64 `yaml:"c_p"`
	Volume       float64 `yaml:"v"`
	WaterMass    float64 `yaml:"m"`
	MaxPower     float64 `yaml:"p_max"`
}

// Prices holds the regional selling, feed, and electricity prices
type Prices struct {
	Selling     float64 `yaml:"p_s"`
	Feed        float64 `yaml:"p_f"`
	Electricity float64 `yaml:"p_e"`
}

// CostsConfig holds the economic parameters
type CostsConfig struct {
	Common  CommonCosts       `yaml:"common"`
	Regions map[string]Prices `yaml:"regions"`
}

// RewardWeights weights each economic term before summation
type RewardWeights struct {
	ValueGain   float64 `yaml:"value_gain"`
	Feed        float64 `yaml:"feed"`
	Heat        float64 `yaml:"heat"`
	Oxygenation float64 `yaml:"oxygenation"`
}

// RewardConfig holds the reward composition parameters
type RewardConfig struct {
	ValueScale float64       `yaml:"value_scale"`
	FeedScale  float64       `yaml:"feed_scale"`
	Weights    RewardWeights `yaml:"weights"`
}

// EnvironmentConfig holds the episode and space layout of the tank
type EnvironmentConfig struct {
	InitialFishCount       int       `yaml:"initial_fish_count"`
	MaxDays                int       `yaml:"max_days"`
	InitialTemperature     float64   `yaml:"initial_temperature"`
	InitialDissolvedOxygen float64   `yaml:"initial_dissolved_oxygen"`
	SurvivalBiomass        float64   `yaml:"survival_biomass"`
	FeedRatio              float64   `yaml:"feed_ratio"`
	ObservationLow         []float64 `yaml:"observation_low"`
	ObservationHigh        []float64 `yaml:"observation_high"`
	ActionLow              []float64 `yaml:"action_low"`
	ActionHigh             []float64 `yaml:"action_high"`
	ActionBins             []int     `yaml:"action_bins"`
}

// Distribution is a clipped Gaussian used to draw per-fish traits
type Distribution struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
	Min    float64 `yaml:"min"`
}

// FishConfig holds the distributions of per-individual traits
type FishConfig struct {
	FingerlingWeight    Distribution `yaml:"fingerling_weight"`
	JuvenileWeight      Distribution `yaml:"juvenile_weight"`
	ToJuvenileWeight    Distribution `yaml:"to_juvenile_weight"`
	ToJuvenileDays      Distribution `yaml:"to_juvenile_days"`
	ToAdultWeight       Distribution `yaml:"to_adult_weight"`
	ToAdultDays         Distribution `yaml:"to_adult_days"`
	NegativeGrowthAging float64      `yaml:"negative_growth_aging"`
}

// MortalityConfig holds the logistic UIA mortality fit and stocking
type MortalityConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Delta        float64 `yaml:"delta"` // maximum death rate, percent per day
	Beta         float64 `yaml:"beta"`
	Eta          float64 `yaml:"eta"`
	StockingRate int     `yaml:"stocking_rate"`
}

// RenderConfig holds the frame layout of the tank renderer
type RenderConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Dir    string `yaml:"dir"`
}

// Region is a view of every parameter that depends on the region
type Region struct {
	Name     string
	Latitude float64
	Site     SiteConfig
	Prices   Prices
}

// Default returns the validated embedded defaults
func Default() (*Config, error) {
	return Load("")
}

// Load returns the embedded defaults overlaid with the file at path.
// If path is empty, only the defaults are used. Keys that do not
// belong to the schema are rejected.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := decode(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("load: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load: reading config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("load: parsing %v: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return cfg, nil
}

// Parse decodes a YAML document overlaid on the embedded defaults
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := decode(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parse: parsing embedded defaults: %w", err)
	}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Region returns the regional view of the parameters for name. An
// error wrapping ErrUnknownRegion is returned if any regional group
// does not describe the region.
func (c *Config) Region(name string) (Region, error) {
	lat, ok := c.Growth.Latitude[name]
	if !ok {
		return Region{}, fmt.Errorf("region %q: no latitude in growth "+
			"group (allowed %v): %w", name, c.Regions(), ErrUnknownRegion)
	}
	site, ok := c.Temperature.Sites[name]
	if !ok {
		return Region{}, fmt.Errorf("region %q: no site in temperature "+
			"group (allowed %v): %w", name, c.Regions(), ErrUnknownRegion)
	}
	prices, ok := c.Costs.Regions[name]
	if !ok {
		return Region{}, fmt.Errorf("region %q: no prices in costs group "+
			"(allowed %v): %w", name, c.Regions(), ErrUnknownRegion)
	}

	return Region{Name: name, Latitude: lat, Site: site, Prices: prices}, nil
}

// Regions returns the sorted names of the regions described by every
// regional group
func (c *Config) Regions() []string {
	names := make([]string, 0, len(c.Growth.Latitude))
	for name := range c.Growth.Latitude {
		_, site := c.Temperature.Sites[name]
		_, prices := c.Costs.Regions[name]
		if site && prices {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
