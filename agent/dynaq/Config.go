package dynaq

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/aquarl/agent"
	"github.com/samuelfneumann/aquarl/environment"
	"github.com/samuelfneumann/aquarl/expreplay"
)

// Config represents a configuration for the Dyna-Q agent
type Config struct {
	LearningRate   float64 `yaml:"alpha" json:"alpha"`
	Discount       float64 `yaml:"gamma" json:"gamma"`
	PlanningSteps  int     `yaml:"planning_steps" json:"planning_steps"`
	ObservationBin int     `yaml:"obs_bins" json:"obs_bins"`
	BufferSize     int     `yaml:"buffer_size" json:"buffer_size"`
	BatchSize      int     `yaml:"batch_size" json:"batch_size"`
	ReplayFreq     int     `yaml:"replay_freq" json:"replay_freq"`

	// ReplaySampler chooses which buffered transitions are replayed:
	// expreplay.Uniform draws a batch without replacement and
	// expreplay.Fifo replays the oldest transitions.
	ReplaySampler expreplay.SelectorType `yaml:"replay_sampler" json:"replay_sampler"`

	InitialEpsilon      float64 `yaml:"exploration_initial_eps" json:"exploration_initial_eps"`
	FinalEpsilon        float64 `yaml:"exploration_final_eps" json:"exploration_final_eps"`
	ExplorationFraction float64 `yaml:"exploration_fraction" json:"exploration_fraction"`

	// Episodes is the number of episodes over which the exploration
	// schedule is laid out. Train overrides it with its own count.
	Episodes int `yaml:"episodes" json:"episodes"`

	// PlotWindow is the moving-average window of the reward curve
	// drawn by Train. Windows of 1 or less draw only the raw rewards.
	PlotWindow int `yaml:"plot_window" json:"plot_window"`
}

// DefaultConfig returns the default configuration of the agent
func DefaultConfig() Config {
	return Config{
		LearningRate:   1e-3,
		Discount:       0.99,
		PlanningSteps:  10,
		ObservationBin: 10,
		BufferSize:     10000,
		BatchSize:      32,
		ReplayFreq:     5,
		ReplaySampler:  expreplay.Uniform,

		InitialEpsilon:      1.0,
		FinalEpsilon:        0.01,
		ExplorationFraction: 0.2,

		Episodes:   300,
		PlotWindow: 1,
	}
}

// LoadConfig returns the default configuration overlaid with the YAML
// file at path. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("loadConfig: parsing %v: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	return c, nil
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	rng *rand.Rand) (agent.Agent, error) {
	return New(env, c, rng)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*DynaQ)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.LearningRate < 0 || c.LearningRate > 1 {
		return fmt.Errorf("validate: alpha must be in [0, 1], have %v",
			c.LearningRate)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: gamma must be in [0, 1], have %v",
			c.Discount)
	}
	if c.PlanningSteps < 0 {
		return fmt.Errorf("validate: planning steps cannot be negative")
	}
	if c.ObservationBin < 1 {
		return fmt.Errorf("validate: obs_bins must be >= 1, have %v",
			c.ObservationBin)
	}
	if c.BatchSize < 1 || c.BufferSize < c.BatchSize {
		return fmt.Errorf("validate: need 1 <= batch size (%v) <= buffer "+
			"size (%v)", c.BatchSize, c.BufferSize)
	}
	if c.ReplayFreq < 1 {
		return fmt.Errorf("validate: replay_freq must be >= 1, have %v",
			c.ReplayFreq)
	}
	if c.ReplaySampler != expreplay.Uniform &&
		c.ReplaySampler != expreplay.Fifo {
		return fmt.Errorf("validate: replay_sampler must be %q or %q, have %q",
			expreplay.Uniform, expreplay.Fifo, c.ReplaySampler)
	}
	if c.FinalEpsilon < 0 || c.InitialEpsilon > 1 ||
		c.FinalEpsilon > c.InitialEpsilon {
		return fmt.Errorf("validate: need 0 <= final epsilon (%v) <= "+
			"initial epsilon (%v) <= 1", c.FinalEpsilon, c.InitialEpsilon)
	}
	if c.ExplorationFraction <= 0 || c.ExplorationFraction > 1 {
		return fmt.Errorf("validate: exploration fraction must be in "+
			"(0, 1], have %v", c.ExplorationFraction)
	}
	if c.Episodes < 1 {
		return fmt.Errorf("validate: episodes must be >= 1, have %v",
			c.Episodes)
	}
	return nil
}
