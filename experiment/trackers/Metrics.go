package trackers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/samuelfneumann/aquarl/environment/aquaculture"
	ts "github.com/samuelfneumann/aquarl/timestep"
)

// Tabular is implemented by tabular agents reporting the size of their
// tables
type Tabular interface {
	Exploring
	States() int
}

// Metrics publishes training progress to a prometheus registry
type Metrics struct {
	agent Tabular

	episodes      prometheus.Counter
	steps         prometheus.Counter
	episodeReward prometheus.Gauge
	dailyReward   prometheus.Histogram
	epsilon       prometheus.Gauge
	states        prometheus.Gauge
	biomass       prometheus.Gauge
	uia           prometheus.Gauge

	total float64
}

// NewMetrics registers the training metrics of agent on reg
func NewMetrics(reg prometheus.Registerer, agent Tabular) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		agent: agent,

		episodes: factory.NewCounter(prometheus.CounterOpts{
			Name: "aquarl_episodes_total",
			Help: "Number of finished training episodes.",
		}),
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "aquarl_steps_total",
			Help: "Number of environment steps (days) simulated.",
		}),
		episodeReward: factory.NewGauge(prometheus.GaugeOpts{
			Name: "aquarl_episode_reward",
			Help: "Total reward of the most recent episode.",
		}),
		dailyReward: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "aquarl_daily_reward",
			Help:    "Distribution of the reward of a single day.",
			Buckets: prometheus.LinearBuckets(-5, 1, 11),
		}),
		epsilon: factory.NewGauge(prometheus.GaugeOpts{
			Name: "aquarl_epsilon",
			Help: "Current exploration probability of the agent.",
		}),
		states: factory.NewGauge(prometheus.GaugeOpts{
			Name: "aquarl_qtable_states",
			Help: "Number of discrete states in the Q-table.",
		}),
		biomass: factory.NewGauge(prometheus.GaugeOpts{
			Name: "aquarl_biomass_grams",
			Help: "Biomass of the tank on the most recent day.",
		}),
		uia: factory.NewGauge(prometheus.GaugeOpts{
			Name: "aquarl_uia_mg_per_litre",
			Help: "Un-ionized ammonia of the tank on the most recent day.",
		}),
	}
}

// Track updates the metrics with a TimeStep
func (m *Metrics) Track(t ts.TimeStep) {
	m.biomass.Set(t.Info[aquaculture.InfoBiomass])
	m.uia.Set(t.Info[aquaculture.InfoUIA])
	if t.First() {
		m.total = 0
		return
	}

	m.steps.Inc()
	m.dailyReward.Observe(t.Reward)
	m.total += t.Reward

	if t.Last() {
		m.episodes.Inc()
		m.episodeReward.Set(m.total)
		m.epsilon.Set(m.agent.Epsilon())
		m.states.Set(float64(m.agent.States()))
	}
}

// Save does nothing; metrics are scraped while training
func (m *Metrics) Save() error {
	return nil
}
