// Package temperature implements the water temperature dynamics of a
// heated tank exchanging heat with a seasonal ambient environment.
package temperature

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aquarl/config"
	"github.com/samuelfneumann/aquarl/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"
)

// Model tracks the tank temperature and its own day-of-year calendar.
// Ambient temperature follows a sinusoidal seasonal cycle with
// additive Gaussian noise.
type Model struct {
	site   config.SiteConfig
	period int
	alpha  float64
	beta   float64
	bounds r1.Interval

	noise distuv.Normal

	day     int
	current float64
}

// New returns a new temperature model for the named region. Noise is
// drawn from src, which is usually shared by an entire run.
func New(cfg *config.Config, region string, src rand.Source) (*Model,
	error) {
	r, err := cfg.Region(region)
	if err != nil {
		return nil, fmt.Errorf("new temperature model: %w", err)
	}

	tc := cfg.Temperature
	return &Model{
		site:   r.Site,
		period: tc.SeasonPeriod,
		alpha:  tc.Alpha,
		beta:   tc.Beta,
		bounds: r1.Interval{Min: cfg.Growth.TMin, Max: cfg.Growth.TMax},
		noise:  distuv.Normal{Mu: 0, Sigma: tc.NoiseStdDev, Src: src},

		day:     1,
		current: r.Site.TMean,
	}, nil
}

// SetDayOfYear sets the day of the season
func (m *Model) SetDayOfYear(day int) {
	m.day = day
}

// DayOfYear returns the current day of the season
func (m *Model) DayOfYear() int {
	return m.day
}

// Current returns the current tank temperature
func (m *Model) Current() float64 {
	return m.current
}

// Seasonal returns the noiseless ambient temperature of the current day
func (m *Model) Seasonal() float64 {
	phase := 2 * math.Pi * (float64(m.day) - m.site.PhaseShift) /
		float64(m.period)
	return m.site.TMean + m.site.TAmp*math.Sin(phase)
}

// Ambient returns the ambient temperature of the current day. Each call
// draws fresh noise.
func (m *Model) Ambient() float64 {
	return m.Seasonal() + m.noise.Rand()
}

// Set advances the tank temperature by one day toward setpoint and
// returns the new temperature. The heater only acts when the tank is
// colder than the setpoint. Both the setpoint and the result are
// clipped to the viable band, and the day of year wraps at the end of
// the season.
func (m *Model) Set(setpoint float64) float64 {
	target := floatutils.ClipInterval(setpoint, m.bounds)
	ambient := m.Ambient()

	alpha := 0.0
	if m.current < target {
		alpha = m.alpha
	}

	next := m.current + alpha*(target-m.current) + m.beta*(ambient-m.current)
	m.current = floatutils.ClipInterval(next, m.bounds)

	m.day = 1 + m.day%m.period
	return m.current
}
