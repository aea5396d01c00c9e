// Package growth implements the bioenergetic growth model of a single
// fish. Daily growth is the difference between anabolism and
// catabolism, scaled by a logistic factor that drives growth toward
// zero as the fish approaches its asymptotic size.
package growth

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/aquarl/config"
)

const (
	// AxialTilt is the Earth's axial tilt in degrees
	AxialTilt float64 = 23.439

	// Angular frequency of the solar declination, in radians per day
	declinationFreq float64 = math.Pi / 182.625
)

// Model computes the daily weight change of a fish. A Model holds the
// photoperiod factor of its current day of year, which must be kept
// in step with the simulation calendar through SetDayOfYear.
type Model struct {
	params   config.GrowthConfig
	m, n     float64 // allometric exponents
	latitude float64
	day      int
	rho      float64
}

// New returns a new growth model for the named region
func New(cfg *config.Config, region string) (*Model, error) {
	r, err := cfg.Region(region)
	if err != nil {
		return nil, fmt.Errorf("new growth model: %w", err)
	}

	m := &Model{
		params:   cfg.Growth,
		m:        cfg.Biomass.M,
		n:        cfg.Biomass.N,
		latitude: r.Latitude,
	}
	m.SetDayOfYear(cfg.Growth.StartDayOfYear)
	return m, nil
}

// SetDayOfYear sets the day of year and recomputes the photoperiod
// factor for that day
func (m *Model) SetDayOfYear(day int) {
	m.day = day
	m.rho = Photoperiod(day, m.latitude)
}

// DayOfYear returns the day of year the photoperiod is computed for
func (m *Model) DayOfYear() int {
	return m.day
}

// Rho returns the current photoperiod factor
func (m *Model) Rho() float64 {
	return m.rho
}

// Photoperiod returns the day length at the given latitude (degrees)
// on the given day of year, divided by 12 hours
func Photoperiod(dayOfYear int, latitude float64) float64 {
	tilt := AxialTilt * math.Pi / 180
	lat := latitude * math.Pi / 180

	m := 1 - math.Tan(lat)*math.Tan(tilt*math.Cos(declinationFreq*
		float64(dayOfYear)))
	m = math.Max(0, math.Min(2, m))

	frac := math.Acos(1-m) / math.Pi
	return frac * 24.0 / 12.0
}

// Tau returns the temperature factor, 1 at the optimum temperature and
// decaying on both sides
func (m *Model) Tau(t float64) float64 {
	p := m.params
	if t >= p.TOpt {
		return math.Exp(-p.Kappa * math.Pow((t-p.TOpt)/(p.TMax-p.TOpt), 4))
	}
	return math.Exp(-p.Kappa * math.Pow((p.TOpt-t)/(p.TOpt-p.TMin), 4))
}

// Sigma returns the dissolved oxygen factor
func (m *Model) Sigma(do float64) float64 {
	p := m.params
	switch {
	case do > p.DOCrit:
		return 1.0
	case do >= p.DOMin:
		return (do - p.DOMin) / (p.DOCrit - p.DOMin)
	default:
		return 0.0
	}
}

// Nu returns the un-ionized ammonia factor
func (m *Model) Nu(uia float64) float64 {
	p := m.params
	switch {
	case uia < p.UIACrit:
		return 1.0
	case uia <= p.UIAMax:
		return (p.UIAMax - uia) / (p.UIAMax - p.UIACrit)
	default:
		return 0.0
	}
}

// FeedEfficiency returns the efficiency of feeding rate f, peaking at
// the optimal feeding rate
func (m *Model) FeedEfficiency(f float64) float64 {
	p := m.params
	width := p.RightWidth
	if f < p.FOpt {
		width = p.LeftWidth
	}
	return math.Exp(-math.Pow(math.Abs(f-p.FOpt)/width, p.EfficiencyExponent))
}

// Anabolism returns the daily anabolic rate. Anabolism is zero when
// no feed is given.
func (m *Model) Anabolism(f, t, do, uia, w float64) float64 {
	if f == 0 {
		return 0
	}
	p := m.params
	return p.H * m.rho * m.FeedEfficiency(f) * p.B * (1 - p.A) * m.Tau(t) *
		m.Sigma(do) * m.Nu(uia) * math.Pow(w, m.m)
}

// Catabolism returns the daily catabolic rate
func (m *Model) Catabolism(t, w float64) float64 {
	p := m.params
	return p.KMin * math.Exp(p.J*(t-p.TMin)) * math.Pow(w, m.n)
}

// Slowdown returns the logistic factor centered on the weight
// threshold which drives growth to zero for large fish
func (m *Model) Slowdown(w float64) float64 {
	return 1.0 / (1.0 + math.Exp(m.params.SlowdownGamma*(w-m.params.WThreshold)))
}

// Growth returns the daily weight change in grams of a fish of weight
// w given feeding rate f, temperature t, dissolved oxygen do, and
// un-ionized ammonia uia. The result may be negative.
func (m *Model) Growth(f, t, do, uia, w float64) float64 {
	base := m.Anabolism(f, t, do, uia, w) - m.Catabolism(t, w)
	return base * m.Slowdown(w)
}
