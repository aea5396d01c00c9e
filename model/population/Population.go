// Package population implements a tank population of individual fish
// along with its aggregate biomass and the population-level mortality
// and stocking model.
package population

import (
	"math"
	"slices"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aquarl/config"
	"github.com/samuelfneumann/aquarl/model/fish"
)

// Population is an ordered collection of fish
type Population struct {
	fishes   []*fish.Fish
	hatchery *fish.Hatchery
	rng      *rand.Rand
}

// New returns a population of n randomly generated fish
func New(h *fish.Hatchery, n int, rng *rand.Rand) *Population {
	p := &Population{
		fishes:   make([]*fish.Fish, 0, n),
		hatchery: h,
		rng:      rng,
	}
	p.Stock(n)
	return p
}

// Fishes returns the fish in the population. The returned slice must
// not be modified.
func (p *Population) Fishes() []*fish.Fish {
	return p.fishes
}

// Count returns the number of fish in the population
func (p *Population) Count() int {
	return len(p.fishes)
}

// Biomass returns the total weight of the population in grams
func (p *Population) Biomass() float64 {
	total := 0.0
	for _, f := range p.fishes {
		total += f.Weight
	}
	return total
}

// Grow grows each fish by a single day, in order, and returns the
// total weight change
func (p *Population) Grow(feedRate, temperature, do, uia float64) float64 {
	total := 0.0
	for _, f := range p.fishes {
		total += f.Grow(feedRate, temperature, do, uia)
	}
	return total
}

// Stock adds n randomly generated fish to the population
func (p *Population) Stock(n int) {
	for i := 0; i < n; i++ {
		p.fishes = append(p.fishes, p.hatchery.Random())
	}
}

// Cull removes n fish chosen uniformly at random and returns the
// number removed
func (p *Population) Cull(n int) int {
	n = min(n, len(p.fishes))
	for i := 0; i < n; i++ {
		idx := p.rng.Intn(len(p.fishes))
		p.fishes = slices.Delete(p.fishes, idx, idx+1)
	}
	return n
}

// Mortality is the logistic fit of daily mortality to un-ionized
// ammonia. Coefficients are percentages of the population per day.
type Mortality struct {
	Delta        float64 // maximum daily mortality, percent
	Beta         float64
	Eta          float64 // UIA at half the maximum mortality
	StockingRate int
}

// NewMortality returns the mortality model of a configuration
func NewMortality(cfg config.MortalityConfig) Mortality {
	return Mortality{
		Delta:        cfg.Delta,
		Beta:         cfg.Beta,
		Eta:          cfg.Eta,
		StockingRate: cfg.StockingRate,
	}
}

// Coefficient returns the daily mortality percentage at a UIA level.
// The coefficient increases monotonically with UIA and is bounded by
// Delta.
func (m Mortality) Coefficient(uia float64) float64 {
	return m.Delta / (1 + math.Exp(-m.Beta*(uia-m.Eta)))
}

// Deaths returns the number of deaths in a population of size n at a
// UIA level, rounded down
func (m Mortality) Deaths(n int, uia float64) int {
	deaths := int(float64(n) * m.Coefficient(uia) / 100)
	return min(max(deaths, 0), n)
}

// Step stocks the population and then applies a day of mortality. It
// returns the number of fish stocked and the number of deaths.
func (m Mortality) Step(p *Population, uia float64) (stocked, deaths int) {
	p.Stock(m.StockingRate)
	deaths = p.Cull(m.Deaths(p.Count(), uia))
	return m.StockingRate, deaths
}
