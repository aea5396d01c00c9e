package population

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aquarl/config"
	"github.com/samuelfneumann/aquarl/model/fish"
	"github.com/samuelfneumann/aquarl/model/growth"
)

func newPopulation(t *testing.T, n int) (*Population, *config.Config) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	g, err := growth.New(cfg, "guangdong")
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	h := fish.NewHatchery(cfg.Fish, g, rng)
	return New(h, n, rng), cfg
}

func TestAggregates(t *testing.T) {
	p, _ := newPopulation(t, 100)

	if p.Count() != 100 {
		t.Fatalf("count: want(100) have(%v)", p.Count())
	}

	sum := 0.0
	for _, f := range p.Fishes() {
		sum += f.Weight
	}
	if p.Biomass() != sum {
		t.Errorf("biomass: want(%v) have(%v)", sum, p.Biomass())
	}
	if p.Biomass() < 500 {
		t.Errorf("biomass %v below 100 fish of minimum weight", p.Biomass())
	}
}

func TestGrow(t *testing.T) {
	p, _ := newPopulation(t, 20)

	before := p.Biomass()
	delta := p.Grow(0.68, 33, 1.0, 0.06)
	if math.Abs(p.Biomass()-(before+delta)) > 1e-9 {
		t.Errorf("biomass after growth: want(%v) have(%v)", before+delta,
			p.Biomass())
	}
	if delta <= 0 {
		t.Errorf("growth under ideal conditions should be positive, have(%v)",
			delta)
	}
}

func TestCull(t *testing.T) {
	p, _ := newPopulation(t, 10)

	if n := p.Cull(4); n != 4 || p.Count() != 6 {
		t.Errorf("cull 4: removed %v, %v remain", n, p.Count())
	}
	if n := p.Cull(100); n != 6 || p.Count() != 0 {
		t.Errorf("cull all: removed %v, %v remain", n, p.Count())
	}
	if p.Biomass() != 0 {
		t.Errorf("empty population biomass: want(0) have(%v)", p.Biomass())
	}
}

func TestMortalityCoefficient(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	m := NewMortality(cfg.Mortality)

	if k := m.Coefficient(m.Eta); math.Abs(k-m.Delta/2) > 1e-12 {
		t.Errorf("coefficient at eta: want(%v) have(%v)", m.Delta/2, k)
	}

	prev := -1.0
	for uia := 0.0; uia <= 3.0; uia += 0.01 {
		k := m.Coefficient(uia)
		if k < prev {
			t.Fatalf("coefficient not monotone at uia %v", uia)
		}
		if k < 0 || k > m.Delta {
			t.Fatalf("coefficient %v outside [0, %v]", k, m.Delta)
		}
		prev = k
	}
}

func TestMortalityStep(t *testing.T) {
	p, cfg := newPopulation(t, 100)
	m := NewMortality(cfg.Mortality)
	m.StockingRate = 10

	// Low ammonia kills almost nothing
	stocked, deaths := m.Step(p, 0.06)
	if stocked != 10 {
		t.Errorf("stocked: want(10) have(%v)", stocked)
	}
	if want := m.Deaths(110, 0.06); deaths != want {
		t.Errorf("deaths: want(%v) have(%v)", want, deaths)
	}
	if p.Count() != 110-deaths {
		t.Errorf("count: want(%v) have(%v)", 110-deaths, p.Count())
	}

	// High ammonia kills most of the population
	before := p.Count()
	_, deaths = m.Step(p, 1.8)
	if deaths < (before+10)/2 {
		t.Errorf("deaths at high UIA too low: %v of %v", deaths, before+10)
	}
}
