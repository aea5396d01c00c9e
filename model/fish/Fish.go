// Package fish implements individual fish: their weight, age, life
// stage, and the per-individual thresholds at which they change stage.
package fish

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aquarl/config"
	"gonum.org/v1/gonum/stat/distuv"
)

// Stage is the life stage of a fish
type Stage int

const (
	Fingerling Stage = iota
	Juvenile
	Adult
)

func (s Stage) String() string {
	switch s {
	case Fingerling:
		return "fingerling"
	case Juvenile:
		return "juvenile"
	default:
		return "adult"
	}
}

// Grower computes the daily weight change of a fish of weight w
// given feeding rate f, temperature t, dissolved oxygen do, and
// un-ionized ammonia uia
type Grower interface {
	Growth(f, t, do, uia, w float64) float64
}

// Traits are the per-individual stage thresholds of a fish. Weight
// thresholds are in grams and day thresholds in days of age. The
// juvenile thresholds never exceed the adult thresholds.
type Traits struct {
	ToJuvenileWeight float64
	ToJuvenileDays   int
	ToAdultWeight    float64
	ToAdultDays      int
}

// Fish is a single individual in a tank
type Fish struct {
	Weight float64
	Age    int // days
	Traits

	hatchery *Hatchery
}

// Stage returns the life stage of the fish. A fish is an adult once it
// reaches either adult threshold, a juvenile once it reaches either
// juvenile threshold, and a fingerling otherwise.
func (f *Fish) Stage() Stage {
	switch {
	case f.Weight >= f.ToAdultWeight || f.Age >= f.ToAdultDays:
		return Adult
	case f.Weight >= f.ToJuvenileWeight || f.Age >= f.ToJuvenileDays:
		return Juvenile
	default:
		return Fingerling
	}
}

// Grow grows the fish by a single day and returns the weight change.
// A fish that gains weight ages by a day. A fish that loses weight
// only ages with the hatchery's negative growth aging probability.
func (f *Fish) Grow(feedRate, temperature, do, uia float64) float64 {
	h := f.hatchery
	growth := h.grower.Growth(feedRate, temperature, do, uia, f.Weight)
	f.Weight += growth

	if growth >= 0 {
		f.Age++
	} else if h.rng.Float64() < h.cfg.NegativeGrowthAging {
		f.Age++
	}
	return growth
}

func (f *Fish) String() string {
	return fmt.Sprintf("Fish(stage=%v, weight=%.2fg, age=%v days)",
		f.Stage(), f.Weight, f.Age)
}

// Hatchery creates fish whose traits are drawn from the configured
// distributions. All fish of a Hatchery share its growth model and
// random number generator.
type Hatchery struct {
	cfg    config.FishConfig
	grower Grower
	rng    *rand.Rand
}

// NewHatchery returns a new Hatchery
func NewHatchery(cfg config.FishConfig, grower Grower,
	rng *rand.Rand) *Hatchery {
	if grower == nil {
		panic("newHatchery: grower must be provided")
	}
	return &Hatchery{cfg: cfg, grower: grower, rng: rng}
}

// New returns a fish of the given weight with freshly drawn traits.
// Weights below the fingerling minimum are raised to it.
func (h *Hatchery) New(weight float64) *Fish {
	return &Fish{
		Weight:   math.Max(weight, h.cfg.FingerlingWeight.Min),
		Traits:   h.Traits(),
		hatchery: h,
	}
}

// Random returns a new fish whose stage is chosen uniformly between
// fingerling and juvenile and whose weight is drawn for that stage
func (h *Hatchery) Random() *Fish {
	dist := h.cfg.FingerlingWeight
	if h.rng.Intn(2) == 1 {
		dist = h.cfg.JuvenileWeight
	}

	weight := math.Round(h.draw(dist)*100) / 100
	return h.New(math.Max(weight, dist.Min))
}

// Traits draws a new set of stage thresholds
func (h *Hatchery) Traits() Traits {
	toJuvenileWeight := math.Max(h.draw(h.cfg.ToJuvenileWeight),
		h.cfg.ToJuvenileWeight.Min)
	toJuvenileDays := max(int(h.draw(h.cfg.ToJuvenileDays)),
		int(h.cfg.ToJuvenileDays.Min))
	toAdultWeight := math.Max(h.draw(h.cfg.ToAdultWeight),
		h.cfg.ToAdultWeight.Min)
	toAdultDays := max(int(h.draw(h.cfg.ToAdultDays)),
		int(h.cfg.ToAdultDays.Min))

	return Traits{
		ToJuvenileWeight: math.Min(toJuvenileWeight, toAdultWeight),
		ToAdultWeight:    math.Max(toJuvenileWeight, toAdultWeight),
		ToJuvenileDays:   min(toJuvenileDays, toAdultDays),
		ToAdultDays:      max(toJuvenileDays, toAdultDays),
	}
}

func (h *Hatchery) draw(d config.Distribution) float64 {
	n := distuv.Normal{Mu: d.Mean, Sigma: d.StdDev, Src: h.rng}
	return n.Rand()
}
