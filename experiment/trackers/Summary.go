package trackers

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/samuelfneumann/aquarl/environment/aquaculture"
	ts "github.com/samuelfneumann/aquarl/timestep"
	"github.com/samuelfneumann/aquarl/utils/calc"
)

// Production holds the production indicators of a single grow-out
// cycle. Indicators that are undefined for the cycle are NaN.
type Production struct {
	Days             int
	InitialBiomass   float64 // g
	FinalBiomass     float64 // g
	Feed             float64 // g
	FCR              float64
	SGR              float64 // % per day
	ProfitMargin     float64 // %
	EnergyEfficiency float64
}

// Summary computes the production indicators of each episode on an
// aquaculture environment from the diagnostics of its TimeSteps
type Summary struct {
	out      io.Writer
	episodes []Production

	initial   float64
	feed      float64
	revenue   []float64
	cost      []float64
	valueGain float64
	heat      float64
	oxygen    float64
}

// NewSummary returns a new Summary which writes a table of its
// indicators to out on Save
func NewSummary(out io.Writer) *Summary {
	return &Summary{out: out}
}

// Track accumulates the diagnostics of a TimeStep
func (s *Summary) Track(t ts.TimeStep) {
	if t.First() {
		s.initial = t.Info[aquaculture.InfoBiomass]
		s.feed, s.valueGain, s.heat, s.oxygen = 0, 0, 0, 0
		s.revenue, s.cost = s.revenue[:0], s.cost[:0]
		return
	}

	info := t.Info
	s.feed += info[aquaculture.InfoFeedMass]
	s.valueGain += info[aquaculture.InfoFishValue]
	s.heat += info[aquaculture.InfoHeatCost]
	s.oxygen += info[aquaculture.InfoOxygenationCost]
	s.revenue = append(s.revenue, info[aquaculture.InfoFishValue])
	s.cost = append(s.cost, info[aquaculture.InfoFeedCost]+
		info[aquaculture.InfoHeatCost]+info[aquaculture.InfoOxygenationCost])

	if t.Last() {
		s.episodes = append(s.episodes, s.production(t))
	}
}

func (s *Summary) production(last ts.TimeStep) Production {
	final := last.Info[aquaculture.InfoBiomass]
	p := Production{
		Days:           last.Number,
		InitialBiomass: s.initial,
		FinalBiomass:   final,
		Feed:           s.feed,
	}

	p.FCR = orNaN(calc.FCR(s.feed, final, s.initial))
	p.SGR = orNaN(calc.SGR(s.initial, final, last.Number))
	p.ProfitMargin = orNaN(calc.ProfitMargin(s.revenue, s.cost))
	p.EnergyEfficiency = orNaN(calc.EnergyEfficiency(s.valueGain, s.heat,
		s.oxygen))
	return p
}

// Episodes returns the indicators of each finished episode
func (s *Summary) Episodes() []Production {
	return s.episodes
}

// Save writes a table of the indicators of each episode
func (s *Summary) Save() error {
	if len(s.episodes) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Episode\tDays\tBiomass (g)\tFeed (g)\tFCR\tSGR (%)\t"+
		"Margin (%)\tEnergy Eff.\t")
	for i, p := range s.episodes {
		fmt.Fprintf(w, "%d\t%d\t%.1f\t%.1f\t%.3f\t%.3f\t%.2f\t%.3f\t\n", i+1,
			p.Days, p.FinalBiomass, p.Feed, p.FCR, p.SGR, p.ProfitMargin,
			p.EnergyEfficiency)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func orNaN(v float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	return v
}
