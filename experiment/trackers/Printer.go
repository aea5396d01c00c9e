package trackers

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	ts "github.com/samuelfneumann/aquarl/timestep"
)

// Exploring is implemented by agents which explore with probability
// epsilon
type Exploring interface {
	Epsilon() float64
}

// Printer writes a line for each finished episode with its total reward
// and the agent's exploration probability after the episode. On Save it
// writes the total, mean, and standard deviation of the episode
// rewards.
type Printer struct {
	out     io.Writer
	agent   Exploring
	total   float64
	rewards []float64
}

// NewPrinter returns a new Printer writing to out
func NewPrinter(out io.Writer, agent Exploring) *Printer {
	return &Printer{out: out, agent: agent}
}

// Track accumulates rewards and prints each finished episode
func (p *Printer) Track(t ts.TimeStep) {
	if t.First() {
		p.total = 0
		return
	}
	p.total += t.Reward
	if !t.Last() {
		return
	}

	p.rewards = append(p.rewards, p.total)
	fmt.Fprintf(p.out, "Episode %d: Total Reward = %.2f, Epsilon = %.4f\n",
		len(p.rewards), p.total, p.agent.Epsilon())
}

// Save prints the summary of all finished episodes
func (p *Printer) Save() error {
	if len(p.rewards) == 0 {
		return nil
	}
	mean, std := stat.PopMeanStdDev(p.rewards, nil)

	_, err := fmt.Fprintf(p.out, "\nTotal Cumulative Reward after %d "+
		"Episodes: %.2f\nAverage Reward per Episode: %.2f\n"+
		"Reward Variation (Std Dev): %.2f\n", len(p.rewards),
		floats.Sum(p.rewards), mean, std)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
