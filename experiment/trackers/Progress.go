package trackers

import (
	"fmt"

	ts "github.com/samuelfneumann/aquarl/timestep"
	"github.com/samuelfneumann/aquarl/utils/progressbar"
)

// Progress advances a progress bar by one for each finished episode
type Progress struct {
	bar     *progressbar.ManualProgressBar
	episode int
	total   float64
}

// NewProgress returns a new Progress tracker driving bar
func NewProgress(bar *progressbar.ManualProgressBar) *Progress {
	return &Progress{bar: bar}
}

// Track redraws the bar at the end of each episode
func (p *Progress) Track(t ts.TimeStep) {
	if t.First() {
		p.total = 0
		return
	}
	p.total += t.Reward
	if !t.Last() {
		return
	}

	p.episode++
	p.bar.Increment()
	p.bar.SetStatus(fmt.Sprintf("episode %d return %.2f", p.episode,
		p.total))
	p.bar.Display()
}

// Save finishes the bar
func (p *Progress) Save() error {
	p.bar.Finish()
	return nil
}
