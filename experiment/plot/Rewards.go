// Package plot draws learning curves of experiments
package plot

import (
	"fmt"
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Rewards saves a plot of the total reward of each episode of a Dyna-Q
// run in region to path. The image format is chosen by the extension of
// path. If window > 1 and there are at least window episodes, the
// moving average of the rewards over window episodes is drawn over the
// raw curve.
func Rewards(rewards []float64, region string, finalEps float64, window int,
	path string) error {
	if len(rewards) == 0 {
		return fmt.Errorf("rewards: no episodes to plot")
	}
	name := Capitalize(region)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Dyna-Q Performance in %s Region | "+
		"Final ε = %.3f", name, finalEps)
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Total Reward"
	p.Add(plotter.NewGrid())

	raw, err := plotter.NewLine(points(rewards, 0))
	if err != nil {
		return fmt.Errorf("rewards: could not create line: %w", err)
	}
	raw.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(raw)
	p.Legend.Add("Region: "+name, raw)
	p.Legend.Top = true

	if window > 1 && len(rewards) >= window {
		avg, err := plotter.NewLine(points(MovingAverage(rewards, window),
			window-1))
		if err != nil {
			return fmt.Errorf("rewards: could not create line: %w", err)
		}
		avg.Color = color.RGBA{R: 255, G: 127, B: 14, A: 255}
		avg.Width = vg.Points(2)
		p.Add(avg)
		p.Legend.Add(fmt.Sprintf("Moving average (%d)", window), avg)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("rewards: could not save plot: %w", err)
	}
	return nil
}

// MovingAverage returns the means of each run of window consecutive
// values of data. Only full windows are averaged, so the result has
// len(data) - window + 1 elements.
func MovingAverage(data []float64, window int) []float64 {
	if window < 1 || len(data) < window {
		return nil
	}

	avg := make([]float64, len(data)-window+1)
	for i := range avg {
		avg[i] = floats.Sum(data[i:i+window]) / float64(window)
	}
	return avg
}

// Capitalize returns s with its first letter upper-cased and the rest
// lower-cased
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// points returns the XYs of data with the first episode plotted at
// offset
func points(data []float64, offset int) plotter.XYs {
	pts := make(plotter.XYs, len(data))
	for i, v := range data {
		pts[i].X = float64(i + offset)
		pts[i].Y = v
	}
	return pts
}
