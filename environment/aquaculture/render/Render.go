// Package render draws frames of a fish tank. Frames are drawn from a
// read-only View of a tank and never touch the simulation's random
// number generator, so rendering does not change a run.
package render

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/samuelfneumann/aquarl/config"
	"github.com/samuelfneumann/aquarl/model/fish"
	"github.com/samuelfneumann/aquarl/utils/floatutils"
)

const (
	// Golden angle in radians, used to spread fish over the tank
	goldenAngle float64 = 2.399963229728653

	tankMargin   float64 = 50
	barWidth     float64 = 200
	barHeight    float64 = 18
	maxBarUIA    float64 = 1.4
	maxBarTemp   float64 = 40.0
	swimRate     float64 = 0.05 // radians per day
	maxParticles int     = 30
)

// View is the read-only state of a tank that a Renderer draws
type View interface {
	Region() string
	Day() int
	Biomass() float64
	FishCount() int
	Fishes() []*fish.Fish
	Temperature() float64
	TemperatureSetpoint() float64
	DissolvedOxygen() float64
	UIA() float64
	FeedRateToday() float64
}

// Renderer draws frames of a tank
type Renderer struct {
	view   View
	width  float64
	height float64
	dir    string
	frames int

	centreX, centreY float64
	radiusX, radiusY float64
}

// New returns a new Renderer of the tank seen through v
func New(cfg config.RenderConfig, v View) *Renderer {
	w, h := float64(cfg.Width), float64(cfg.Height)
	return &Renderer{
		view:   v,
		width:  w,
		height: h,
		dir:    cfg.Dir,

		centreX: w / 2,
		centreY: h * 4 / 9,
		radiusX: w / 3,
		radiusY: h * 4 / 9,
	}
}

// Frames returns the number of frames saved
func (r *Renderer) Frames() int {
	return r.frames
}

// Draw draws the current state of the tank
func (r *Renderer) Draw() image.Image {
	dc := gg.NewContext(int(r.width), int(r.height))
	dc.SetRGB255(240, 248, 255)
	dc.Clear()

	r.drawTank(dc)
	r.drawHeater(dc)
	r.drawBubbles(dc)
	r.drawFeed(dc)
	r.drawFish(dc)
	r.drawPanel(dc)

	return dc.Image()
}

// Save writes a frame as the next numbered PNG in the output directory
// and returns the path written
func (r *Renderer) Save(frame image.Image) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("save: creating frame directory: %w", err)
	}

	path := filepath.Join(r.dir, fmt.Sprintf("frame_%05d.png", r.frames))
	if err := gg.SavePNG(path, frame); err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	r.frames++
	return path, nil
}

// Close releases the Renderer. A closed Renderer must not be used.
func (r *Renderer) Close() error {
	r.view = nil
	return nil
}

func (r *Renderer) drawTank(dc *gg.Context) {
	dc.DrawEllipse(r.centreX, r.centreY, r.radiusX, r.radiusY)
	dc.SetRGB255(173, 216, 230)
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	dc.Stroke()
}

// drawHeater draws the heater beside the tank, glowing while the tank
// is below its setpoint
func (r *Renderer) drawHeater(dc *gg.Context) {
	x := r.centreX + r.radiusX + 30
	y := r.centreY - 60

	dc.DrawRectangle(x, y, 40, 120)
	if r.view.Temperature() < r.view.TemperatureSetpoint() {
		dc.SetRGB255(255, 80, 0)
	} else {
		dc.SetRGB255(120, 120, 120)
	}
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("Heater %.1f°C",
		r.view.TemperatureSetpoint()), x+20, y+140, 0.5, 0.5)
}

// drawBubbles draws aeration bubbles rising on the left of the tank,
// more of them for higher dissolved oxygen
func (r *Renderer) drawBubbles(dc *gg.Context) {
	n := int(r.view.DissolvedOxygen() * float64(maxParticles))
	day := float64(r.view.Day())

	dc.SetRGBA255(255, 255, 255, 200)
	for i := 0; i < n; i++ {
		rise := math.Mod(float64(i)*37+day*23, 2*r.radiusY-2*tankMargin)
		x := r.centreX - r.radiusX/2 + 12*math.Sin(float64(i)+day)
		y := r.centreY + r.radiusY - tankMargin - rise
		dc.DrawCircle(x, y, 3+float64(i%3))
		dc.Fill()
	}
}

// drawFeed draws feed pellets sinking from the top of the tank, more
// of them for higher feeding rates
func (r *Renderer) drawFeed(dc *gg.Context) {
	n := int(r.view.FeedRateToday() * float64(maxParticles))
	day := float64(r.view.Day())

	dc.SetRGB255(139, 90, 43)
	for i := 0; i < n; i++ {
		x := r.centreX + 8*float64(i-n/2) + 5*math.Cos(float64(i)*1.7+day)
		y := r.centreY - r.radiusY + tankMargin +
			math.Mod(float64(i)*29+day*11, r.radiusY)
		dc.DrawCircle(x, y, 2.5)
		dc.Fill()
	}
}

// drawFish spreads the fish over the tank on a sunflower spiral which
// rotates slowly with the days
func (r *Renderer) drawFish(dc *gg.Context) {
	fishes := r.view.Fishes()
	n := float64(len(fishes))
	swim := float64(r.view.Day()) * swimRate

	for i, f := range fishes {
		radius := math.Sqrt((float64(i) + 0.5) / n)
		angle := float64(i)*goldenAngle + swim
		x := r.centreX + radius*(r.radiusX-tankMargin)*math.Cos(angle)
		y := r.centreY + radius*(r.radiusY-tankMargin)*math.Sin(angle)

		scale := fishScale(f)
		switch f.Stage() {
		case fish.Fingerling:
			dc.SetRGB255(255, 200, 120)
		case fish.Juvenile:
			dc.SetRGB255(120, 160, 220)
		default:
			dc.SetRGB255(90, 90, 140)
		}

		// Body and tail
		dc.DrawEllipse(x, y, 18*scale, 8*scale)
		dc.Fill()
		dc.MoveTo(x-16*scale, y)
		dc.LineTo(x-26*scale, y-7*scale)
		dc.LineTo(x-26*scale, y+7*scale)
		dc.ClosePath()
		dc.Fill()
	}
}

// fishScale returns the drawing scale of a fish from its weight within
// the typical weight range of its stage
func fishScale(f *fish.Fish) float64 {
	var minW, maxW, minS, maxS float64
	switch f.Stage() {
	case fish.Fingerling:
		minW, maxW, minS, maxS = 5, 20, 0.4, 0.7
	case fish.Juvenile:
		minW, maxW, minS, maxS = 10, 250, 0.6, 1.0
	default:
		minW, maxW, minS, maxS = 50, 1000, 0.9, 1.5
	}

	frac := floatutils.Clip((f.Weight-minW)/(maxW-minW), 0, 1)
	return minS + frac*(maxS-minS)
}

func (r *Renderer) drawPanel(dc *gg.Context) {
	v := r.view
	region := strings.Title(strings.ReplaceAll(v.Region(), "_", " "))

	lines := []string{
		fmt.Sprintf("Region: %v", region),
		fmt.Sprintf("Day: %v", v.Day()),
		fmt.Sprintf("Biomass: %.2fg", v.Biomass()),
		fmt.Sprintf("Fish Count: %v", v.FishCount()),
		fmt.Sprintf("Dissolved Oxygen: %.2f mg/L", v.DissolvedOxygen()),
	}

	dc.SetRGB(0, 0, 0)
	y := 20.0
	for _, line := range lines {
		dc.DrawString(line, 20, y)
		y += 25
	}

	r.drawBar(dc, "UIA", v.UIA(), maxBarUIA, 20, y, 255, 0, 0)
	y += 30
	r.drawBar(dc, "Temp", v.Temperature(), maxBarTemp, 20, y, 255, 165, 0)
}

// drawBar draws a labelled horizontal bar filled to value/max
func (r *Renderer) drawBar(dc *gg.Context, label string, value, max, x,
	y float64, red, green, blue int) {
	frac := floatutils.Clip(value/max, 0, 1)

	dc.SetRGB(0, 0, 0)
	dc.DrawString(fmt.Sprintf("%v: %.2f", label, value), x, y+barHeight-4)

	left := x + 110
	dc.DrawRectangle(left, y, barWidth, barHeight)
	dc.SetRGB255(220, 220, 220)
	dc.Fill()

	dc.DrawRectangle(left, y, barWidth*frac, barHeight)
	dc.SetRGB255(red, green, blue)
	dc.Fill()

	dc.DrawRectangle(left, y, barWidth, barHeight)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.Stroke()
}
