// Package preview renders ASCII charts of one day of the light engine
// for offline inspection. Output is deterministic: clouds are excluded,
// only the underlying curves are drawn.
package preview

import (
	"fmt"
	"math"
	"strings"

	"github.com/BlueberryDS/aquarium-control/internal/curve"
	"github.com/BlueberryDS/aquarium-control/internal/engine"
)

const (
	brightnessRows = 10
	cctRows        = 6
	channelRows    = 6
)

// Renderer samples the engine across its daylight window and draws
// fixed-height character blocks.
type Renderer struct {
	eng   *engine.Engine
	width int
}

// NewRenderer creates a renderer with the given column count.
func NewRenderer(eng *engine.Engine, width int) *Renderer {
	if width < 10 {
		width = 10
	}
	return &Renderer{eng: eng, width: width}
}

// columnTimes returns the sample time for each column, centered in the
// column's slice of the daylight window.
func (r *Renderer) columnTimes() []float64 {
	win := r.eng.Sun().Window()
	d := r.eng.Sun().Length()

	times := make([]float64, r.width)
	for i := 0; i < r.width; i++ {
		t := win.Start + (float64(i)+0.5)/float64(r.width)*d
		if t >= 24.0 {
			t -= 24.0
		}
		times[i] = t
	}
	return times
}

// renderBlock draws one fixed-height block: each column is filled from
// the bottom to round(value*rows) with glyph, off columns show '.' on
// the baseline.
func renderBlock(values []float64, rows int, glyph byte) string {
	var b strings.Builder

	cells := make([]int, len(values))
	for i, v := range values {
		cells[i] = int(math.Round(curve.Clamp01(v) * float64(rows)))
	}

	for row := rows; row >= 1; row-- {
		for i, c := range cells {
			switch {
			case c >= row:
				b.WriteByte(glyph)
			case row == 1 && values[i] <= 0.0:
				b.WriteByte('.')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// timeAxis draws the footer: tick marks every tenth column with the
// local hour printed underneath.
func (r *Renderer) timeAxis() string {
	times := r.columnTimes()

	var marks, labels strings.Builder
	for i := 0; i < r.width; i++ {
		if i%10 == 0 {
			marks.WriteByte('+')
		} else {
			marks.WriteByte('-')
		}
	}

	col := 0
	for col < r.width {
		label := fmt.Sprintf("%.0f", times[col])
		labels.WriteString(label)
		col += len(label)
		for col%10 != 0 && col < r.width {
			labels.WriteByte(' ')
			col++
		}
	}

	return marks.String() + "\n" + labels.String() + "\n"
}

// Brightness renders the scalar brightness block.
func (r *Renderer) Brightness() string {
	values := make([]float64, r.width)
	for i, t := range r.columnTimes() {
		s := r.eng.Sun().Sample(t)
		if s.On {
			values[i] = s.Brightness
		}
	}
	return renderBlock(values, brightnessRows, '#')
}

// ColorTemp renders the CCT block, normalized to the configured Kelvin
// range.
func (r *Renderer) ColorTemp() string {
	tMin, tMax := r.eng.SunCCTRange()
	values := make([]float64, r.width)
	for i, t := range r.columnTimes() {
		s := r.eng.Sun().Sample(t)
		if s.On && tMax > tMin {
			values[i] = curve.Clamp01((s.ColorTemp - tMin) / (tMax - tMin))
		}
	}
	return renderBlock(values, cctRows, '*')
}

// RGBW renders one block per channel using the channel letter as glyph.
func (r *Renderer) RGBW() string {
	times := r.columnTimes()
	channels := []struct {
		name  string
		glyph byte
		pick  func(rgbw [4]float64) float64
	}{
		{"R", 'R', func(c [4]float64) float64 { return c[0] }},
		{"G", 'G', func(c [4]float64) float64 { return c[1] }},
		{"B", 'B', func(c [4]float64) float64 { return c[2] }},
		{"W", 'W', func(c [4]float64) float64 { return c[3] }},
	}

	samples := make([][4]float64, r.width)
	for i, t := range times {
		ch, on := r.eng.SampleRGBWLinear(t)
		if on {
			samples[i] = [4]float64{ch.R, ch.G, ch.B, ch.W}
		}
	}

	var b strings.Builder
	for _, c := range channels {
		values := make([]float64, r.width)
		for i := range samples {
			values[i] = c.pick(samples[i])
		}
		b.WriteString(c.name + " channel\n")
		b.WriteString(renderBlock(values, channelRows, c.glyph))
	}
	return b.String()
}

// Stats summarizes one rendered day.
type Stats struct {
	PeakBrightness float64
	MeanBrightness float64
	LitHours       float64
	EquivalentFull float64 // integral of brightness over the window
	MinCCT         float64
	MaxCCT         float64
}

// DailyStats computes summary statistics over the daylight window.
func (r *Renderer) DailyStats() Stats {
	d := r.eng.Sun().Length()
	times := r.columnTimes()

	var stats Stats
	stats.MinCCT = math.Inf(1)
	lit := 0

	sum := 0.0
	for _, t := range times {
		s := r.eng.Sun().Sample(t)
		if !s.On || s.Brightness <= 0.0 {
			continue
		}
		lit++
		sum += s.Brightness
		if s.Brightness > stats.PeakBrightness {
			stats.PeakBrightness = s.Brightness
		}
		if s.ColorTemp < stats.MinCCT {
			stats.MinCCT = s.ColorTemp
		}
		if s.ColorTemp > stats.MaxCCT {
			stats.MaxCCT = s.ColorTemp
		}
	}

	if lit == 0 {
		stats.MinCCT = 0
		return stats
	}

	stats.MeanBrightness = sum / float64(len(times))
	stats.LitHours = float64(lit) / float64(len(times)) * d
	stats.EquivalentFull = stats.MeanBrightness * d
	return stats
}

// Render draws the full report: brightness, CCT and RGBW blocks with a
// shared time axis, followed by the stats summary.
func (r *Renderer) Render() string {
	var b strings.Builder

	b.WriteString("Brightness\n")
	b.WriteString(r.Brightness())
	b.WriteString(r.timeAxis())
	b.WriteByte('\n')

	b.WriteString("Color temperature\n")
	b.WriteString(r.ColorTemp())
	b.WriteString(r.timeAxis())
	b.WriteByte('\n')

	b.WriteString(r.RGBW())
	b.WriteString(r.timeAxis())
	b.WriteByte('\n')

	s := r.DailyStats()
	fmt.Fprintf(&b, "peak brightness:   %.3f\n", s.PeakBrightness)
	fmt.Fprintf(&b, "mean brightness:   %.3f\n", s.MeanBrightness)
	fmt.Fprintf(&b, "lit hours:         %.2f\n", s.LitHours)
	fmt.Fprintf(&b, "equivalent full:   %.2f h\n", s.EquivalentFull)
	fmt.Fprintf(&b, "color temp range:  %.0fK .. %.0fK\n", s.MinCCT, s.MaxCCT)

	return b.String()
}
