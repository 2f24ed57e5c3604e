package curve

import (
	"fmt"
	"math"
)

// DeviceScale is the integer range the scalar device channels use for
// brightness and CCT (0..1000 by device convention).
const DeviceScale = 1000

// SunParams holds the tunable daylight curve parameters for one day.
type SunParams struct {
	StartHour  float64 // local hour the daylight window opens
	EndHour    float64 // local hour the daylight window closes
	HEq        float64 // equivalent full-brightness hours
	BPeakMax   float64 // brightness cap in [0, 1]
	TauMinutes float64 // blue-hour smoothing half-width
	DeltaT     float64 // dawn/dusk color bias range in Kelvin
	TMin       float64 // Kelvin lower bound
	TMax       float64 // Kelvin upper bound
	TBlue      float64 // blue-hour reference temperature
}

// SunSample is one scalar daylight sample.
type SunSample struct {
	Brightness float64 // 0..1
	ColorTemp  float64 // Kelvin, 0 when off
	On         bool
}

// SunCurve computes brightness and color temperature across the
// daylight window. Immutable after construction.
type SunCurve struct {
	win        Window
	d          float64
	hEq        float64
	bPeakMax   float64
	deltaT     float64
	tMin       float64
	tMax       float64
	tBlue      float64
	aUnclipped float64
	bPeakEff   float64
	tau        float64

	advisory string
}

// NewSunCurve derives the effective curve coefficients from params.
// A mismatch between the requested cap and the reachable peak is
// advisory only; the curve is always usable.
func NewSunCurve(p SunParams) *SunCurve {
	win := NewWindow(p.StartHour, p.EndHour)
	d := win.Length()

	c := &SunCurve{
		win:      win,
		d:        d,
		hEq:      p.HEq,
		bPeakMax: p.BPeakMax,
		deltaT:   p.DeltaT,
		tMin:     p.TMin,
		tMax:     p.TMax,
		tBlue:    p.TBlue,
	}

	c.aUnclipped = 2.0 * p.HEq / d
	c.bPeakEff = math.Min(c.aUnclipped, p.BPeakMax)
	c.tau = Clamp(p.TauMinutes/60.0, 0.0, d/4.0)

	switch {
	case c.aUnclipped < p.BPeakMax:
		c.advisory = fmt.Sprintf(
			"peak cap %.3f is not reached; actual peak will be %.3f",
			p.BPeakMax, c.aUnclipped)
	case c.aUnclipped > p.BPeakMax:
		c.advisory = fmt.Sprintf(
			"brightness will be clipped at %.3f; requested H_eq=%g will be reduced slightly",
			p.BPeakMax, p.HEq)
	}

	return c
}

// Window returns the daylight window.
func (c *SunCurve) Window() Window { return c.win }

// Length returns the daylight window length in hours.
func (c *SunCurve) Length() float64 { return c.d }

// PeakBrightness returns the effective peak the curve can reach.
func (c *SunCurve) PeakBrightness() float64 { return c.bPeakEff }

// Advisory returns a non-empty string when the configured peak cap and
// equivalent hours disagree. Never fatal.
func (c *SunCurve) Advisory() string { return c.advisory }

func (c *SunCurve) brightness(tHours float64) float64 {
	_, u, inside := c.win.Phase(tHours)
	if !inside {
		return 0.0
	}
	bRaw := c.aUnclipped * Shape(u)
	if c.bPeakMax < 1.0 {
		return Clamp(bRaw, 0.0, c.bPeakMax)
	}
	return Clamp01(bRaw)
}

// baseColorTemp maps normalized brightness onto the piecewise-linear
// daily CCT profile: cool at the edges, a warm dip through mid-morning
// and afternoon, warmest at b=0.25.
func (c *SunCurve) baseColorTemp(b float64) float64 {
	if c.bPeakEff <= 0.0 || b <= 0.0 {
		return 0.0
	}
	bn := Clamp01(b / c.bPeakEff)
	if bn <= 0.0 {
		return 0.0
	}

	switch {
	case bn <= 0.10:
		return 6000.0 + (6500.0-6000.0)*(bn/0.10)
	case bn <= 0.25:
		x := (bn - 0.10) / (0.25 - 0.10)
		return 6500.0 + (3000.0-6500.0)*x
	case bn <= 0.85:
		x := (bn - 0.25) / (0.85 - 0.25)
		return 3000.0 + (6000.0-3000.0)*x
	default:
		x := (bn - 0.85) / (1.0 - 0.85)
		return 6000.0 + (6500.0-6000.0)*x
	}
}

func (c *SunCurve) colorTemp(tHours, b float64) float64 {
	if b <= 0.0 {
		return 0.0
	}

	offset, u, inside := c.win.Phase(tHours)
	if !inside {
		return 0.0
	}

	t := c.baseColorTemp(b)
	if t <= 0.0 {
		return 0.0
	}

	if c.deltaT != 0.0 {
		t += c.deltaT * (0.5 - u)
	}

	t = Clamp(t, c.tMin, c.tMax)

	// Blue-hour blend: pull toward TBlue within tau hours of either edge.
	if c.tau > 0.0 {
		if offset >= 0.0 && offset <= c.tau {
			alpha := offset / c.tau
			t = (1.0-alpha)*c.tBlue + alpha*t
		} else if offset >= c.d-c.tau && offset <= c.d {
			beta := (c.d - offset) / c.tau
			t = (1.0-beta)*c.tBlue + beta*t
		}
	}

	return t
}

// Sample evaluates the curve at an arbitrary local time, returning raw
// brightness fraction and Kelvin. The window is half-open: the opening
// edge counts as on (at zero brightness), the closing edge as off.
func (c *SunCurve) Sample(tHours float64) SunSample {
	b := c.brightness(tHours)
	offset, _, inside := c.win.Phase(tHours)
	on := inside && offset < c.d
	if !on {
		return SunSample{}
	}
	return SunSample{
		Brightness: b,
		ColorTemp:  c.colorTemp(tHours, b),
		On:         true,
	}
}

// SampleDevice evaluates the curve and quantizes to device units:
// brightness and CCT both on 0..DeviceScale.
func (c *SunCurve) SampleDevice(tHours float64) (brightness, cct int, on bool) {
	s := c.Sample(tHours)
	if !s.On {
		return 0, 0, false
	}
	brightness = int(math.Round(DeviceScale * Clamp01(s.Brightness)))
	cct = KelvinToDevice(s.ColorTemp, c.tMin, c.tMax, DeviceScale)
	return brightness, cct, true
}

// KelvinToDevice maps a color temperature into the device CCT range
// [0, devMax] linearly between tMin and tMax. A degenerate Kelvin
// range yields the midpoint.
func KelvinToDevice(kelvin, tMin, tMax float64, devMax int) int {
	if kelvin <= 0.0 {
		return 0
	}
	if tMax <= tMin {
		return devMax / 2
	}
	frac := Clamp01((kelvin - tMin) / (tMax - tMin))
	return int(math.Round(frac * float64(devMax)))
}
