package curve

import "math"

// Window is a wraparound daily interval on the local clock.
// Start and End are hours in [0, 24); a window whose length works
// out to zero covers the whole day.
type Window struct {
	Start float64
	End   float64
}

// NewWindow normalizes both edges into [0, 24).
func NewWindow(start, end float64) Window {
	return Window{
		Start: math.Mod(math.Mod(start, 24.0)+24.0, 24.0),
		End:   math.Mod(math.Mod(end, 24.0)+24.0, 24.0),
	}
}

// Length returns the window length in hours (0 < D <= 24).
func (w Window) Length() float64 {
	d := math.Mod(w.End-w.Start+24.0, 24.0)
	if d == 0 {
		return 24.0
	}
	return d
}

// Offset returns the hours elapsed since the window start for the
// given local time, wrapped into [0, 24).
func (w Window) Offset(tHours float64) float64 {
	tMod := math.Mod(math.Mod(tHours, 24.0)+24.0, 24.0)
	return math.Mod(tMod-w.Start+24.0, 24.0)
}

// Phase returns the offset, the normalized position u in [0, 1], and
// whether the time falls inside the window. Outside the window u is 0.
func (w Window) Phase(tHours float64) (offset, u float64, inside bool) {
	offset = w.Offset(tHours)
	d := w.Length()
	if offset > d {
		return offset, 0, false
	}
	return offset, offset / d, true
}

// InWindow reports whether the local hour lies in [start, end),
// respecting wrap at midnight. Used for the moon dark window.
func InWindow(hour, start, end float64) bool {
	start = math.Mod(math.Mod(start, 24.0)+24.0, 24.0)
	end = math.Mod(math.Mod(end, 24.0)+24.0, 24.0)
	hour = math.Mod(math.Mod(hour, 24.0)+24.0, 24.0)

	if start < end {
		return start <= hour && hour < end
	}
	return hour >= start || hour < end
}

// Shape is the raised-cosine brightness shape: zero at both window
// edges, peak 1 at the midpoint.
func Shape(u float64) float64 {
	return 0.5 * (1.0 - math.Cos(2.0*math.Pi*u))
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Clamp01 limits x to [0, 1].
func Clamp01(x float64) float64 {
	return Clamp(x, 0.0, 1.0)
}
