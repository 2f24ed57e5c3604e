// Package gamut maps scalar light intensity and color temperature onto
// four-channel RGBW output and converts linear channel fractions to
// device PWM values.
package gamut

import (
	"math"

	"github.com/BlueberryDS/aquarium-control/internal/curve"
)

// RGBW holds linear channel fractions in [0, 1].
type RGBW struct {
	R, G, B, W float64
}

// Sum returns the total channel intensity.
func (c RGBW) Sum() float64 {
	return c.R + c.G + c.B + c.W
}

// Scale multiplies every channel by f and clamps each to [0, 1].
func (c RGBW) Scale(f float64) RGBW {
	return RGBW{
		R: curve.Clamp01(c.R * f),
		G: curve.Clamp01(c.G * f),
		B: curve.Clamp01(c.B * f),
		W: curve.Clamp01(c.W * f),
	}
}

// Max returns the per-channel maximum of two RGBW values.
func Max(a, b RGBW) RGBW {
	return RGBW{
		R: math.Max(a.R, b.R),
		G: math.Max(a.G, b.G),
		B: math.Max(a.B, b.B),
		W: math.Max(a.W, b.W),
	}
}

// MapRGBWLinear distributes an overall intensity across R, G, B and W.
//
//	intensity: total linear output 0..1
//	warmth:    0 = coolest, 1 = warmest
//	sat:       how much leaves the white channel
//	tint:      -1..1, positive shifts toward green
//
// Saturation shrinks toward zero for cool light so cool output stays
// white-dominated. With preserveTotal the channel sum equals the
// requested intensity exactly (when the sum is non-negligible).
func MapRGBWLinear(intensity, warmth, sat, tint float64, preserveTotal bool) RGBW {
	i := curve.Clamp01(intensity)
	w := curve.Clamp01(warmth)
	s := curve.Clamp(sat, 0.0, 1.0)
	t := curve.Clamp(tint, -1.0, 1.0)

	sEff := curve.Clamp01(s * (0.25 + 0.75*w))

	out := RGBW{
		W: i * (1.0 - sEff),
		R: i * sEff * (0.70 + 0.25*w),
		G: i * sEff * (0.28 - 0.18*w),
		B: i * sEff * 0.12 * (1.0 - w),
	}

	adj := 0.12 * math.Abs(t) * i * sEff
	if t > 0.0 {
		out.G += adj
		out.R -= 0.7 * adj
		out.B -= 0.3 * adj
	} else if t < 0.0 {
		out.G -= adj
		out.R += 0.9 * adj
		out.B += 0.1 * adj * (1.0 - w)
	}

	out.R = curve.Clamp01(out.R)
	out.G = curve.Clamp01(out.G)
	out.B = curve.Clamp01(out.B)
	out.W = curve.Clamp01(out.W)

	if preserveTotal {
		if sum := out.Sum(); sum > 1e-6 {
			out = out.Scale(i / sum)
		}
	}

	return out
}

// WarmthProgress converts a color temperature into warmth progress:
// 1 at tMin, 0 at tMax. Degenerate ranges and non-positive kelvin
// values map to 0.
func WarmthProgress(kelvin, tMin, tMax float64) float64 {
	if kelvin <= 0.0 {
		return 0.0
	}
	denom := tMax - tMin
	if denom <= 0.0 {
		return 0.0
	}
	return curve.Clamp01((tMax - kelvin) / denom)
}

// Knobs are the per-fixture color tuning inputs with their configured
// clamping bounds.
type Knobs struct {
	Saturation float64
	Tint       float64

	SaturationMin float64
	SaturationMax float64
	TintMin       float64
	TintMax       float64
}

// DefaultKnobBounds matches the tuned fixture limits.
func DefaultKnobBounds() Knobs {
	return Knobs{
		SaturationMin: 0.05,
		SaturationMax: 0.60,
		TintMin:       -0.40,
		TintMax:       0.25,
	}
}

// Resolve clamps the saturation and tint knobs to their bounds.
func (k Knobs) Resolve() (sat, tint float64) {
	sat = curve.Clamp(k.Saturation, k.SaturationMin, k.SaturationMax)
	tint = curve.Clamp(k.Tint, k.TintMin, k.TintMax)
	return sat, tint
}
