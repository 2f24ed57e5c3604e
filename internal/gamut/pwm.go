package gamut

import (
	"math"

	"github.com/BlueberryDS/aquarium-control/internal/curve"
)

// ChannelShaper holds the per-channel output shaping: an optional
// lookup table and an optional gamma exponent. A LUT, when present,
// wins over gamma. Table values may be unit-normalized or already in
// device units; tables whose maximum does not exceed 1.0 are treated
// as normalized and scaled by pwmMax.
type ChannelShaper struct {
	LUT   []float64
	Gamma float64
}

// ChannelShapers maps the four output channels to their shaping.
type ChannelShapers struct {
	R, G, B, W ChannelShaper
}

// lutInterpolate evaluates the table at position x*(N-1) with linear
// interpolation. Empty tables pass x through; single-entry tables are
// constant.
func lutInterpolate(x float64, lut []float64) float64 {
	if len(lut) == 0 {
		return x
	}
	if len(lut) == 1 {
		return lut[0]
	}
	pos := curve.Clamp01(x) * float64(len(lut)-1)
	i := int(math.Floor(pos))
	frac := pos - float64(i)
	j := i + 1
	if j > len(lut)-1 {
		j = len(lut) - 1
	}
	return lut[i] + (lut[j]-lut[i])*frac
}

// LinearToPWM converts a linear channel fraction to a device PWM
// integer in [0, pwmMax] using the channel's LUT when present, else
// its gamma curve (default gamma 1.0).
func LinearToPWM(x float64, shaper ChannelShaper, pwmMax int) int {
	x = curve.Clamp01(x)

	if shaper.LUT != nil {
		y := lutInterpolate(x, shaper.LUT)
		if lutMax(shaper.LUT) <= 1.0 {
			y *= float64(pwmMax)
		}
		return int(math.Round(curve.Clamp(y, 0.0, float64(pwmMax))))
	}

	gamma := shaper.Gamma
	if gamma == 0 {
		gamma = 1.0
	}
	y := curve.Clamp01(math.Pow(x, gamma))
	return int(math.Round(y * float64(pwmMax)))
}

func lutMax(lut []float64) float64 {
	m := math.Inf(-1)
	for _, v := range lut {
		if v > m {
			m = v
		}
	}
	return m
}

// PWM holds quantized channel values.
type PWM struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	W int `json:"w"`
}

// Any reports whether any channel is non-zero.
func (p PWM) Any() bool {
	return p.R > 0 || p.G > 0 || p.B > 0 || p.W > 0
}

// MaxChannel returns the largest channel value.
func (p PWM) MaxChannel() int {
	m := p.R
	for _, v := range []int{p.G, p.B, p.W} {
		if v > m {
			m = v
		}
	}
	return m
}

// ToPWM quantizes all four linear channels with their shapers.
func ToPWM(c RGBW, shapers ChannelShapers, pwmMax int) PWM {
	return PWM{
		R: LinearToPWM(c.R, shapers.R, pwmMax),
		G: LinearToPWM(c.G, shapers.G, pwmMax),
		B: LinearToPWM(c.B, shapers.B, pwmMax),
		W: LinearToPWM(c.W, shapers.W, pwmMax),
	}
}
