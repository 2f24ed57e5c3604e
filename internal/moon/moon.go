package moon

import (
	"time"

	"github.com/BlueberryDS/aquarium-control/internal/curve"
)

// IllumThreshold gates moonlight so roughly the ten brightest days of
// each cycle are ever on.
const IllumThreshold = 0.72

// Params holds the tunable moonlight parameters.
type Params struct {
	MaxBrightness float64 // output cap in [0, 1]
	DarkStartHour float64 // local hour the forced-dark window opens
	DarkEndHour   float64 // local hour the forced-dark window closes
}

// DefaultParams matches the tuned defaults: 5% cap, dark 02:00-07:00.
func DefaultParams() Params {
	return Params{
		MaxBrightness: 0.05,
		DarkStartHour: 2.0,
		DarkEndHour:   7.0,
	}
}

// State is the moonlight output for one instant. Phase metadata is
// populated even when the light is gated off.
type State struct {
	On         bool      `json:"on"`
	Brightness float64   `json:"brightness"` // 0..MaxBrightness
	Phase      PhaseInfo `json:"phase"`
	LocalHour  float64   `json:"local_hour"`
}

// Curve is the lunar brightness model. There is no moonrise or
// moonset: a dark-window gate and a phase gate are the only controls.
type Curve struct {
	params Params
}

// NewCurve builds a moon curve from params.
func NewCurve(p Params) *Curve {
	return &Curve{params: p}
}

// Params returns the configured parameters.
func (c *Curve) Params() Params { return c.params }

// GetState evaluates the model at the given instant. The dark window
// is checked against the wall clock in the instant's own location, the
// phase against UTC.
func (c *Curve) GetState(now time.Time) State {
	localHour := float64(now.Hour()) +
		float64(now.Minute())/60.0 +
		float64(now.Second())/3600.0

	info := Phase(now)

	off := State{Phase: info, LocalHour: localHour}

	if curve.InWindow(localHour, c.params.DarkStartHour, c.params.DarkEndHour) {
		return off
	}

	rel, on := RelativeBrightness(info.Illumination)
	if !on {
		return off
	}

	return State{
		On:         true,
		Brightness: c.params.MaxBrightness * rel,
		Phase:      info,
		LocalHour:  localHour,
	}
}

// RelativeBrightness maps disc illumination onto the 0..1 output ramp
// above the phase gate. At or below the threshold the light is off;
// infinitesimally above it the light is on at near-zero brightness.
func RelativeBrightness(illumination float64) (rel float64, on bool) {
	if illumination <= IllumThreshold {
		return 0, false
	}
	return curve.Clamp01((illumination - IllumThreshold) / (1.0 - IllumThreshold)), true
}
