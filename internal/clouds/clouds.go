// Package clouds simulates slow cloud cover and fast surface shimmer
// as a multiplicative factor on top of a base brightness curve.
package clouds

import (
	"math"
	"math/rand"
	"time"

	"github.com/BlueberryDS/aquarium-control/internal/curve"
)

// Options tunes the shared (day-type independent) process parameters.
type Options struct {
	CloudTimeScaleSec   float64 // base OU timescale for clouds
	ShimmerTimeScaleSec float64 // OU timescale for shimmer
	ShimmerAmp          float64 // base shimmer amplitude (fraction)
	ShimmerVolatility   float64 // OU noise level for shimmer
	MaxDtSec            float64 // clamp on dt so a stall cannot jump the walk
	Seed                int64   // 0 means time-seeded
}

// DefaultOptions matches the tuned process: 1h cloud timescale, 25s
// shimmer timescale, ±4% shimmer, 1s dt clamp.
func DefaultOptions() Options {
	return Options{
		CloudTimeScaleSec:   3600.0,
		ShimmerTimeScaleSec: 25.0,
		ShimmerAmp:          0.04,
		ShimmerVolatility:   0.30,
		MaxDtSec:            1.0,
	}
}

// dayKey identifies a local calendar day.
type dayKey struct {
	year  int
	month time.Month
	day   int
}

// Process is the stateful cloud + shimmer simulator. It must be owned
// by a single caller: every GetMultiplier call advances the random
// walk in wall-clock order and is not reentrant.
type Process struct {
	dayTypes []DayType
	opts     Options
	rng      *rand.Rand

	currentDayKey  dayKey
	haveDay        bool
	currentDayType *DayType

	drop         float64 // signed; negative dims
	shimmerState float64 // OU around 0, clamped to [-1, 1]

	lastTs     float64
	haveLastTs bool
}

// NewProcess builds a process over the given day-type mix (nil uses
// the defaults). Probabilities are normalized to sum to 1.
func NewProcess(dayTypes []DayType, opts Options) *Process {
	if len(dayTypes) == 0 {
		dayTypes = DefaultDayTypes()
	}

	normalized := make([]DayType, len(dayTypes))
	copy(normalized, dayTypes)

	total := 0.0
	for _, dt := range normalized {
		total += dt.Prob
	}
	if total > 0 {
		for i := range normalized {
			normalized[i].Prob /= total
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Process{
		dayTypes: normalized,
		opts:     opts,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// DayTypeName returns the active day type name, or "" before the
// first tick of a day.
func (p *Process) DayTypeName() string {
	if p.currentDayType == nil {
		return ""
	}
	return p.currentDayType.Name
}

// Drop returns the current raw cloud drop (signed).
func (p *Process) Drop() float64 { return p.drop }

func keyFromTs(ts float64) dayKey {
	t := time.Unix(int64(ts), 0).Local()
	return dayKey{year: t.Year(), month: t.Month(), day: t.Day()}
}

func (p *Process) pickDayType() *DayType {
	r := p.rng.Float64()
	acc := 0.0
	for i := range p.dayTypes {
		acc += p.dayTypes[i].Prob
		if r <= acc {
			return &p.dayTypes[i]
		}
	}
	return &p.dayTypes[len(p.dayTypes)-1]
}

// ensureDayState re-rolls the day type whenever the local calendar
// day changes, resetting the walk to the day's center.
func (p *Process) ensureDayState(nowTs float64) {
	key := keyFromTs(nowTs)
	if !p.haveDay || key != p.currentDayKey {
		p.currentDayKey = key
		p.haveDay = true
		p.currentDayType = p.pickDayType()
		p.drop = p.currentDayType.CenterDrop
		p.shimmerState = 0.0
	}
}

func (p *Process) clampDt(dt float64) float64 {
	return curve.Clamp(dt, 0.0, p.opts.MaxDtSec)
}

func (p *Process) stepCloudDrop(dt float64) {
	if p.currentDayType == nil {
		return
	}
	dt = p.clampDt(dt)
	if dt == 0.0 {
		return
	}

	cfg := p.currentDayType

	theta := (1.0 / p.opts.CloudTimeScaleSec) * cfg.CloudSpeed
	n := p.rng.NormFloat64()
	p.drop += theta*(cfg.CenterDrop-p.drop)*dt + cfg.Volatility*math.Sqrt(dt)*n
	p.drop = curve.Clamp(p.drop, cfg.MinDrop, cfg.MaxDrop)

	// Bright-hole bursts pull the drop toward 0.
	if cfg.BurstProbPerMin > 0.0 {
		lambda := cfg.BurstProbPerMin / 60.0
		prob := 1.0 - math.Exp(-lambda*dt)
		if p.rng.Float64() < prob {
			p.drop *= 1.0 - cfg.BurstStrength
			p.drop = curve.Clamp(p.drop, cfg.MinDrop, cfg.MaxDrop)
		}
	}
}

func (p *Process) stepShimmer(dt float64) {
	dt = p.clampDt(dt)
	if dt == 0.0 {
		return
	}

	theta := 1.0 / p.opts.ShimmerTimeScaleSec
	n := p.rng.NormFloat64()
	p.shimmerState += theta*(0.0-p.shimmerState)*dt +
		p.opts.ShimmerVolatility*math.Sqrt(dt)*n
	p.shimmerState = curve.Clamp(p.shimmerState, -1.0, 1.0)
}

// GetMultiplier advances the process to nowTs (seconds since epoch)
// and returns the factor to apply on top of baseBrightness.
//
// When the base curve is off the walk does not step: lastTs still
// advances so the next lit tick sees a small dt, keeping the trajectory
// from drifting while the light is dark.
func (p *Process) GetMultiplier(nowTs, baseBrightness float64) float64 {
	p.ensureDayState(nowTs)

	if !p.haveLastTs {
		p.lastTs = nowTs
		p.haveLastTs = true
	}

	dt := nowTs - p.lastTs
	p.lastTs = nowTs

	if baseBrightness <= 0.0 || p.currentDayType == nil {
		return 1.0
	}

	p.stepCloudDrop(dt)
	p.stepShimmer(dt)

	cfg := p.currentDayType

	// Clouds only dim: a positive drop means no dimming at all.
	effectiveDrop := math.Max(0.0, -p.drop)
	cloudMultiplier := 1.0 - effectiveDrop

	localAmp := p.opts.ShimmerAmp * cfg.ShimmerBoost
	shimmerMultiplier := 1.0 + localAmp*p.shimmerState

	return curve.Clamp(cloudMultiplier*shimmerMultiplier, 0.0, 1.0+localAmp)
}
