// Package engine combines the sun and moon curves, the cloud process
// and the gamut mapper into per-tick device output frames.
package engine

import (
	"log/slog"
	"math"
	"time"

	"github.com/BlueberryDS/aquarium-control/internal/clouds"
	"github.com/BlueberryDS/aquarium-control/internal/curve"
	"github.com/BlueberryDS/aquarium-control/internal/gamut"
	"github.com/BlueberryDS/aquarium-control/internal/lightconfig"
	"github.com/BlueberryDS/aquarium-control/internal/moon"
)

// Source identifies which sky source dominates a frame's color.
type Source string

const (
	SourceSun  Source = "sun"
	SourceMoon Source = "moon"
)

// Frame is the full computed light state for one instant.
type Frame struct {
	TimeHours float64 `json:"time_hours"`

	// Scalar channel (brightness + CCT device units).
	On         bool   `json:"on"`
	Brightness int    `json:"brightness"` // 0..BrightnessScaleMax
	CCT        int    `json:"cct"`        // 0..CCTScaleMax
	Dominant   Source `json:"dominant"`

	// RGBW channel.
	RGBWOn bool      `json:"rgbw_on"`
	RGBW   gamut.PWM `json:"rgbw"`

	// Diagnostics.
	CloudFactor float64    `json:"cloud_factor"`
	DayType     string     `json:"day_type"`
	MoonState   moon.State `json:"moon"`
}

// Engine computes light frames from resolved configuration. All curve
// evaluation is pure; only the cloud process mutates state, so the
// engine must be driven by a single caller in wall-clock order.
type Engine struct {
	sun     *curve.SunCurve
	moonCur *moon.Curve
	clouds  *clouds.Process
	logger  *slog.Logger

	sunKnobs gamut.Knobs
	moonCfg  lightconfig.MoonConfig
	rgbwCfg  lightconfig.RGBWConfig
	shapers  gamut.ChannelShapers

	sunTMin float64
	sunTMax float64

	brightnessScaleMax int
	cctScaleMax        int
	pwmMax             int
	moonCCTDev         int
}

// New builds an engine from the resolved parameter sets and device
// scaling constants. Degenerate sun parameters produce an advisory
// log line, never an error.
func New(resolved *lightconfig.Resolved, device lightconfig.DeviceConfig, cloudProc *clouds.Process, logger *slog.Logger) *Engine {
	sunParams := curve.SunParams{
		StartHour:  resolved.Sun.DayStartHourLocal,
		EndHour:    resolved.Sun.DayEndHourLocal,
		HEq:        resolved.Sun.EquivalentFullHours,
		BPeakMax:   resolved.Sun.PeakBrightness,
		TauMinutes: resolved.Sun.SmoothingMinutes,
		DeltaT:     resolved.Sun.ColorRangeKelvin,
		TMin:       resolved.Sun.MinColorTempKelvin,
		TMax:       resolved.Sun.MaxColorTempKelvin,
		TBlue:      resolved.Sun.BlueHourTempKelvin,
	}

	sun := curve.NewSunCurve(sunParams)
	if adv := sun.Advisory(); adv != "" {
		logger.Warn("Sun curve parameter advisory", "advisory", adv)
	}

	moonParams := moon.Params{
		MaxBrightness: resolved.Moon.MaxBrightness,
		DarkStartHour: resolved.Moon.DarkStartHour,
		DarkEndHour:   resolved.Moon.DarkEndHour,
	}
	if moonParams.DarkStartHour == 0 && moonParams.DarkEndHour == 0 {
		def := moon.DefaultParams()
		moonParams.DarkStartHour = def.DarkStartHour
		moonParams.DarkEndHour = def.DarkEndHour
	}

	knobs := gamut.DefaultKnobBounds()
	knobs.Saturation = resolved.RGBW.Saturation
	knobs.Tint = resolved.RGBW.Tint
	if resolved.RGBW.SaturationMax != 0 {
		knobs.SaturationMin = resolved.RGBW.SaturationMin
		knobs.SaturationMax = resolved.RGBW.SaturationMax
	}
	if resolved.RGBW.TintMin != 0 || resolved.RGBW.TintMax != 0 {
		knobs.TintMin = resolved.RGBW.TintMin
		knobs.TintMax = resolved.RGBW.TintMax
	}

	brightnessMax := device.BrightnessScaleMax
	if brightnessMax <= 0 {
		brightnessMax = curve.DeviceScale
	}
	cctMax := device.CCTScaleMax
	if cctMax <= 0 {
		cctMax = curve.DeviceScale
	}
	pwmMax := device.PWMScaleMax
	if pwmMax <= 0 {
		pwmMax = 255
	}

	e := &Engine{
		sun:                sun,
		moonCur:            moon.NewCurve(moonParams),
		clouds:             cloudProc,
		logger:             logger,
		sunKnobs:           knobs,
		moonCfg:            resolved.Moon,
		rgbwCfg:            resolved.RGBW,
		shapers:            shapersFromConfig(resolved.RGBW),
		sunTMin:            resolved.Sun.MinColorTempKelvin,
		sunTMax:            resolved.Sun.MaxColorTempKelvin,
		brightnessScaleMax: brightnessMax,
		cctScaleMax:        cctMax,
		pwmMax:             pwmMax,
	}

	moonCCT := resolved.Moon.ColorTempKelvin
	if moonCCT <= 0 {
		moonCCT = 6500.0
	}
	e.moonCCTDev = curve.KelvinToDevice(moonCCT,
		resolved.Sun.MinColorTempKelvin, resolved.Sun.MaxColorTempKelvin, cctMax)

	return e
}

func shapersFromConfig(cfg lightconfig.RGBWConfig) gamut.ChannelShapers {
	pick := func(ch string) gamut.ChannelShaper {
		var s gamut.ChannelShaper
		if cfg.ChannelLUTs != nil {
			s.LUT = cfg.ChannelLUTs[ch]
		}
		if cfg.ChannelGammas != nil {
			s.Gamma = cfg.ChannelGammas[ch]
		}
		return s
	}
	return gamut.ChannelShapers{
		R: pick("r"), G: pick("g"), B: pick("b"), W: pick("w"),
	}
}

// Sun exposes the daylight curve for preview rendering.
func (e *Engine) Sun() *curve.SunCurve { return e.sun }

// Moon exposes the lunar model for preview rendering.
func (e *Engine) Moon() *moon.Curve { return e.moonCur }

// PWMMax returns the RGBW device ceiling.
func (e *Engine) PWMMax() int { return e.pwmMax }

// SunCCTRange returns the configured Kelvin bounds of the sun curve.
func (e *Engine) SunCCTRange() (tMin, tMax float64) { return e.sunTMin, e.sunTMax }

// SampleRGBWLinear evaluates the unclouded sun RGBW channels at an
// arbitrary local time. Used by Sample and the preview renderer.
func (e *Engine) SampleRGBWLinear(tHours float64) (gamut.RGBW, bool) {
	s := e.sun.Sample(tHours)
	if !s.On {
		return gamut.RGBW{}, false
	}
	warmth := gamut.WarmthProgress(s.ColorTemp, e.sunTMin, e.sunTMax)
	sat, tint := e.sunKnobs.Resolve()
	return gamut.MapRGBWLinear(s.Brightness, warmth, sat, tint, e.rgbwCfg.PreserveTotal), true
}

// moonRGBWLinear computes the unclouded moon RGBW channels.
func (e *Engine) moonRGBWLinear(state moon.State) (gamut.RGBW, bool) {
	if !state.On || state.Brightness <= 0.0 {
		return gamut.RGBW{}, false
	}
	warmth := curve.Clamp01(e.moonCfg.Warmth)
	knobs := e.sunKnobs
	knobs.Saturation = e.moonCfg.Saturation
	knobs.Tint = e.moonCfg.Tint
	sat, tint := knobs.Resolve()
	return gamut.MapRGBWLinear(state.Brightness, warmth, sat, tint, e.rgbwCfg.PreserveTotal), true
}

// Sample computes the full frame for an instant. now drives the moon
// phase, the dark window and the cloud process; tHours is the local
// curve time, which callers may synthesize for accelerated runs.
func (e *Engine) Sample(now time.Time, tHours float64) Frame {
	frame := Frame{TimeHours: tHours}

	// Unclouded sun, device units.
	sunDev, sunCCTDev, sunOn := e.sun.SampleDevice(tHours)
	if !sunOn {
		sunDev = 0
	}

	// Unclouded moon.
	moonState := e.moonCur.GetState(now)
	frame.MoonState = moonState
	moonDev := 0
	if moonState.On {
		moonDev = int(math.Round(moonState.Brightness * float64(e.brightnessScaleMax)))
	}

	// Dominance is decided before clouds so the cloud layer cannot
	// flip the color source mid-dip.
	if sunDev >= moonDev && sunOn {
		frame.Dominant = SourceSun
	} else {
		frame.Dominant = SourceMoon
	}

	baseDev := sunDev
	if moonDev > baseDev {
		baseDev = moonDev
	}
	baseFrac := curve.Clamp01(float64(baseDev) / float64(e.brightnessScaleMax))

	// Unclouded RGBW channels, per-channel max of sun and moon.
	sunRGBW, _ := e.SampleRGBWLinear(tHours)
	moonRGBW, _ := e.moonRGBWLinear(moonState)
	baseRGBW := gamut.Max(sunRGBW, moonRGBW)
	rgbwBaseFrac := curve.Clamp01(baseRGBW.Sum())

	// One shared cloud factor for both output families.
	cloudBase := math.Max(baseFrac, rgbwBaseFrac)
	factor := e.clouds.GetMultiplier(float64(now.UnixNano())/1e9, cloudBase)
	frame.CloudFactor = factor
	frame.DayType = e.clouds.DayTypeName()

	finalFrac := curve.Clamp01(baseFrac * factor)
	frame.Brightness = int(math.Round(finalFrac * float64(e.brightnessScaleMax)))
	frame.On = frame.Brightness > 0

	switch {
	case !frame.On:
		frame.CCT = sunCCTDev // power is off, value unused
	case frame.Dominant == SourceSun:
		frame.CCT = sunCCTDev
	default:
		frame.CCT = e.moonCCTDev
	}

	frame.RGBW = gamut.ToPWM(baseRGBW.Scale(factor), e.shapers, e.pwmMax)
	frame.RGBWOn = frame.RGBW.Any()

	return frame
}
