package moon

import (
	"math"
	"testing"
	"time"
)

func TestJulianDay_KnownEpoch(t *testing.T) {
	// 2000-01-01 12:00 UT is JD 2451545.0 by definition.
	jd := julianDay(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(jd-2451545.0) > 1e-6 {
		t.Errorf("julianDay(J2000) = %f, want 2451545.0", jd)
	}
}

func TestJulianDay_JanFebAdjustment(t *testing.T) {
	// 1999-02-15 00:00 UT is JD 2451224.5.
	jd := julianDay(time.Date(1999, 2, 15, 0, 0, 0, 0, time.UTC))
	if math.Abs(jd-2451224.5) > 1e-6 {
		t.Errorf("julianDay(1999-02-15) = %f, want 2451224.5", jd)
	}
}

func TestPhase_NearReferenceNewMoon(t *testing.T) {
	info := Phase(time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC))
	if info.Illumination > 0.01 {
		t.Errorf("Expected near-zero illumination at reference new moon, got %f", info.Illumination)
	}
	if info.AgeDays > 1.0 {
		t.Errorf("Expected age near zero at reference new moon, got %f", info.AgeDays)
	}
	if info.SynodicDays != SynodicMonthDays {
		t.Errorf("SynodicDays = %f, want %f", info.SynodicDays, SynodicMonthDays)
	}
}

func TestPhase_NearFullMoon(t *testing.T) {
	// Half a synodic month after the reference new moon.
	info := Phase(time.Date(2000, 1, 21, 9, 0, 0, 0, time.UTC))
	if math.Abs(info.PhaseFraction-0.5) > 0.02 {
		t.Errorf("Expected phase ~0.5 at full moon, got %f", info.PhaseFraction)
	}
	if info.Illumination < 0.99 {
		t.Errorf("Expected near-full illumination, got %f", info.Illumination)
	}
}

func TestPhase_WrapsAfterFullCycle(t *testing.T) {
	base := time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)
	later := base.Add(time.Duration(SynodicMonthDays * 24 * 3600 * 3 * float64(time.Second)))
	info := Phase(later)
	// Three full cycles later the phase is near new again.
	nearNew := info.PhaseFraction < 0.02 || info.PhaseFraction > 0.98
	if !nearNew {
		t.Errorf("Expected phase near 0 after three cycles, got %f", info.PhaseFraction)
	}
}

func TestRelativeBrightness_ThresholdGate(t *testing.T) {
	if _, on := RelativeBrightness(IllumThreshold); on {
		t.Errorf("Expected off at exactly the illumination threshold")
	}
	rel, on := RelativeBrightness(IllumThreshold + 1e-9)
	if !on {
		t.Errorf("Expected on infinitesimally above the threshold")
	}
	if rel > 1e-6 {
		t.Errorf("Expected near-zero brightness just above threshold, got %f", rel)
	}
	rel, on = RelativeBrightness(1.0)
	if !on || math.Abs(rel-1.0) > 1e-9 {
		t.Errorf("Expected full relative brightness at illumination 1, got rel=%f on=%v", rel, on)
	}
}

func TestGetState_FullMoonOn(t *testing.T) {
	c := NewCurve(Params{MaxBrightness: 0.05, DarkStartHour: 2, DarkEndHour: 7})

	// Full moon, outside the dark window.
	state := c.GetState(time.Date(2000, 1, 21, 21, 0, 0, 0, time.UTC))
	if !state.On {
		t.Fatalf("Expected moon on at full moon outside dark window (illum=%f)", state.Phase.Illumination)
	}
	if state.Brightness <= 0 || state.Brightness > 0.05 {
		t.Errorf("Brightness %f outside (0, 0.05]", state.Brightness)
	}
}

func TestGetState_DarkWindowForcesOff(t *testing.T) {
	c := NewCurve(Params{MaxBrightness: 0.05, DarkStartHour: 2, DarkEndHour: 7})

	// Full moon but inside the 02:00-07:00 dark window.
	state := c.GetState(time.Date(2000, 1, 21, 3, 30, 0, 0, time.UTC))
	if state.On {
		t.Errorf("Expected dark window to force moon off")
	}
	if state.Brightness != 0 {
		t.Errorf("Expected zero brightness in dark window, got %f", state.Brightness)
	}
	// Phase metadata stays populated even when gated off.
	if state.Phase.Illumination < 0.9 {
		t.Errorf("Expected phase info preserved, got illumination %f", state.Phase.Illumination)
	}
}

func TestGetState_NewMoonOff(t *testing.T) {
	c := NewCurve(DefaultParams())

	state := c.GetState(time.Date(2000, 1, 7, 21, 0, 0, 0, time.UTC))
	if state.On {
		t.Errorf("Expected moon off near new moon, illumination %f", state.Phase.Illumination)
	}
}

func TestGetState_LocalHour(t *testing.T) {
	c := NewCurve(DefaultParams())
	state := c.GetState(time.Date(2000, 1, 21, 21, 30, 0, 0, time.UTC))
	if math.Abs(state.LocalHour-21.5) > 1e-9 {
		t.Errorf("LocalHour = %f, want 21.5", state.LocalHour)
	}
}
