package moon

import (
	"math"
	"time"
)

const (
	// SynodicMonthDays is the mean synodic month length.
	SynodicMonthDays = 29.530588853

	// refNewMoonJD is a reference new moon: 2000-01-06 18:14 UT.
	refNewMoonJD = 2451550.1
)

// PhaseInfo describes the lunar phase at one instant. Derived purely
// from elapsed days since the reference new moon; no ephemeris data.
type PhaseInfo struct {
	PhaseFraction float64 `json:"phase_fraction"` // 0 = new, 0.5 = full, wraps at 1
	Illumination  float64 `json:"illumination"`   // 0..1 fraction of the disc illuminated
	AgeDays       float64 `json:"age_days"`       // days since last new moon
	SynodicDays   float64 `json:"synodic_days"`
}

// Phase computes the lunar phase for the given instant using the mean
// synodic month clock.
func Phase(t time.Time) PhaseInfo {
	jd := julianDay(t.UTC())
	daysSince := jd - refNewMoonJD

	phase := math.Mod(daysSince/SynodicMonthDays, 1.0)
	if phase < 0 {
		phase += 1.0
	}

	illumination := 0.5 * (1.0 - math.Cos(2.0*math.Pi*phase))

	return PhaseInfo{
		PhaseFraction: phase,
		Illumination:  illumination,
		AgeDays:       phase * SynodicMonthDays,
		SynodicDays:   SynodicMonthDays,
	}
}

// julianDay converts a UTC time to a Julian Day using the standard
// Gregorian algorithm (January and February count as months 13 and 14
// of the previous year).
func julianDay(t time.Time) float64 {
	year := t.Year()
	month := int(t.Month())
	day := float64(t.Day()) +
		(float64(t.Hour())+(float64(t.Minute())+float64(t.Second())/60.0)/60.0)/24.0

	if month <= 2 {
		year--
		month += 12
	}

	a := year / 100
	b := 2 - a + a/4

	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		day + float64(b) - 1524.5
}
