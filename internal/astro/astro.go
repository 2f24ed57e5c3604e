// Package astro computes the real astronomical day at the configured
// coordinates. It exists purely as a reference printed next to the
// artificial curves; the engine itself runs on its own clock model.
package astro

import (
	"fmt"
	"strings"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Reference is one day of observed sky data.
type Reference struct {
	Date      time.Time
	Latitude  float64
	Longitude float64

	Sunrise   time.Time
	SolarNoon time.Time
	Sunset    time.Time

	DayLengthHours float64

	// Observed lunar state, as opposed to the mean-synodic model the
	// engine uses.
	MoonFraction float64 // illuminated disc fraction 0..1
	MoonPhase    float64 // 0 new, 0.5 full
}

// Compute evaluates sun times and moon illumination for the given day.
func Compute(date time.Time, lat, lon float64) Reference {
	times := suncalc.GetTimes(date, lat, lon)
	moon := suncalc.GetMoonIllumination(date)

	ref := Reference{
		Date:         date,
		Latitude:     lat,
		Longitude:    lon,
		Sunrise:      times[suncalc.Sunrise].Value,
		SolarNoon:    times[suncalc.SolarNoon].Value,
		Sunset:       times[suncalc.Sunset].Value,
		MoonFraction: moon.Fraction,
		MoonPhase:    moon.Phase,
	}

	if !ref.Sunset.IsZero() && !ref.Sunrise.IsZero() {
		ref.DayLengthHours = ref.Sunset.Sub(ref.Sunrise).Hours()
	}

	return ref
}

// String formats the reference block for the preview report.
func (r Reference) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Astronomical reference (%.4f, %.4f) on %s\n",
		r.Latitude, r.Longitude, r.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "  sunrise:    %s\n", r.Sunrise.Local().Format("15:04"))
	fmt.Fprintf(&b, "  solar noon: %s\n", r.SolarNoon.Local().Format("15:04"))
	fmt.Fprintf(&b, "  sunset:     %s\n", r.Sunset.Local().Format("15:04"))
	fmt.Fprintf(&b, "  day length: %.2f h\n", r.DayLengthHours)
	fmt.Fprintf(&b, "  moon:       %.0f%% illuminated (phase %.2f)\n",
		r.MoonFraction*100, r.MoonPhase)
	return b.String()
}
