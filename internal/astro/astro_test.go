package astro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompute_HelsinkiSeasons(t *testing.T) {
	const lat, lon = 60.1695, 24.9354

	summer := Compute(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), lat, lon)
	winter := Compute(time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC), lat, lon)

	assert.True(t, summer.Sunrise.Before(summer.Sunset))
	assert.Greater(t, summer.DayLengthHours, 17.0)
	assert.Less(t, winter.DayLengthHours, 7.0)
}

func TestCompute_MoonIlluminationBounds(t *testing.T) {
	ref := Compute(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 60.0, 25.0)

	assert.GreaterOrEqual(t, ref.MoonFraction, 0.0)
	assert.LessOrEqual(t, ref.MoonFraction, 1.0)
	assert.GreaterOrEqual(t, ref.MoonPhase, 0.0)
	assert.Less(t, ref.MoonPhase, 1.0)
}

func TestString_ContainsSections(t *testing.T) {
	ref := Compute(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), 60.0, 25.0)

	out := ref.String()
	assert.Contains(t, out, "sunrise")
	assert.Contains(t, out, "day length")
	assert.Contains(t, out, "moon")
}
