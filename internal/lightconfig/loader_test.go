package lightconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
constants:
  device:
    brightness_scale_max: 1000
    cct_scale_max: 1000
    pwm_scale_max: 255
  clouds:
    cloud_time_scale_sec: 3600
    shimmer_time_scale_sec: 25
    shimmer_amp: 0.04
    shimmer_volatility: 0.30
    max_dt_sec: 1.0
    day_types:
      - name: bright
        prob: 0.65
        center_drop: 0.04
        volatility: 0.010
        min_drop: -0.05
        max_drop: 0.12
        cloud_speed: 0.5
        shimmer_boost: 1.0

versions:
  - date: "2024-01-01"
    sun:
      day_start_hour_local: 9.0
      day_end_hour_local: 19.0
      day_equivalent_full_brightness_hours: 6.0
      day_peak_brightness_fraction: 0.2
      day_min_color_temp_kelvin: 3000
      day_max_color_temp_kelvin: 6500
    moon:
      moon_max_brightness_fraction: 0.05
      moon_color_temp_kelvin: 10000
    rgbw:
      rgb_saturation: 0.30
      rgb_tint: 0.0
      rgb_preserve_total: true
  - date: "2024-02-01"
    sun:
      day_peak_brightness_fraction: 0.8
`

func TestParse_ConstantsAndVersions(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 1000, f.Constants.Device.BrightnessScaleMax)
	assert.Equal(t, 255, f.Constants.Device.PWMScaleMax)
	require.Len(t, f.Constants.Clouds.DayTypes, 1)
	assert.Equal(t, "bright", f.Constants.Clouds.DayTypes[0].Name)
	assert.Equal(t, 0.65, f.Constants.Clouds.DayTypes[0].Prob)

	require.Len(t, f.Versions, 2)
}

func TestParse_NoVersions(t *testing.T) {
	_, err := Parse([]byte("constants:\n  device:\n    pwm_scale_max: 255\n"))
	assert.ErrorIs(t, err, ErrNoVersions)
}

func TestParse_MissingDate(t *testing.T) {
	_, err := Parse([]byte("versions:\n  - sun:\n      day_peak_brightness_fraction: 0.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing its date")
}

func TestParse_InvalidDate(t *testing.T) {
	_, err := Parse([]byte("versions:\n  - date: \"01.02.2024\"\n    sun:\n      day_peak_brightness_fraction: 0.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("versions: [\n"))
	assert.Error(t, err)
}

func TestResolveFor_TypedDecode(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.ResolveFor(day)
	require.NoError(t, err)

	assert.InDelta(t, 9.0, res.Sun.DayStartHourLocal, 1e-9)
	assert.InDelta(t, 0.2, res.Sun.PeakBrightness, 1e-9)
	assert.InDelta(t, 0.05, res.Moon.MaxBrightness, 1e-9)
	assert.InDelta(t, 0.30, res.RGBW.Saturation, 1e-9)
	assert.True(t, res.RGBW.PreserveTotal)
}

func TestResolveFor_InheritsAndInterpolates(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	// 15 of 31 days into January between the 0.2 and 0.8 versions.
	mid := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	res, err := f.ResolveFor(mid)
	require.NoError(t, err)

	want := 0.2 + (0.8-0.2)*(15.0/31.0)
	assert.InDelta(t, want, res.Sun.PeakBrightness, 1e-9)

	// Fields the second version does not override stay at their
	// inherited values on both sides of the interpolation.
	assert.InDelta(t, 9.0, res.Sun.DayStartHourLocal, 1e-9)
	assert.InDelta(t, 0.05, res.Moon.MaxBrightness, 1e-9)

	after := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	res, err = f.ResolveFor(after)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, res.Sun.PeakBrightness, 1e-9)
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lighting.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Versions, 2)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
