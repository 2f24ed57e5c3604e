package lightconfig

// SunConfig is the versioned daylight parameter set.
type SunConfig struct {
	DayStartHourLocal    float64 `yaml:"day_start_hour_local"`
	DayEndHourLocal      float64 `yaml:"day_end_hour_local"`
	EquivalentFullHours  float64 `yaml:"day_equivalent_full_brightness_hours"`
	PeakBrightness       float64 `yaml:"day_peak_brightness_fraction"`
	SmoothingMinutes     float64 `yaml:"day_smoothing_time_constant_minutes"`
	ColorRangeKelvin     float64 `yaml:"day_color_transition_range_kelvin"`
	MinColorTempKelvin   float64 `yaml:"day_min_color_temp_kelvin"`
	MaxColorTempKelvin   float64 `yaml:"day_max_color_temp_kelvin"`
	BlueHourTempKelvin   float64 `yaml:"day_blue_hour_temp_kelvin"`
}

// MoonConfig is the versioned moonlight parameter set.
type MoonConfig struct {
	MaxBrightness   float64 `yaml:"moon_max_brightness_fraction"`
	ColorTempKelvin float64 `yaml:"moon_color_temp_kelvin"`
	DarkStartHour   float64 `yaml:"moon_dark_start_hour"`
	DarkEndHour     float64 `yaml:"moon_dark_end_hour"`
	Warmth          float64 `yaml:"moon_warmth"`
	Saturation      float64 `yaml:"moon_saturation"`
	Tint            float64 `yaml:"moon_tint"`
}

// RGBWConfig is the versioned RGBW tuning parameter set.
type RGBWConfig struct {
	Saturation    float64 `yaml:"rgb_saturation"`
	Tint          float64 `yaml:"rgb_tint"`
	SaturationMin float64 `yaml:"rgb_saturation_min"`
	SaturationMax float64 `yaml:"rgb_saturation_max"`
	TintMin       float64 `yaml:"rgb_tint_min"`
	TintMax       float64 `yaml:"rgb_tint_max"`
	PreserveTotal bool    `yaml:"rgb_preserve_total"`

	ChannelLUTs   map[string][]float64 `yaml:"channel_luts"`
	ChannelGammas map[string]float64   `yaml:"channel_gammas"`
}

// DeviceConfig is the non-versioned device scaling block.
type DeviceConfig struct {
	BrightnessScaleMax int `yaml:"brightness_scale_max"`
	CCTScaleMax        int `yaml:"cct_scale_max"`
	PWMScaleMax        int `yaml:"pwm_scale_max"`
}

// CloudsConfig is the non-versioned weather simulation block.
type CloudsConfig struct {
	CloudTimeScaleSec   float64 `yaml:"cloud_time_scale_sec"`
	ShimmerTimeScaleSec float64 `yaml:"shimmer_time_scale_sec"`
	ShimmerAmp          float64 `yaml:"shimmer_amp"`
	ShimmerVolatility   float64 `yaml:"shimmer_volatility"`
	MaxDtSec            float64 `yaml:"max_dt_sec"`

	DayTypes []DayTypeConfig `yaml:"day_types"`
}

// DayTypeConfig mirrors clouds.DayType for YAML decoding.
type DayTypeConfig struct {
	Name            string  `yaml:"name"`
	Prob            float64 `yaml:"prob"`
	CenterDrop      float64 `yaml:"center_drop"`
	Volatility      float64 `yaml:"volatility"`
	MinDrop         float64 `yaml:"min_drop"`
	MaxDrop         float64 `yaml:"max_drop"`
	CloudSpeed      float64 `yaml:"cloud_speed"`
	BurstProbPerMin float64 `yaml:"burst_prob_per_min"`
	BurstStrength   float64 `yaml:"burst_strength"`
	ShimmerBoost    float64 `yaml:"shimmer_boost"`
}

// Resolved bundles the typed parameter sets effective on one date.
type Resolved struct {
	Sun  SunConfig
	Moon MoonConfig
	RGBW RGBWConfig
}
