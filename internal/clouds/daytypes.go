package clouds

// DayType configures one kind of simulated weather day.
type DayType struct {
	Name string  `yaml:"name"`
	Prob float64 `yaml:"prob"`

	// Slow cloud-drop process (mean-reverting around CenterDrop).
	CenterDrop float64 `yaml:"center_drop"` // OU mean, signed fraction
	Volatility float64 `yaml:"volatility"`  // random walk strength
	MinDrop    float64 `yaml:"min_drop"`    // lower bound, usually negative
	MaxDrop    float64 `yaml:"max_drop"`    // upper bound, can be > 0
	CloudSpeed float64 `yaml:"cloud_speed"` // >1 faster reversion, <1 slower

	// Bright-hole bursts.
	BurstProbPerMin float64 `yaml:"burst_prob_per_min"`
	BurstStrength   float64 `yaml:"burst_strength"` // pull toward 0 on burst

	// Shimmer amplitude scaling for this day type.
	ShimmerBoost float64 `yaml:"shimmer_boost"`
}

// DefaultDayTypes is the tuned bright / cloudy / very_cloudy mix.
func DefaultDayTypes() []DayType {
	return []DayType{
		{
			Name:         "bright",
			Prob:         0.65,
			CenterDrop:   0.04, // biased above 0, almost no dimming
			Volatility:   0.010,
			MinDrop:      -0.05,
			MaxDrop:      0.12,
			CloudSpeed:   0.5, // ~2h mean reversion
			ShimmerBoost: 1.0,
		},
		{
			Name:            "cloudy",
			Prob:            0.25,
			CenterDrop:      0.06,
			Volatility:      0.020,
			MinDrop:         -0.25,
			MaxDrop:         0.18,
			CloudSpeed:      0.8,   // ~75min mean reversion
			BurstProbPerMin: 0.015, // ~1 bright break per ~65min
			BurstStrength:   0.5,
			ShimmerBoost:    1.0,
		},
		{
			Name:            "very_cloudy",
			Prob:            0.10,
			CenterDrop:      -0.35, // 30-35% dim on average
			Volatility:      0.030,
			MinDrop:         -0.60,
			MaxDrop:         0.15, // can reach 0 dimming, real bright holes
			CloudSpeed:      1.2,  // ~50min mean reversion
			BurstProbPerMin: 0.08,
			BurstStrength:   0.6,
			ShimmerBoost:    1.0,
		},
	}
}
