package clouds

import (
	"math"
	"testing"
	"time"
)

func newTestProcess(seed int64) *Process {
	opts := DefaultOptions()
	opts.Seed = seed
	return NewProcess(nil, opts)
}

// baseTs returns a fixed local-noon timestamp so a simulated run never
// crosses a calendar day boundary.
func baseTs(t *testing.T) float64 {
	t.Helper()
	noon := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	return float64(noon.Unix())
}

func TestGetMultiplier_BoundsOverLongRun(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		p := newTestProcess(seed)
		ts := baseTs(t)

		maxFactor := 1.0 + p.opts.ShimmerAmp*maxBoost(p.dayTypes)
		for i := 0; i < 20000; i++ {
			ts += 1.0
			factor := p.GetMultiplier(ts, 0.8)
			if factor < 0 || factor > maxFactor+1e-9 {
				t.Fatalf("seed %d tick %d: factor %f outside [0, %f]", seed, i, factor, maxFactor)
			}
		}
	}
}

func maxBoost(dayTypes []DayType) float64 {
	m := 0.0
	for _, dt := range dayTypes {
		if dt.ShimmerBoost > m {
			m = dt.ShimmerBoost
		}
	}
	return m
}

func TestGetMultiplier_DropStaysInDayTypeRange(t *testing.T) {
	p := newTestProcess(42)
	ts := baseTs(t)

	for i := 0; i < 10000; i++ {
		ts += 1.0
		p.GetMultiplier(ts, 1.0)
		cfg := p.currentDayType
		if p.drop < cfg.MinDrop-1e-9 || p.drop > cfg.MaxDrop+1e-9 {
			t.Fatalf("tick %d: drop %f outside [%f, %f] for %s",
				i, p.drop, cfg.MinDrop, cfg.MaxDrop, cfg.Name)
		}
	}
}

func TestGetMultiplier_OffTickDoesNotStep(t *testing.T) {
	p := newTestProcess(7)
	ts := baseTs(t)

	p.GetMultiplier(ts, 1.0) // establishes day state and lastTs
	dropBefore := p.drop
	shimmerBefore := p.shimmerState

	// Dark ticks return 1.0 and leave the walk untouched, but still
	// record the timestamp.
	for i := 1; i <= 10; i++ {
		factor := p.GetMultiplier(ts+float64(i), 0.0)
		if factor != 1.0 {
			t.Fatalf("off tick returned %f, want 1.0", factor)
		}
	}
	if p.drop != dropBefore || p.shimmerState != shimmerBefore {
		t.Errorf("off ticks advanced the walk: drop %f->%f shimmer %f->%f",
			dropBefore, p.drop, shimmerBefore, p.shimmerState)
	}
	if p.lastTs != ts+10 {
		t.Errorf("off ticks should still advance lastTs, got %f want %f", p.lastTs, ts+10)
	}
}

func TestGetMultiplier_FirstCallIsNeutralStep(t *testing.T) {
	p := newTestProcess(3)
	ts := baseTs(t)

	// First call has dt=0: the multiplier reflects only the freshly
	// reset day state (drop=centerDrop, shimmer=0).
	factor := p.GetMultiplier(ts, 1.0)
	cfg := p.currentDayType

	expectedDrop := math.Max(0.0, -cfg.CenterDrop)
	want := 1.0 - expectedDrop
	if math.Abs(factor-want) > 1e-9 {
		t.Errorf("first factor = %f, want %f for day type %s", factor, want, cfg.Name)
	}
}

func TestDayTypeResetOnDayChange(t *testing.T) {
	p := newTestProcess(11)

	day1 := time.Date(2024, 6, 15, 23, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 6, 16, 1, 0, 0, 0, time.Local)

	p.GetMultiplier(float64(day1.Unix()), 1.0)
	for i := 1; i <= 100; i++ {
		p.GetMultiplier(float64(day1.Unix())+float64(i), 1.0)
	}

	p.GetMultiplier(float64(day2.Unix()), 1.0)
	cfg := p.currentDayType

	// After the day change the drop restarts from the (possibly new)
	// day type's center plus at most one dt<=maxDt step.
	if math.Abs(p.drop-cfg.CenterDrop) > cfg.Volatility*10 {
		t.Errorf("drop %f did not reset near center %f on day change", p.drop, cfg.CenterDrop)
	}
}

func TestDtClampBoundsStallEffect(t *testing.T) {
	p := newTestProcess(19)
	ts := baseTs(t)

	p.GetMultiplier(ts, 1.0)
	before := p.drop

	// A huge stall must behave like a single maxDt step, not a jump.
	// One clamped second of OU noise moves the drop by a few percent
	// at most; an unclamped two-hour step would swing it to a clamp
	// boundary.
	p.GetMultiplier(ts+7200, 1.0)
	after := p.drop

	if math.Abs(after-before) > 0.25 {
		t.Errorf("stall moved drop by %f, expected a single clamped step", math.Abs(after-before))
	}
}

func TestProbabilityNormalization(t *testing.T) {
	p := NewProcess([]DayType{
		{Name: "a", Prob: 2, CenterDrop: 0},
		{Name: "b", Prob: 6, CenterDrop: 0},
	}, DefaultOptions())

	total := 0.0
	for _, dt := range p.dayTypes {
		total += dt.Prob
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("day type probabilities sum to %f, want 1", total)
	}
	if math.Abs(p.dayTypes[0].Prob-0.25) > 1e-9 {
		t.Errorf("first day type prob = %f, want 0.25", p.dayTypes[0].Prob)
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	run := func() []float64 {
		p := newTestProcess(99)
		ts := baseTs(t)
		out := make([]float64, 0, 100)
		for i := 0; i < 100; i++ {
			ts += 1.0
			out = append(out, p.GetMultiplier(ts, 0.9))
		}
		return out
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tick %d differs between seeded runs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestVeryCloudyDayDims(t *testing.T) {
	// Force a single very cloudy day type so the long-run average
	// multiplier sits clearly below 1.
	p := NewProcess([]DayType{{
		Name:       "very_cloudy",
		Prob:       1,
		CenterDrop: -0.35,
		Volatility: 0.030,
		MinDrop:    -0.60,
		MaxDrop:    0.15,
		CloudSpeed: 1.2,
	}}, Options{
		CloudTimeScaleSec:   3600,
		ShimmerTimeScaleSec: 25,
		ShimmerAmp:          0.04,
		ShimmerVolatility:   0.30,
		MaxDtSec:            1.0,
		Seed:                5,
	})

	ts := baseTs(t)
	sum := 0.0
	const n = 5000
	for i := 0; i < n; i++ {
		ts += 1.0
		sum += p.GetMultiplier(ts, 1.0)
	}
	avg := sum / n
	if avg > 0.95 {
		t.Errorf("very cloudy average multiplier %f, expected meaningful dimming", avg)
	}
}
