package lightconfig

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewResolver_EmptyVersions(t *testing.T) {
	_, err := NewResolver(nil)
	assert.ErrorIs(t, err, ErrNoVersions)
}

func TestNewResolver_MissingDate(t *testing.T) {
	_, err := NewResolver([]Version{{Tree: Tree{"x": 1}}})
	assert.Error(t, err)
}

func TestResolveFor_LinearInterpolation(t *testing.T) {
	r, err := NewResolver([]Version{
		{Date: date("2024-01-01"), Tree: Tree{"brightness": 0.2}},
		{Date: date("2024-02-01"), Tree: Tree{"brightness": 0.8}},
	})
	require.NoError(t, err)

	// Halfway by calendar: 15 of 31 days.
	got := r.ResolveFor(date("2024-01-16"))
	want := 0.2 + 0.6*(15.0/31.0)
	assert.InDelta(t, want, got["brightness"].(float64), 1e-9)
}

func TestResolveFor_ClampsToEndpoints(t *testing.T) {
	r, err := NewResolver([]Version{
		{Date: date("2024-01-01"), Tree: Tree{"v": 1.0}},
		{Date: date("2024-02-01"), Tree: Tree{"v": 2.0}},
	})
	require.NoError(t, err)

	before := r.ResolveFor(date("2023-06-01"))
	assert.InDelta(t, 1.0, before["v"].(float64), 1e-9)

	after := r.ResolveFor(date("2025-01-01"))
	assert.InDelta(t, 2.0, after["v"].(float64), 1e-9)
}

func TestResolveFor_ExactDateReturnsSnapshot(t *testing.T) {
	r, err := NewResolver([]Version{
		{Date: date("2024-01-01"), Tree: Tree{"sun": Tree{"a": 1.0, "b": 2.0}}},
		{Date: date("2024-02-01"), Tree: Tree{"sun": Tree{"a": 5.0}}},
		{Date: date("2024-03-01"), Tree: Tree{"sun": Tree{"b": 9.0}}},
	})
	require.NoError(t, err)

	// Resolving at a version's own date gives its cumulative snapshot
	// with no interpolation drift.
	mid := r.ResolveFor(date("2024-02-01"))
	sun := mid["sun"].(Tree)
	assert.InDelta(t, 5.0, sun["a"].(float64), 1e-12)
	assert.InDelta(t, 2.0, sun["b"].(float64), 1e-12, "field inherited from earlier version")

	last := r.ResolveFor(date("2024-03-01"))
	sun = last["sun"].(Tree)
	assert.InDelta(t, 5.0, sun["a"].(float64), 1e-12)
	assert.InDelta(t, 9.0, sun["b"].(float64), 1e-12)
}

func TestResolveFor_NestedInterpolation(t *testing.T) {
	r, err := NewResolver([]Version{
		{Date: date("2024-01-01"), Tree: Tree{"sun": Tree{"peak": 0.0}}},
		{Date: date("2024-01-11"), Tree: Tree{"sun": Tree{"peak": 1.0}}},
	})
	require.NoError(t, err)

	got := r.ResolveFor(date("2024-01-06"))
	sun := got["sun"].(Tree)
	assert.InDelta(t, 0.5, sun["peak"].(float64), 1e-9)
}

func TestResolveFor_NonNumericPicksNearerEndpoint(t *testing.T) {
	r, err := NewResolver([]Version{
		{Date: date("2024-01-01"), Tree: Tree{"mode": "warm"}},
		{Date: date("2024-01-11"), Tree: Tree{"mode": "cool"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "warm", r.ResolveFor(date("2024-01-03"))["mode"])
	assert.Equal(t, "cool", r.ResolveFor(date("2024-01-09"))["mode"])
	// Midpoint tie goes to the later endpoint.
	assert.Equal(t, "cool", r.ResolveFor(date("2024-01-06"))["mode"])
}

func TestResolveFor_IntAndFloatLeavesInterpolate(t *testing.T) {
	r, err := NewResolver([]Version{
		{Date: date("2024-01-01"), Tree: Tree{"hours": 8}},
		{Date: date("2024-01-11"), Tree: Tree{"hours": 10.0}},
	})
	require.NoError(t, err)

	got := r.ResolveFor(date("2024-01-06"))
	assert.InDelta(t, 9.0, got["hours"].(float64), 1e-9)
}

func TestMergeTrees_RecursiveOverride(t *testing.T) {
	old := Tree{
		"sun":  Tree{"a": 1, "b": 2},
		"moon": Tree{"m": 1},
	}
	new := Tree{
		"sun": Tree{"b": 3, "c": 4},
	}

	merged := mergeTrees(old, new)
	sun := merged["sun"].(Tree)
	assert.Equal(t, 1, sun["a"])
	assert.Equal(t, 3, sun["b"])
	assert.Equal(t, 4, sun["c"])
	assert.Equal(t, Tree{"m": 1}, merged["moon"])
}

func TestMergeTrees_NonMapReplaces(t *testing.T) {
	old := Tree{"luts": Tree{"r": []interface{}{1, 2}}}
	new := Tree{"luts": Tree{"r": []interface{}{3}}}

	merged := mergeTrees(old, new)
	luts := merged["luts"].(Tree)
	assert.Equal(t, []interface{}{3}, luts["r"])
}

func TestSnapshotIsolation(t *testing.T) {
	v1 := Tree{"sun": Tree{"a": 1.0}}
	v2 := Tree{"sun": Tree{"a": 2.0}}

	r, err := NewResolver([]Version{
		{Date: date("2024-01-01"), Tree: v1},
		{Date: date("2024-02-01"), Tree: v2},
	})
	require.NoError(t, err)

	// Mutating a resolved tree must not leak back into the snapshots.
	out := r.ResolveFor(date("2024-01-01"))
	out["sun"].(Tree)["a"] = 99.0

	again := r.ResolveFor(date("2024-01-01"))
	assert.InDelta(t, 1.0, again["sun"].(Tree)["a"].(float64), 1e-12)

	// And input trees were never mutated by the merge fold.
	assert.Equal(t, 1.0, v1["sun"].(Tree)["a"])
}

func TestResolveFor_UnsortedInput(t *testing.T) {
	r, err := NewResolver([]Version{
		{Date: date("2024-03-01"), Tree: Tree{"v": 3.0}},
		{Date: date("2024-01-01"), Tree: Tree{"v": 1.0}},
		{Date: date("2024-02-01"), Tree: Tree{"v": 2.0}},
	})
	require.NoError(t, err)

	got := r.ResolveFor(date("2024-02-01"))
	if math.Abs(got["v"].(float64)-2.0) > 1e-12 {
		t.Errorf("expected sorted fold, got v=%v", got["v"])
	}
}
