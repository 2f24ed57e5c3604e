// Package lightconfig loads the lighting parameter file and resolves
// the date-versioned entries into the concrete parameters the curve
// engine consumes.
package lightconfig

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Tree is a parsed nested parameter mapping.
type Tree = map[string]interface{}

// ErrNoVersions is returned when the version collection is empty.
var ErrNoVersions = errors.New("lightconfig: no version entries")

// Version is one dated partial parameter tree.
type Version struct {
	Date time.Time
	Tree Tree
}

// Resolver folds versions into cumulative snapshots and interpolates
// between them for a requested date. It owns its snapshots; input
// trees are never mutated.
type Resolver struct {
	snapshots []Version
}

// NewResolver sorts the versions by date and builds the cumulative
// inheritance chain: each snapshot is the structural merge of every
// version up to and including its date.
func NewResolver(versions []Version) (*Resolver, error) {
	if len(versions) == 0 {
		return nil, ErrNoVersions
	}
	for i, v := range versions {
		if v.Date.IsZero() {
			return nil, fmt.Errorf("lightconfig: version entry %d has no date", i)
		}
	}

	sorted := make([]Version, len(versions))
	copy(sorted, versions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	snapshots := make([]Version, 0, len(sorted))
	running := Tree{}
	for _, v := range sorted {
		running = mergeTrees(running, v.Tree)
		snapshots = append(snapshots, Version{
			Date: v.Date,
			Tree: deepCopyTree(running),
		})
	}

	return &Resolver{snapshots: snapshots}, nil
}

// ResolveFor returns the parameter tree effective on the given date.
// Requests outside the versioned range clamp to the nearest endpoint;
// between two versions numeric leaves are linearly interpolated.
func (r *Resolver) ResolveFor(date time.Time) Tree {
	day := truncateToDay(date)
	first := r.snapshots[0]
	last := r.snapshots[len(r.snapshots)-1]

	if !day.After(truncateToDay(first.Date)) {
		return deepCopyTree(first.Tree)
	}
	if !day.Before(truncateToDay(last.Date)) {
		return deepCopyTree(last.Tree)
	}

	for i := 0; i < len(r.snapshots)-1; i++ {
		d0 := truncateToDay(r.snapshots[i].Date)
		d1 := truncateToDay(r.snapshots[i+1].Date)
		if day.Before(d0) || day.After(d1) {
			continue
		}
		totalDays := int(d1.Sub(d0).Hours() / 24)
		if totalDays <= 0 {
			return deepCopyTree(r.snapshots[i].Tree)
		}
		elapsed := int(day.Sub(d0).Hours() / 24)
		alpha := float64(elapsed) / float64(totalDays)
		return interpTrees(r.snapshots[i].Tree, r.snapshots[i+1].Tree, alpha)
	}

	return deepCopyTree(last.Tree)
}

// mergeTrees inherits structure from old and overrides with new: when
// both sides hold a nested mapping the merge recurses, otherwise the
// new value wins. Neither input is mutated.
func mergeTrees(old, new Tree) Tree {
	result := make(Tree, len(old)+len(new))
	for k, v := range old {
		result[k] = v
	}
	for k, v := range new {
		if oldSub, ok := result[k].(Tree); ok {
			if newSub, ok := v.(Tree); ok {
				result[k] = mergeTrees(oldSub, newSub)
				continue
			}
		}
		result[k] = v
	}
	return result
}

// interpTrees interpolates two trees at alpha in [0, 1]: numeric
// leaves lerp, nested mappings recurse, anything else picks the
// endpoint nearer to alpha (a midpoint tie goes to the later one).
func interpTrees(a, b Tree, alpha float64) Tree {
	result := Tree{}
	for k, av := range a {
		if bv, ok := b[k]; ok {
			result[k] = interpValues(av, bv, alpha)
		} else {
			result[k] = deepCopyValue(av)
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			result[k] = deepCopyValue(bv)
		}
	}
	return result
}

func interpValues(a, b interface{}, alpha float64) interface{} {
	if an, aok := asNumber(a); aok {
		if bn, bok := asNumber(b); bok {
			return an + (bn-an)*alpha
		}
	}
	if at, aok := a.(Tree); aok {
		if bt, bok := b.(Tree); bok {
			return interpTrees(at, bt, alpha)
		}
	}
	if alpha < 0.5 {
		return deepCopyValue(a)
	}
	return deepCopyValue(b)
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func deepCopyTree(t Tree) Tree {
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch x := v.(type) {
	case Tree:
		return deepCopyTree(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
