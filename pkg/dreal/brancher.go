package dreal

import "math"

// BrancherFunc picks a dimension of box to split, restricted to the
// dimensions set in active, and returns the two bisected boxes. It
// returns ok=false if no dimension in active is bisectable (the search
// branch is exhausted and must be reported Unknown/δ-sat as-is).
//
// Grounded on the original's brancher.cc: FindMaxDiam/BranchLargestFirst
// and FindPreferredDiam/BranchPreferredFirst.
type BrancherFunc func(box *Box, active DynamicBitset) (left, right *Box, dim int, ok bool)

// NewBrancher builds the BrancherFunc named by cfg.Brancher.
func NewBrancher(cfg *Config) BrancherFunc {
	switch cfg.Brancher {
	case BrancherPreferredFirst:
		return preferredFirstBrancher(cfg.PreferredVariables, cfg.PreferredPrecision)
	default:
		return BranchLargestFirst
	}
}

// FindMaxDiam returns the widest bisectable dimension in active, and its
// diameter. Returns (-1, 0) if none is bisectable.
func FindMaxDiam(box *Box, active DynamicBitset) (idx int, diam float64) {
	idx = -1
	active.ForEachSet(func(i int) {
		iv := box.Interval(i)
		if !iv.Bisectable() {
			return
		}
		d := iv.Diam()
		if d > diam {
			diam = d
			idx = i
		}
	})
	return idx, diam
}

// BranchLargestFirst splits the widest bisectable dimension in active.
func BranchLargestFirst(box *Box, active DynamicBitset) (left, right *Box, dim int, ok bool) {
	if active.None() {
		return nil, nil, -1, false
	}
	idx, _ := FindMaxDiam(box, active)
	if idx < 0 {
		return nil, nil, -1, false
	}
	l, r := box.Bisect(idx)
	return l, r, idx, true
}

// preferredFirstBrancher closes over a preferred-variable set and
// threshold, mirroring FindPreferredDiam/BranchPreferredFirst: among
// dimensions still wider than preferredThreshold, a preferred variable
// always wins over a non-preferred one; among two preferred candidates,
// the wider one wins, with infinite-diameter ties broken by the lower
// dimension index (matching the original's `idx < max_diam_idx` tie
// rule, which favors earlier-declared variables when nothing else
// distinguishes them).
func preferredFirstBrancher(preferred map[string]bool, preferredThreshold float64) BrancherFunc {
	return func(box *Box, active DynamicBitset) (left, right *Box, dim int, ok bool) {
		if active.None() {
			return nil, nil, -1, false
		}
		idx, _ := findPreferredDiam(box, active, preferred, preferredThreshold)
		if idx < 0 {
			return nil, nil, -1, false
		}
		l, r := box.Bisect(idx)
		return l, r, idx, true
	}
}

func findPreferredDiam(box *Box, active DynamicBitset, preferred map[string]bool, preferredThreshold float64) (maxIdx int, maxDiam float64) {
	maxIdx = -1
	maxDiam = -math.MaxFloat64
	isPreferred := false

	active.ForEachSet(func(i int) {
		iv := box.Interval(i)
		diam := iv.Diam()
		iIsPreferred := preferred[box.Variable(i).Name()]

		canSplit := ((iIsPreferred && diam > preferredThreshold) ||
			(!iIsPreferred && diam > maxDiam)) && iv.Bisectable()

		switch {
		case maxIdx == -1 && canSplit:
			isPreferred, maxDiam, maxIdx = iIsPreferred, diam, i
		case iIsPreferred && canSplit &&
			(!isPreferred ||
				(math.IsInf(diam, 1) && math.IsInf(maxDiam, 1) && i < maxIdx) ||
				(!math.IsInf(diam, 1) && diam > maxDiam)):
			isPreferred, maxDiam, maxIdx = iIsPreferred, diam, i
		case !isPreferred && canSplit && diam > maxDiam:
			isPreferred, maxDiam, maxIdx = iIsPreferred, diam, i
		}
	})
	return maxIdx, maxDiam
}
