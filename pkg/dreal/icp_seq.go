package dreal

import "log"

// ICPResult is the outcome of an ICP-Seq or ICP-MCTS invocation. Sat and
// Unknown are mutually exclusive; Unknown is only ever set by ICP-MCTS
// when its iteration budget is exhausted before the tree is fully
// explored and no δ-sat witness was found along the way.
type ICPResult struct {
	Box             *Box
	Sat             bool
	Unknown         bool
	UsedConstraints []Atom
}

// ICPSeq runs the depth-first branch-and-prune search described in spec
// §4.E: a LIFO stack of boxes, one contractor sweep per pop, an
// atom/forall consistency check, and bisection on the branching
// dimension chosen by the brancher. Grounded on the original's
// icp_seq.cc main loop, adapted to the tagged-variant Contractor here.
//
// stats accumulates pruning/branching counters observable afterward via
// Context.Stats; a nil stats allocates a throwaway one (callers outside
// Context, e.g. tests, that don't care to inspect it). logger receives
// branch-decision tracing when non-nil.
func ICPSeq(box *Box, formula Formula, contractor Contractor, cfg *Config, stats *Stats, logger *log.Logger) (ICPResult, error) {
	checks := buildConstraintChecks(formula, cfg.Precision)
	brancher := NewBrancher(cfg)
	if stats == nil {
		stats = NewStats()
	}

	stack := []*Box{box}
	used := map[string]Atom{}

	for len(stack) > 0 {
		if err := PollInterrupt(); err != nil {
			return ICPResult{}, err
		}

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cs := NewContractorStatus(cur, stats)
		if err := contractor.Prune(cs); err != nil {
			return ICPResult{}, err
		}
		for _, a := range cs.UsedConstraints() {
			used[a.Key()] = a
		}
		if cur.Empty() {
			continue
		}

		active, allTrue, anyFalse := activeSet(checks, cur)
		if anyFalse {
			continue
		}
		if allTrue {
			return ICPResult{Box: cur, Sat: true, UsedConstraints: usedSlice(used)}, nil
		}
		if active.None() {
			return ICPResult{Box: cur, Sat: true, UsedConstraints: usedSlice(used)}, nil
		}
		if _, diam := FindMaxDiam(cur, active); diam <= cfg.Precision {
			return ICPResult{Box: cur, Sat: true, UsedConstraints: usedSlice(used)}, nil
		}

		left, right, dim, ok := brancher(cur, active)
		if !ok {
			// Nothing bisectable in the active set yet the diameter test
			// above didn't already return δ-sat (e.g. all-degenerate but
			// not exactly below precision): accept as δ-sat, matching the
			// original's fallback when FindMaxDiam/FindPreferredDiam can't
			// find a candidate.
			return ICPResult{Box: cur, Sat: true, UsedConstraints: usedSlice(used)}, nil
		}
		stats.recordBranch()
		if logger != nil {
			logger.Printf("dreal: icp-seq branch on %s [diam=%v]", cur.Variable(dim), cur.Interval(dim).Diam())
		}
		if cfg.StackLeftBoxFirst {
			stack = append(stack, right, left)
		} else {
			stack = append(stack, left, right)
		}
	}

	return ICPResult{Sat: false, UsedConstraints: usedSlice(used)}, nil
}

func usedSlice(used map[string]Atom) []Atom {
	out := make([]Atom, 0, len(used))
	for _, a := range used {
		out = append(out, a)
	}
	return out
}
