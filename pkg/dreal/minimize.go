package dreal

import "math"

const minimizeFallbackBound = 1e6
const minimizeMaxProbes = 256

// Minimize implements spec §4.H's Minimize(objective, constraint, δ): a
// binary search on an upper bound for objective, re-solving
// `constraint ∧ objective ≤ u` at each probe. δ is taken from cfg
// (WithPrecision), consistent with CheckSatisfiability.
//
// The spec names the bound "a fresh upper-bound variable u"; here u is
// kept as a plain float64 search parameter rather than threaded through
// the solver as a Variable — it only ever appears as a constant in the
// probe atom `objective <= Const(u)`, so introducing real solver-level
// identity for it would add bookkeeping with no semantic payoff.
//
// Returns (nil, nil) for infeasible (no box satisfies constraint at
// all), matching CheckSatisfiability's nil-for-unsat convention.
func Minimize(objective Expression, constraint Formula, cfg *Config) (*Box, error) {
	defer ClearInterrupt()
	ctx := NewContext(cfg)
	witness, err := ctx.CheckSatisfiability(constraint)
	if err != nil {
		return nil, err
	}
	if witness == nil {
		return nil, nil
	}

	objIV, ok := objective.Eval(witness)
	if !ok {
		return nil, ErrUnsupported
	}
	// hi starts at a certified feasible value (the witness's objective
	// enclosure), so every subsequent probe searches strictly below a
	// value we already know is achievable. lo starts pessimistically low
	// rather than at this same witness's tight enclosure — otherwise
	// hi-lo would already be under cfg.Precision and the search below
	// would never run a single probe.
	lo, hi := -minimizeFallbackBound, objIV.Hi
	if math.IsInf(hi, 1) {
		hi = minimizeFallbackBound
	}

	// UseLocalOptimization trades extra probes for a tighter final
	// enclosure: the ordinary stopping gap is cfg.Precision, refined
	// here to a tenth of that, with a larger probe budget to match.
	targetGap := cfg.Precision
	maxProbes := minimizeMaxProbes
	if cfg.UseLocalOptimization {
		targetGap /= 10
		maxProbes += minimizeMaxProbes / 4
	}

	best := witness
	for i := 0; i < maxProbes && hi-lo > targetGap; i++ {
		if err := PollInterrupt(); err != nil {
			return nil, err
		}
		mid := lo + (hi-lo)/2
		probe := And(constraint, FormulaOfAtom(NewAtom(objective, OpLeq, Const(mid))))
		box, err := ctx.CheckSatisfiability(probe)
		if err != nil {
			return nil, err
		}
		if box != nil {
			best = box
			if witnessIV, ok := objective.Eval(box); ok {
				hi = witnessIV.Mid()
			} else {
				hi = mid
			}
		} else {
			lo = mid
		}
	}
	return best, nil
}
