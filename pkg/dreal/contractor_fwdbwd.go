package dreal

import "math"

// NewIbexFwdBwd builds a single-atom forward/backward contractor
// (HC4-style), grounded on the original's ContractorIbexFwdbwd. If the
// atom's free variables are disjoint from box (a structurally trivial
// atom whose value cannot change as the box narrows), the contractor is
// a dummy that the caller should elide — mirroring the original's
// is_dummy_ flag set when the ibex converter fails to build a
// constraint.
func NewIbexFwdBwd(a Atom, box *Box, delta float64) Contractor {
	input := NewDynamicBitset(box.Size())
	any := false
	for _, v := range a.FreeVariables() {
		if i := box.Index(v); i >= 0 {
			input.Set(i)
			any = true
		}
	}
	return Contractor{
		kind:    KindIbexFwdBwd,
		input:   input,
		atom:    a,
		isDummy: !any,
	}
}

// pruneFwdBwd runs one forward/backward evaluation pass for the atom:
// forward-evaluate both sides, then backward-propagate the constraint
// implied by the atom's relational operator into each free variable's
// interval by intersecting with the range consistent with the other
// side's enclosure.
func (c Contractor) pruneFwdBwd(cs *ContractorStatus) {
	if c.isDummy {
		return
	}
	box := cs.Box()
	oldIV := box.IntervalVector()

	_, _, changed := narrowAtom(c.atom, box)

	if box.Empty() {
		cs.output.SetAll()
		if cs.stats != nil {
			cs.stats.recordFwdBwdPrune(true)
		}
		cs.AddUsedConstraint(c.atom)
		return
	}

	anyChanged := false
	newIV := box.IntervalVector()
	c.input.ForEachSet(func(i int) {
		if oldIV[i] != newIV[i] {
			cs.output.Set(i)
			anyChanged = true
		}
	})

	if cs.stats != nil {
		cs.stats.recordFwdBwdPrune(anyChanged || changed)
	}
	if anyChanged || changed {
		cs.AddUsedConstraint(c.atom)
	}
}

// narrowAtom evaluates atom's sides and backward-propagates the
// relational constraint through both expression trees via HC4Revise.
// `changed` reports whether any variable's interval actually shrank.
func narrowAtom(a Atom, box *Box) (Interval, Interval, bool) {
	lhs, lok := a.Lhs.Eval(box)
	rhs, rok := a.Rhs.Eval(box)
	if !lok || !rok {
		return lhs, rhs, false
	}

	var feasible Interval
	switch a.Op {
	case OpEq:
		feasible = Interval{Lo: 0, Hi: 0}
	case OpLt, OpLeq:
		feasible = Interval{Lo: math.Inf(-1), Hi: 0}
	case OpGt, OpGeq:
		feasible = Interval{Lo: 0, Hi: math.Inf(1)}
	default:
		// OpNeq carries no useful interval-arithmetic backward
		// propagation (the feasible set is not an interval); forward
		// evaluation in the Formula evaluator still handles it.
		return lhs, rhs, false
	}

	diff := lhs.Sub(rhs)
	narrowedDiff := diff.Intersect(feasible)
	if narrowedDiff.Empty() {
		for _, v := range a.FreeVariables() {
			box.Set(v, EmptyInterval)
		}
		return lhs, rhs, true
	}
	if narrowedDiff == diff {
		return lhs, rhs, false
	}

	// lhs - rhs ∈ narrowedDiff, so lhs ∈ rhs + narrowedDiff and
	// rhs ∈ lhs - narrowedDiff. Push each target through its tree.
	changed := HC4Revise(rhs.Add(narrowedDiff), a.Lhs, box)
	changed = HC4Revise(lhs.Sub(narrowedDiff), a.Rhs, box) || changed
	return lhs, rhs, changed
}

// HC4Revise pushes a target interval backward through expression e,
// narrowing each leaf Variable's box interval to the intersection of its
// current range with the range consistent with the target at its
// parent. Each node inverts its own operator using the sibling's
// current (pre-narrowing) enclosure — the standard single-pass HC4
// "revise" step. Variables occurring more than once (e.g. x*x) are
// narrowed once per occurrence, which is sound but not always maximally
// tight; repeated Fixpoint sweeps recover the slack. Sin/Cos have no
// useful closed-form inverse and are left as a no-op (sound: narrowing
// nothing never removes a solution).
func HC4Revise(target Interval, e Expression, box *Box) bool {
	switch e.kind {
	case ExprConst:
		return false
	case ExprVar:
		i := box.Index(e.v)
		if i < 0 {
			return false
		}
		old := box.Interval(i)
		narrowed := old.Intersect(target)
		if narrowed == old {
			return false
		}
		box.SetInterval(i, narrowed)
		return true
	case ExprNeg:
		return HC4Revise(target.Neg(), e.kids[0], box)
	case ExprAdd:
		a, _ := e.kids[0].Eval(box)
		b, _ := e.kids[1].Eval(box)
		changed := HC4Revise(target.Sub(b), e.kids[0], box)
		changed = HC4Revise(target.Sub(a), e.kids[1], box) || changed
		return changed
	case ExprSub:
		a, _ := e.kids[0].Eval(box)
		b, _ := e.kids[1].Eval(box)
		changed := HC4Revise(target.Add(b), e.kids[0], box)
		changed = HC4Revise(a.Sub(target), e.kids[1], box) || changed
		return changed
	case ExprMul:
		a, _ := e.kids[0].Eval(box)
		b, _ := e.kids[1].Eval(box)
		changed := false
		if at, ok := target.Div(b); ok {
			changed = HC4Revise(at, e.kids[0], box) || changed
		}
		if bt, ok := target.Div(a); ok {
			changed = HC4Revise(bt, e.kids[1], box) || changed
		}
		return changed
	case ExprDiv:
		a, _ := e.kids[0].Eval(box)
		b, _ := e.kids[1].Eval(box)
		changed := HC4Revise(target.Mul(b), e.kids[0], box)
		if bt, ok := a.Div(target); ok {
			changed = HC4Revise(bt, e.kids[1], box) || changed
		}
		return changed
	case ExprExp:
		if target.Hi <= 0 {
			return false
		}
		lo := target.Lo
		if lo <= 0 {
			lo = math.SmallestNonzeroFloat64
		}
		return HC4Revise(Interval{Lo: math.Log(lo), Hi: math.Log(target.Hi)}, e.kids[0], box)
	default:
		// ExprSin, ExprCos: no closed-form, sound single-valued inverse.
		return false
	}
}
