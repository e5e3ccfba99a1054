package dreal

// EvalResult is the three-valued outcome of interval-evaluating an atom
// over a box.
type EvalResult int

const (
	// EvalTrue: the atom holds on every point of the box.
	EvalTrue EvalResult = iota
	// EvalFalse: the atom holds nowhere on the box.
	EvalFalse
	// EvalUnknown: neither True nor False could be established from the
	// box's current interval enclosure.
	EvalUnknown
)

func (r EvalResult) String() string {
	switch r {
	case EvalTrue:
		return "True"
	case EvalFalse:
		return "False"
	default:
		return "Unknown"
	}
}

// FormulaEvaluator evaluates one atom against a Box under a fixed δ.
//
// Decision rule: evaluate the left and right interval expressions.
// False ⇒ the SAT layer adds a conflict. True under the δ-relaxed
// comparison ⇒ the atom is δ-satisfied and may be dropped from future
// propagation on this branch.
type FormulaEvaluator struct {
	Atom  Atom
	Delta float64
}

// NewFormulaEvaluator builds an evaluator for a single atom.
func NewFormulaEvaluator(a Atom, delta float64) FormulaEvaluator {
	return FormulaEvaluator{Atom: a, Delta: delta}
}

// Eval interval-evaluates the atom over b and returns True/False/Unknown
// per the δ-relaxed comparison rule.
func (fe FormulaEvaluator) Eval(b *Box) EvalResult {
	lhs, ok1 := fe.Atom.Lhs.Eval(b)
	rhs, ok2 := fe.Atom.Rhs.Eval(b)
	if !ok1 || !ok2 || lhs.Empty() || rhs.Empty() {
		return EvalUnknown
	}
	delta := fe.Delta

	switch fe.Atom.Op {
	case OpEq:
		// False iff the two enclosures are more than δ apart everywhere;
		// True only when both are degenerate points within δ of each
		// other; any other overlap is Unknown.
		if lhs.Hi < rhs.Lo-delta || rhs.Hi < lhs.Lo-delta {
			return EvalFalse
		}
		if lhs.Lo == lhs.Hi && rhs.Lo == rhs.Hi && abs(lhs.Lo-rhs.Lo) <= delta {
			return EvalTrue
		}
		return EvalUnknown
	case OpNeq:
		// True iff the enclosures cannot possibly coincide; False iff
		// both are the same degenerate point.
		if lhs.Hi < rhs.Lo || rhs.Hi < lhs.Lo {
			return EvalTrue
		}
		if lhs.Lo == lhs.Hi && rhs.Lo == rhs.Hi && lhs.Lo == rhs.Lo {
			return EvalFalse
		}
		return EvalUnknown
	case OpLt, OpLeq:
		if lhs.Hi <= rhs.Lo+delta {
			return EvalTrue
		}
		if lhs.Lo > rhs.Hi {
			return EvalFalse
		}
		return EvalUnknown
	case OpGt, OpGeq:
		if lhs.Lo >= rhs.Hi-delta {
			return EvalTrue
		}
		if lhs.Hi < rhs.Lo {
			return EvalFalse
		}
		return EvalUnknown
	default:
		return EvalUnknown
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// EvalFormula evaluates an arbitrary quantifier-free Boolean combination
// of atoms over a box, composing FormulaEvaluator results through
// And/Or/Not with the obvious three-valued truth tables (True/False
// propagate as soon as they decide the result; Unknown is the
// fallback). A nested Forall is evaluated by recursing into its body
// with the bound variable pinned to its quantifier domain in a copy of
// the box — the same technique Contractor's Forall kind uses for
// pruning, reused here for the read-only consistency check.
func EvalFormula(f Formula, box *Box, delta float64) EvalResult {
	switch f.Kind() {
	case FormulaAtom:
		return NewFormulaEvaluator(f.Atom(), delta).Eval(box)
	case FormulaAnd:
		result := EvalTrue
		for _, k := range f.Children() {
			switch EvalFormula(k, box, delta) {
			case EvalFalse:
				return EvalFalse
			case EvalUnknown:
				result = EvalUnknown
			}
		}
		return result
	case FormulaOr:
		result := EvalFalse
		for _, k := range f.Children() {
			switch EvalFormula(k, box, delta) {
			case EvalTrue:
				return EvalTrue
			case EvalUnknown:
				result = EvalUnknown
			}
		}
		return result
	case FormulaNot:
		switch EvalFormula(f.Children()[0], box, delta) {
		case EvalTrue:
			return EvalFalse
		case EvalFalse:
			return EvalTrue
		default:
			return EvalUnknown
		}
	case FormulaForall:
		quantVar, quantDomain, body := f.Quantified()
		extended := extendBoxWith(box, quantVar, quantDomain)
		if extended == nil {
			return EvalUnknown
		}
		return EvalFormula(body, extended, delta)
	default:
		return EvalUnknown
	}
}

// extendBoxWith returns a copy of box with an extra dimension for v
// bound to domain, or nil if v is already a dimension of box (shadowing
// is not supported — callers should pick fresh bound-variable names).
func extendBoxWith(box *Box, v Variable, domain Interval) *Box {
	if box.Index(v) >= 0 {
		return nil
	}
	vars := append(append([]Variable(nil), box.vars...), v)
	ivs := append(append([]Interval(nil), box.ivs...), domain)
	return NewBox(vars, ivs)
}

// flattenConjunction collects the atoms of a formula that is a (possibly
// nested) conjunction of atoms only. Returns ok=false if the formula
// contains Or, Not, or a nested Forall anywhere — those shapes are only
// handled by EvalFormula's consistency check, not by backward narrowing.
func flattenConjunction(f Formula) (atoms []Atom, ok bool) {
	switch f.Kind() {
	case FormulaAtom:
		return []Atom{f.Atom()}, true
	case FormulaAnd:
		var out []Atom
		for _, k := range f.Children() {
			sub, subOK := flattenConjunction(k)
			if !subOK {
				return nil, false
			}
			out = append(out, sub...)
		}
		return out, true
	default:
		return nil, false
	}
}
