package dreal

import "math"

// NewIbexPolytope builds a linear-relaxation contractor over the subset
// of atoms whose expression is linear (LinearCoefficients succeeds for
// Sub(Lhs, Rhs)). Non-linear atoms are silently skipped — the caller is
// expected to have also installed an IbexFwdBwd contractor for every
// atom, so soundness never depends on the polytope contractor alone.
//
// Grounded on spec §4.B: "a small-scale stand-in for Ibex's
// LP-relaxation polytope contractor". Implements interval Gauss-Seidel:
// for each linear atom and each of its variables, isolate the variable
// and intersect its interval with the range implied by the others' current
// enclosures, iterating until a full pass produces no change or 8
// passes have run.
func NewIbexPolytope(atoms []Atom, box *Box) Contractor {
	input := NewDynamicBitset(box.Size())
	var linear []Atom
	for _, a := range atoms {
		if _, _, _, ok := Sub(a.Lhs, a.Rhs).LinearCoefficients(); ok {
			linear = append(linear, a)
			for _, v := range a.FreeVariables() {
				if i := box.Index(v); i >= 0 {
					input.Set(i)
				}
			}
		}
	}
	return Contractor{kind: KindIbexPolytope, input: input, polytopeAtoms: linear}
}

func (c Contractor) prunePolytope(cs *ContractorStatus) {
	if len(c.polytopeAtoms) == 0 {
		return
	}
	box := cs.Box()
	oldIV := box.IntervalVector()

	for pass := 0; pass < 8; pass++ {
		changedThisPass := false
		for _, a := range c.polytopeAtoms {
			coeffs, varOf, constant, ok := Sub(a.Lhs, a.Rhs).LinearCoefficients()
			if !ok {
				continue
			}
			var feasible Interval
			switch a.Op {
			case OpEq:
				feasible = Interval{Lo: 0, Hi: 0}
			case OpLt, OpLeq:
				feasible = Interval{Lo: negInf, Hi: 0}
			case OpGt, OpGeq:
				feasible = Interval{Lo: 0, Hi: posInf}
			default:
				continue
			}
			for id, coeff := range coeffs {
				if coeff == 0 {
					continue
				}
				v := varOf[id]
				i := box.Index(v)
				if i < 0 {
					continue
				}
				rest := Point(constant)
				for otherID, otherCoeff := range coeffs {
					if otherID == id {
						continue
					}
					rest = rest.Add(box.Get(varOf[otherID]).Scale(otherCoeff))
				}
				candidate, ok := feasible.Sub(rest).Div(Point(coeff))
				if !ok {
					continue
				}
				old := box.Interval(i)
				narrowed := old.Intersect(candidate)
				if narrowed.Empty() {
					box.SetInterval(i, EmptyInterval)
					changedThisPass = true
					continue
				}
				if narrowed != old {
					box.SetInterval(i, narrowed)
					changedThisPass = true
				}
			}
		}
		if !changedThisPass || box.Empty() {
			break
		}
	}

	newIV := box.IntervalVector()
	anyChanged := false
	c.input.ForEachSet(func(i int) {
		if oldIV[i] != newIV[i] {
			cs.output.Set(i)
			anyChanged = true
		}
	})
	if anyChanged {
		for _, a := range c.polytopeAtoms {
			cs.AddUsedConstraint(a)
		}
	}
}

var negInf = math.Inf(-1)
var posInf = math.Inf(1)
