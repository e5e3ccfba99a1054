package dreal

// constraintCheck pairs a three-valued evaluator with the box dimensions
// it reads, used by both ICP engines to compute the active set (spec
// §4.E step 5) uniformly over plain atoms and universally quantified
// sub-formulas alike.
type constraintCheck struct {
	eval func(box *Box) EvalResult
	vars []Variable
}

// buildConstraintChecks flattens formula into one constraintCheck per
// atom collected by Formula.Atoms() and per Forall sub-formula (Forall
// bodies are evaluated via EvalFormula's pinned-extension trick). Every
// collected atom becomes an independent check, as if the formula were
// a conjunction: atoms under Or or Not are checked as plain atoms, and
// the Boolean structure is not evaluated.
func buildConstraintChecks(formula Formula, delta float64) []constraintCheck {
	var checks []constraintCheck
	for _, a := range formula.Atoms() {
		atom := a
		checks = append(checks, constraintCheck{
			eval: func(box *Box) EvalResult { return NewFormulaEvaluator(atom, delta).Eval(box) },
			vars: atom.FreeVariables(),
		})
	}
	for _, f := range collectForalls(formula) {
		forall := f
		quantVar, _, body := forall.Quantified()
		var outer []Variable
		for _, v := range body.Atoms() {
			for _, fv := range v.FreeVariables() {
				if fv.ID() != quantVar.ID() {
					outer = append(outer, fv)
				}
			}
		}
		checks = append(checks, constraintCheck{
			eval: func(box *Box) EvalResult { return EvalFormula(forall, box, delta) },
			vars: outer,
		})
	}
	return checks
}

func collectForalls(f Formula) []Formula {
	switch f.Kind() {
	case FormulaForall:
		return []Formula{f}
	case FormulaAnd, FormulaOr, FormulaNot:
		var out []Formula
		for _, k := range f.Children() {
			out = append(out, collectForalls(k)...)
		}
		return out
	default:
		return nil
	}
}

// activeSet computes the dimensions referenced by at least one Unknown
// check, and reports whether every check is True (sat) or some check is
// False (the branch is infeasible).
func activeSet(checks []constraintCheck, box *Box) (active DynamicBitset, allTrue bool, anyFalse bool) {
	active = NewDynamicBitset(box.Size())
	allTrue = true
	for _, c := range checks {
		switch c.eval(box) {
		case EvalFalse:
			anyFalse = true
			allTrue = false
		case EvalUnknown:
			allTrue = false
			for _, v := range c.vars {
				if i := box.Index(v); i >= 0 {
					active.Set(i)
				}
			}
		}
	}
	return active, allTrue, anyFalse
}
