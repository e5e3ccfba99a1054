package dreal

// NewForall builds a contractor for ∀quantVar∈quantDomain. body,
// grounded on spec §4.B's "inner mini-ICP call evaluating a universally
// quantified subformula". The bound variable is treated as an ordinary
// box dimension pinned to quantDomain for the duration of one prune
// call: interval evaluation over that pinned range is already a sound
// enclosure of every value the quantifier ranges over, so forward/
// backward propagation through the extended box implements the
// quantifier without a dedicated solver. If body is a (possibly nested)
// conjunction of atoms, each conjunct backward-narrows the outer
// variables via HC4Revise; richer shapes (Or, Not, nested Forall) are
// still checked for consistency by pruneForall but contribute no
// narrowing — a documented scope limit, not an unsoundness, since a
// contractor that narrows nothing still satisfies the contraction law.
func NewForall(quantVar Variable, quantDomain Interval, body Formula, box *Box, config *Config) Contractor {
	input := NewDynamicBitset(box.Size())
	for _, a := range body.Atoms() {
		for _, v := range a.FreeVariables() {
			if v.ID() == quantVar.ID() {
				continue
			}
			if i := box.Index(v); i >= 0 {
				input.Set(i)
			}
		}
	}
	return Contractor{
		kind:          KindForall,
		input:         input,
		includeForall: true,
		forall: &forallDetail{
			quantVar:    quantVar,
			quantDomain: quantDomain,
			body:        body,
			config:      config,
		},
	}
}

// pruneForall runs one pass of the inner universal check: build an
// extended box with quantVar pinned to quantDomain, evaluate body's
// consistency over it, collapse the outer box to empty if body is
// definitely False anywhere, and backward-narrow the outer variables
// through every conjunct when body decomposes as a pure conjunction of
// atoms.
func (c Contractor) pruneForall(cs *ContractorStatus) error {
	if err := PollInterrupt(); err != nil {
		return err
	}
	fd := c.forall
	box := cs.Box()
	extended := extendBoxWith(box, fd.quantVar, fd.quantDomain)
	if extended == nil {
		return nil
	}

	delta := fd.config.Precision
	switch EvalFormula(fd.body, extended, delta) {
	case EvalFalse:
		for i := 0; i < box.Size(); i++ {
			box.SetInterval(i, EmptyInterval)
			cs.output.Set(i)
		}
		return nil
	}

	atoms, ok := flattenConjunction(fd.body)
	if !ok {
		return nil
	}

	oldIV := box.IntervalVector()
	anyChanged := false
	for _, a := range atoms {
		if _, _, changed := narrowAtom(a, extended); changed {
			anyChanged = true
		}
		if extended.Empty() {
			break
		}
	}
	if fd.config.UsePolytopeInForall && len(atoms) > 0 && !extended.Empty() {
		poly := NewIbexPolytope(atoms, extended)
		polyCS := NewContractorStatus(extended, cs.stats)
		_ = poly.Prune(polyCS) // KindIbexPolytope never errors
		if !polyCS.Output().None() {
			anyChanged = true
		}
	}
	for i := 0; i < box.Size(); i++ {
		v := box.Variable(i)
		if j := extended.Index(v); j >= 0 {
			box.SetInterval(i, extended.Interval(j))
		}
	}
	newIV := box.IntervalVector()
	for i := range oldIV {
		if oldIV[i] != newIV[i] {
			cs.output.Set(i)
		}
	}
	if anyChanged {
		for _, a := range atoms {
			cs.AddUsedConstraint(a)
		}
	}
	return nil
}
