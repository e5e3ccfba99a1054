package dreal

// NewJoin builds a Join contractor: apply each child to a copy of the
// input box and return the hull of the surviving (non-empty) results.
// Empty iff all children produce empty.
func NewJoin(children ...Contractor) Contractor {
	input := NewDynamicBitset(computeInputSize(children))
	includeForall := false
	for _, c := range children {
		input.Or(c.input)
		includeForall = includeForall || c.includeForall
	}
	return Contractor{
		kind:          KindJoin,
		input:         input,
		includeForall: includeForall,
		children:      children,
	}
}

func (c Contractor) pruneJoin(cs *ContractorStatus) error {
	base := cs.Box()
	oldIV := base.IntervalVector()
	var hull *Box
	for _, child := range c.children {
		copyBox := base.Clone()
		childCS := NewContractorStatus(copyBox, cs.stats)
		if err := child.Prune(childCS); err != nil {
			return err
		}
		if copyBox.Empty() {
			continue
		}
		if hull == nil {
			hull = copyBox
			continue
		}
		for i := 0; i < hull.Size(); i++ {
			hull.SetInterval(i, hull.Interval(i).Hull(copyBox.Interval(i)))
		}
	}
	if hull == nil {
		for i := 0; i < base.Size(); i++ {
			base.SetInterval(i, EmptyInterval)
		}
		return nil
	}
	for i := 0; i < base.Size(); i++ {
		base.SetInterval(i, hull.Interval(i))
	}
	newIV := base.IntervalVector()
	c.input.ForEachSet(func(i int) {
		if oldIV[i] != newIV[i] {
			cs.output.Set(i)
		}
	})
	return nil
}
