package dreal

// NewSeq builds a Seq contractor: apply each child in declaration
// order, short-circuiting if the box becomes empty. Input set is the
// union of children's; include_forall is the disjunction.
func NewSeq(children ...Contractor) Contractor {
	input := NewDynamicBitset(computeInputSize(children))
	includeForall := false
	for _, c := range children {
		input.Or(c.input)
		includeForall = includeForall || c.includeForall
	}
	return Contractor{
		kind:          KindSeq,
		input:         input,
		includeForall: includeForall,
		children:      children,
	}
}

func (c Contractor) pruneSeq(cs *ContractorStatus) error {
	for _, child := range c.children {
		if err := child.Prune(cs); err != nil {
			return err
		}
		if cs.Box().Empty() {
			return nil
		}
	}
	return nil
}
