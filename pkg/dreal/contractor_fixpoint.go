package dreal

// NewFixpoint builds a Fixpoint contractor: repeat one sweep of all
// children until either the box becomes empty or termCond(old, new)
// returns true. The loop polls the process-wide interrupt flag at
// every sweep, grounded on the original's ContractorFixpoint::Prune.
func NewFixpoint(termCond TerminationCondition, children ...Contractor) Contractor {
	input := NewDynamicBitset(computeInputSize(children))
	includeForall := false
	for _, c := range children {
		input.Or(c.input)
		includeForall = includeForall || c.includeForall
	}
	return Contractor{
		kind:          KindFixpoint,
		input:         input,
		includeForall: includeForall,
		children:      children,
		termCond:      termCond,
	}
}

func (c Contractor) pruneFixpoint(cs *ContractorStatus) error {
	for {
		if err := PollInterrupt(); err != nil {
			return err
		}
		oldIV := cs.Box().IntervalVector()
		for _, child := range c.children {
			if err := child.Prune(cs); err != nil {
				return err
			}
			if cs.Box().Empty() {
				return nil
			}
		}
		newIV := cs.Box().IntervalVector()
		if c.termCond(oldIV, newIV) {
			return nil
		}
	}
}
