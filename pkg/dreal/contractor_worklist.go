package dreal

// NewWorklistFixpoint builds a contractor with the same fixpoint
// semantics as Fixpoint, but scheduled by a worklist keyed on which
// dimensions last changed rather than a fixed round-robin sweep:
// initially every child is enqueued; after a child prunes and reports
// output bits, every *other* child whose input bitset intersects those
// bits is (re)enqueued. Grounded on spec §4.B/§5's worklist fixpoint
// requirement that the schedule be "eventually fair" — every contractor
// whose inputs were touched is guaranteed to run again, and a child
// that reports no output never requeues its unaffected peers, so an
// already-stable subset of children stops consuming cycles.
func NewWorklistFixpoint(termCond TerminationCondition, children ...Contractor) Contractor {
	input := NewDynamicBitset(computeInputSize(children))
	includeForall := false
	for _, c := range children {
		input.Or(c.input)
		includeForall = includeForall || c.includeForall
	}
	return Contractor{
		kind:          KindWorklistFixpoint,
		input:         input,
		includeForall: includeForall,
		children:      children,
		termCond:      termCond,
	}
}

func (c Contractor) pruneWorklistFixpoint(cs *ContractorStatus) error {
	n := len(c.children)
	if n == 0 {
		return nil
	}
	queued := make([]bool, n)
	queue := make([]int, n)
	for i := range c.children {
		queue[i] = i
		queued[i] = true
	}

	oldIV := cs.Box().IntervalVector()
	rounds := 0
	maxRounds := n * (n + 8) // generous bound: a true fixpoint is reached long before this

	for len(queue) > 0 {
		if err := PollInterrupt(); err != nil {
			return err
		}
		idx := queue[0]
		queue = queue[1:]
		queued[idx] = false

		child := c.children[idx]
		touched := NewDynamicBitset(child.input.Len())
		local := NewContractorStatus(cs.Box(), cs.stats)
		if err := child.Prune(local); err != nil {
			return err
		}
		touched = local.Output()
		for _, a := range local.UsedConstraints() {
			cs.AddUsedConstraint(a)
		}
		if cs.Box().Empty() {
			return nil
		}
		if touched.None() {
			continue
		}

		for j, sibling := range c.children {
			if j == idx || queued[j] {
				continue
			}
			if bitsetsIntersect(sibling.input, touched) {
				queue = append(queue, j)
				queued[j] = true
			}
		}

		rounds++
		if rounds >= maxRounds {
			break
		}
	}

	newIV := cs.Box().IntervalVector()
	for i := range oldIV {
		if oldIV[i] != newIV[i] {
			cs.output.Set(i)
		}
	}
	_ = c.termCond // the worklist's own drain-to-empty is its termination rule;
	// termCond is accepted for interface symmetry with Fixpoint and used by
	// callers that want to wrap a WorklistFixpoint in an outer Fixpoint sweep.
	return nil
}

func bitsetsIntersect(a, b DynamicBitset) bool {
	found := false
	a.ForEachSet(func(i int) {
		if i < b.Len() && b.Test(i) {
			found = true
		}
	})
	return found
}
