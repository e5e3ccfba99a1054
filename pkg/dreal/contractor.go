package dreal

import "fmt"

// ContractorKind tags a Contractor's variant. Spec §9 re-architects the
// original's virtual ContractorCell dispatch as a closed tagged variant
// with one dispatch site in Prune — this is that variant's tag.
type ContractorKind int

const (
	KindID ContractorKind = iota
	KindIbexFwdBwd
	KindIbexPolytope
	KindSeq
	KindFixpoint
	KindJoin
	KindIntegerBounds
	KindForall
	KindWorklistFixpoint
)

func (k ContractorKind) String() string {
	switch k {
	case KindID:
		return "Id"
	case KindIbexFwdBwd:
		return "IbexFwdBwd"
	case KindIbexPolytope:
		return "IbexPolytope"
	case KindSeq:
		return "Seq"
	case KindFixpoint:
		return "Fixpoint"
	case KindJoin:
		return "Join"
	case KindIntegerBounds:
		return "IntegerBounds"
	case KindForall:
		return "Forall"
	case KindWorklistFixpoint:
		return "WorklistFixpoint"
	default:
		return "?"
	}
}

// TerminationCondition decides, given the interval vector before and
// after a full Fixpoint sweep, whether no further useful narrowing is
// expected.
type TerminationCondition func(old, new []Interval) bool

// RelativeWidthDecreaseBelow is the canonical termination condition:
// "maximum relative width decrease below τ".
func RelativeWidthDecreaseBelow(tau float64) TerminationCondition {
	return func(old, new []Interval) bool {
		maxRel := 0.0
		for i := range old {
			oldDiam := old[i].Diam()
			newDiam := new[i].Diam()
			if oldDiam <= 0 {
				continue
			}
			rel := (oldDiam - newDiam) / oldDiam
			if rel > maxRel {
				maxRel = rel
			}
		}
		return maxRel < tau
	}
}

// forallDetail holds the data needed by a Forall contractor: an inner
// mini-ICP call evaluating a universally quantified subformula.
type forallDetail struct {
	quantVar    Variable
	quantDomain Interval
	body        Formula
	config      *Config
}

// Contractor is a value with a kind tag, an input bitset, an
// include_forall flag, and a Prune operation. Kinds: Id, IbexFwdBwd,
// IbexPolytope, Seq, Fixpoint, Join, IntegerBounds, Forall,
// WorklistFixpoint. Contractors are immutable after construction and
// freely shareable.
//
// Every contractor satisfies the contraction law (Prune(B) ⊆ B) and the
// soundness law (no satisfying point of the represented constraint is
// removed). Composite contractors propagate these laws from their
// children.
type Contractor struct {
	kind          ContractorKind
	input         DynamicBitset
	includeForall bool

	// KindIbexFwdBwd
	atom    Atom
	isDummy bool

	// KindIbexPolytope
	polytopeAtoms []Atom

	// KindSeq, KindFixpoint, KindJoin, KindWorklistFixpoint
	children []Contractor

	// KindFixpoint, KindWorklistFixpoint
	termCond TerminationCondition

	// KindIntegerBounds
	integralVars []Variable

	// KindForall
	forall *forallDetail
}

// Kind returns the contractor's variant tag.
func (c Contractor) Kind() ContractorKind { return c.kind }

// Input returns the dimensions this contractor reads.
func (c Contractor) Input() DynamicBitset { return c.input }

// IncludeForall reports whether this contractor (or one of its
// children) is, or contains, a Forall contractor — the outer layer
// budgets these specially.
func (c Contractor) IncludeForall() bool { return c.includeForall }

// ContractorStatus is the mutable state threaded through a pruning
// pass: the current Box, an accumulated output bitset (dimensions
// changed since the caller last cleared it), and a set of used
// constraints — the atoms whose contractors actually narrowed the box.
// Used for blocking-clause construction.
type ContractorStatus struct {
	box    *Box
	output DynamicBitset
	used   map[string]Atom
	stats  *Stats
}

// NewContractorStatus builds a ContractorStatus over box, with an
// initially-clear output bitset and empty used-constraint set.
func NewContractorStatus(box *Box, stats *Stats) *ContractorStatus {
	return &ContractorStatus{
		box:    box,
		output: NewDynamicBitset(box.Size()),
		used:   map[string]Atom{},
		stats:  stats,
	}
}

// Box returns the status's current box.
func (cs *ContractorStatus) Box() *Box { return cs.box }

// SetBox installs a new box (used when popping a box off the ICP
// stack and reusing one ContractorStatus across pops).
func (cs *ContractorStatus) SetBox(b *Box) { cs.box = b }

// Output returns the accumulated output bitset.
func (cs *ContractorStatus) Output() DynamicBitset { return cs.output }

// ClearOutput clears the accumulated output bitset, called by the
// caller once it has consumed the set of changed dimensions.
func (cs *ContractorStatus) ClearOutput() { cs.output.ClearAll() }

// AddUsedConstraint records that atom a's contractor actually narrowed
// the box, for later blocking-clause construction.
func (cs *ContractorStatus) AddUsedConstraint(a Atom) {
	cs.used[a.Key()] = a
}

// UsedConstraints returns the accumulated set of used constraints.
func (cs *ContractorStatus) UsedConstraints() []Atom {
	out := make([]Atom, 0, len(cs.used))
	for _, a := range cs.used {
		out = append(out, a)
	}
	return out
}

// ClearUsedConstraints empties the used-constraint set, called at the
// start of a fresh ICP invocation.
func (cs *ContractorStatus) ClearUsedConstraints() { cs.used = map[string]Atom{} }

// Prune applies the contractor to cs, narrowing cs.Box() in place and
// recording output bits / used constraints as appropriate. A Prune call
// returns ErrInterrupted when a Fixpoint or WorklistFixpoint sweep (or a
// nested Forall's inner ICP call) observes the process-wide interrupt
// flag, and ErrUnsupported for a contractor with an unknown kind tag.
func (c Contractor) Prune(cs *ContractorStatus) error {
	switch c.kind {
	case KindID:
		return nil
	case KindIbexFwdBwd:
		c.pruneFwdBwd(cs)
		return nil
	case KindIbexPolytope:
		c.prunePolytope(cs)
		return nil
	case KindIntegerBounds:
		c.pruneIntegerBounds(cs)
		return nil
	case KindSeq:
		return c.pruneSeq(cs)
	case KindFixpoint:
		return c.pruneFixpoint(cs)
	case KindJoin:
		return c.pruneJoin(cs)
	case KindForall:
		return c.pruneForall(cs)
	case KindWorklistFixpoint:
		return c.pruneWorklistFixpoint(cs)
	default:
		return fmt.Errorf("%w: unknown contractor kind %v", ErrUnsupported, c.kind)
	}
}

func (c Contractor) String() string {
	return fmt.Sprintf("%s(input=%d bits)", c.kind, c.input.Count())
}

// NewIDContractor returns the identity contractor: Prune is a no-op.
func NewIDContractor(n int) Contractor {
	return Contractor{kind: KindID, input: NewDynamicBitset(n)}
}

// StripForallAndPolytope rebuilds c with every Forall and IbexPolytope
// contractor removed from its composite tree, used by ICP-MCTS to build
// the cheaper "heuristic" contractor for simulation (spec §4.F: "a
// strict subset of the full contractor omitting Forall and Polytope
// children — preserving soundness while cheapening simulation").
// Leaf contractors (Id, IbexFwdBwd, IntegerBounds) pass through
// unchanged; Forall and IbexPolytope are replaced by the identity
// contractor at the same input width.
func StripForallAndPolytope(c Contractor) Contractor {
	switch c.kind {
	case KindForall, KindIbexPolytope:
		return NewIDContractor(c.input.Len())
	case KindSeq, KindFixpoint, KindJoin, KindWorklistFixpoint:
		children := make([]Contractor, len(c.children))
		for i, ch := range c.children {
			children[i] = StripForallAndPolytope(ch)
		}
		stripped := c
		stripped.children = children
		stripped.includeForall = false
		return stripped
	default:
		return c
	}
}

// computeInputSize returns the widest box dimension count referenced by
// any child's input bitset, so a composite contractor's own input
// bitset can be allocated at the right width.
func computeInputSize(children []Contractor) int {
	n := 0
	for _, c := range children {
		if c.input.Len() > n {
			n = c.input.Len()
		}
	}
	return n
}
