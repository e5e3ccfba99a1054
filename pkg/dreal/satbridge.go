package dreal

import (
	"fmt"

	"github.com/gitrdm/dreal-go/internal/satengine"
)

// SatBridge is the propositional abstraction layer of spec §4.G: it
// converts a Formula to CNF via Tseitin encoding, maps each real-valued
// atom to a fresh Boolean variable ("predicate abstraction"), and
// drives an incremental satengine.Engine.
//
// The atom↔variable maps grow monotonically and are never rolled back
// by Push/Pop — per spec's data-model Lifecycle note, "Boolean-
// abstraction maps persist across incremental push/pop frames" — only
// the underlying clause set is scoped to frames, via satengine.Engine's
// own checkpoint stack.
type SatBridge struct {
	engine *satengine.Engine

	nextVar       int
	varOf         map[string]int  // Atom.Key() (or Formula.String() for a Forall) -> var id
	atomOf        map[int]Atom    // var id -> atom, absent for Tseitin auxiliaries and Foralls
	forallOf      map[int]Formula // var id -> Forall formula, for predicate-abstracted quantified subformulas
	tseitinTagged map[int]bool

	lastModel []bool // 0-indexed by (var-1); valid only after a Sat CheckSat
}

// NewSatBridge returns an empty bridge over a fresh satengine.Engine,
// configured with cfg's SatDefaultPhase and RandomSeed (DefaultConfig
// if cfg is nil).
func NewSatBridge(cfg *Config) *SatBridge {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	engine := satengine.New()
	engine.SetPhaseHint(satEnginePhase(cfg.SatDefaultPhase), cfg.RandomSeed)
	return &SatBridge{
		engine:        engine,
		nextVar:       1,
		varOf:         map[string]int{},
		atomOf:        map[int]Atom{},
		forallOf:      map[int]Formula{},
		tseitinTagged: map[int]bool{},
	}
}

// satEnginePhase maps the public SatDefaultPhase enum to satengine's
// own Phase type, keeping internal/satengine free of a pkg/dreal
// import.
func satEnginePhase(p SatDefaultPhase) satengine.Phase {
	switch p {
	case PhaseTrue:
		return satengine.PhaseTrue
	case PhaseJeroslowWang:
		return satengine.PhaseJeroslowWang
	case PhaseRandom:
		return satengine.PhaseRandom
	default:
		return satengine.PhaseFalse
	}
}

// Push opens a new clause-set checkpoint.
func (sb *SatBridge) Push() { sb.engine.Push() }

// Pop discards every clause added since the matching Push.
func (sb *SatBridge) Pop() { sb.engine.Pop() }

func (sb *SatBridge) freshVar() int {
	v := sb.nextVar
	sb.nextVar++
	return v
}

// varForAtom returns the Boolean variable abstracting atom, allocating
// one on first use. Each atom has exactly one abstract variable, per
// spec's Propositional-abstraction invariant.
func (sb *SatBridge) varForAtom(a Atom) int {
	key := a.Key()
	if v, ok := sb.varOf[key]; ok {
		return v
	}
	v := sb.freshVar()
	sb.varOf[key] = v
	sb.atomOf[v] = a
	return v
}

func (sb *SatBridge) varForForall(f Formula) int {
	key := "forall:" + f.String()
	if v, ok := sb.varOf[key]; ok {
		return v
	}
	v := sb.freshVar()
	sb.varOf[key] = v
	sb.forallOf[v] = f
	return v
}

// AddFormula Tseitin-encodes f and asserts it (as a unit clause on the
// formula's root variable) into the current frame.
func (sb *SatBridge) AddFormula(f Formula) {
	root := sb.tseitinEncode(f)
	sb.engine.AppendClause([]int{root})
}

// tseitinEncode returns the signed-var-free (always-positive) literal
// representing f's truth value, introducing auxiliary variables and
// their defining clauses for And/Or/Not nodes. Atom and Forall leaves
// reuse their predicate-abstraction variable directly — no auxiliary
// needed.
func (sb *SatBridge) tseitinEncode(f Formula) int {
	switch f.Kind() {
	case FormulaAtom:
		return sb.varForAtom(f.Atom())
	case FormulaForall:
		return sb.varForForall(f)
	case FormulaNot:
		c := sb.tseitinEncode(f.Children()[0])
		z := sb.freshVar()
		sb.tseitinTagged[z] = true
		sb.engine.AppendClause([]int{-z, -c})
		sb.engine.AppendClause([]int{z, c})
		return z
	case FormulaAnd:
		kids := f.Children()
		cs := make([]int, len(kids))
		for i, k := range kids {
			cs[i] = sb.tseitinEncode(k)
		}
		z := sb.freshVar()
		sb.tseitinTagged[z] = true
		clause := make([]int, 0, len(cs)+1)
		for _, c := range cs {
			sb.engine.AppendClause([]int{-z, c})
			clause = append(clause, -c)
		}
		clause = append(clause, z)
		sb.engine.AppendClause(clause)
		return z
	case FormulaOr:
		kids := f.Children()
		cs := make([]int, len(kids))
		for i, k := range kids {
			cs[i] = sb.tseitinEncode(k)
		}
		z := sb.freshVar()
		sb.tseitinTagged[z] = true
		clause := make([]int, 0, len(cs)+1)
		for _, c := range cs {
			sb.engine.AppendClause([]int{-c, z})
			clause = append(clause, c)
		}
		clause = append(clause, -z)
		sb.engine.AppendClause(clause)
		return z
	default:
		panic(fmt.Sprintf("dreal: tseitinEncode: unhandled formula kind %v", f.Kind()))
	}
}

// CheckSatResult is the Boolean model extracted from one CheckSat call,
// split into theory literals (signed atoms, for the ICP engine) and the
// corresponding Forall formulas assumed true.
type CheckSatResult struct {
	Sat        bool
	AtomLits   []Atom     // atoms in their currently-assigned polarity (negated if the model set them false)
	Foralls    []Formula  // Forall subformulas assumed true in this model
}

// CheckSat asks the underlying engine for a model. Tseitin auxiliaries
// are never returned — only atoms and Forall predicates, per spec
// §4.G.4.
func (sb *SatBridge) CheckSat() (CheckSatResult, error) {
	res, err := sb.engine.Solve()
	if err != nil {
		return CheckSatResult{}, fmt.Errorf("%w: %v", ErrSolverBackendUnknown, err)
	}
	if !res.Sat {
		sb.lastModel = nil
		return CheckSatResult{Sat: false}, nil
	}
	sb.lastModel = res.Model

	out := CheckSatResult{Sat: true}
	for v, a := range sb.atomOf {
		if sb.tseitinTagged[v] {
			continue
		}
		if sb.modelValue(v) {
			out.AtomLits = append(out.AtomLits, a)
		} else {
			out.AtomLits = append(out.AtomLits, a.Negate())
		}
	}
	for v, f := range sb.forallOf {
		if sb.modelValue(v) {
			out.Foralls = append(out.Foralls, f)
		}
		// A Forall the model assigns false (possible when it sits under
		// Or or Not) is dropped: it is passed to the theory layer
		// neither positively nor negated.
	}
	return out, nil
}

func (sb *SatBridge) modelValue(v int) bool {
	idx := v - 1
	if idx < 0 || idx >= len(sb.lastModel) {
		return false
	}
	return sb.lastModel[idx]
}

// literalForAtom returns the signed literal implied by the last model
// for atom (positive if assigned true, negative if assigned false).
//
// atom may be the Negate() of whichever atom was actually registered
// during AddFormula's Tseitin encoding (CheckSat returns a.Negate() for
// every atom the model assigned false, so blocking-clause callers and
// any other consumer of CheckSatResult.AtomLits routinely pass negated
// atoms back in here). varOf is keyed by the atom exactly as asserted,
// so this checks both atom's own key and its negation's key before
// falling back to allocating a fresh variable for a genuinely unseen
// atom.
func (sb *SatBridge) literalForAtom(a Atom) int {
	if v, ok := sb.varOf[a.Key()]; ok {
		if sb.modelValue(v) {
			return v
		}
		return -v
	}
	neg := a.Negate()
	if v, ok := sb.varOf[neg.Key()]; ok {
		// a is the negation of the registered atom behind v, so a holds
		// exactly when v is false.
		if sb.modelValue(v) {
			return v
		}
		return -v
	}
	v := sb.varForAtom(a)
	if sb.modelValue(v) {
		return v
	}
	return -v
}

// AddBlockingClause forbids the exact combination of polarities the
// last model assigned to atoms, forcing the SAT search to flip at
// least one of them on the next CheckSat. This is the blocking-clause
// half of the outer CDCL(T) loop (spec §1/§4.H): theory found `atoms`
// jointly inconsistent, so the clause ¬l1 ∨ ¬l2 ∨ ... ∨ ¬lk is learned.
func (sb *SatBridge) AddBlockingClause(atoms []Atom) {
	if len(atoms) == 0 {
		return
	}
	clause := make([]int, len(atoms))
	for i, a := range atoms {
		clause[i] = -sb.literalForAtom(a)
	}
	sb.engine.AppendClause(clause)
}

// LiftUnsatCore extracts a clausal unsat core from the current clause
// set (which must already be known unsat) and lifts it back to the
// atoms it mentions, dropping pure-Tseitin-auxiliary clauses. This
// resolves spec §9's open question in favor of an in-memory clausal
// core: satengine.Engine.UnsatCore operates purely over the in-process
// [][]int clause slice, never touching disk.
func (sb *SatBridge) LiftUnsatCore() ([]Atom, error) {
	coreClauses, err := sb.engine.UnsatCore()
	if err != nil {
		return nil, err
	}
	seen := map[string]Atom{}
	for _, clause := range coreClauses {
		for _, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			if a, ok := sb.atomOf[v]; ok {
				seen[a.Key()] = a
			}
		}
	}
	out := make([]Atom, 0, len(seen))
	for _, a := range seen {
		out = append(out, a)
	}
	return out, nil
}
