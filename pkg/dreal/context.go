package dreal

import (
	"log"
	"math"
)

// Context is the outer CDCL(T) driver of spec §4.H: it owns a SatBridge
// and repeatedly asks it for a Boolean model, hands the model's theory
// literals to an ICP engine, and either returns the ICP's δ-sat witness
// or learns a blocking clause from the used constraints and loops.
type Context struct {
	cfg    *Config
	stats  *Stats
	bridge *SatBridge

	// Logger receives diagnostic tracing (branch decisions, SAT bridge
	// clause activity) when non-nil, mirroring the teacher's nil-safe
	// *log.Logger field in context_utils.go's ContextMonitor. nil (the
	// zero value) disables logging entirely.
	Logger *log.Logger

	// LastUnsatCore is populated by CheckSatisfiability when it returns
	// unsat and cfg.UnsatCore is set.
	LastUnsatCore []Atom
}

// NewContext builds a Context over a fresh Config (DefaultConfig if cfg
// is nil).
func NewContext(cfg *Config) *Context {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Context{cfg: cfg, stats: NewStats()}
}

// Stats returns a snapshot of the accumulated solver statistics.
func (ctx *Context) Stats() Stats { return ctx.stats.Snapshot() }

// CheckSatisfiability implements spec §4.H's CheckSatisfiability(F, δ):
// some(Box) for a δ-sat witness, nil for unsat. δ is taken from
// ctx's Config (set via WithPrecision), not as a separate parameter —
// the Config is the single source of solver-wide tuning, matching how
// every other knob in spec §6 is threaded.
func (ctx *Context) CheckSatisfiability(f Formula) (*Box, error) {
	defer ClearInterrupt()
	ctx.bridge = NewSatBridge(ctx.cfg)
	ctx.bridge.AddFormula(f)
	vars := formulaFreeVariables(f)

	for {
		if err := PollInterrupt(); err != nil {
			return nil, err
		}
		res, err := ctx.bridge.CheckSat()
		ctx.stats.recordSatCheck()
		if err != nil {
			return nil, err
		}
		if !res.Sat {
			if ctx.cfg.UnsatCore {
				core, coreErr := ctx.bridge.LiftUnsatCore()
				if coreErr == nil {
					ctx.LastUnsatCore = core
				}
			}
			return nil, nil
		}

		box := NewBox(vars, initialIntervals(vars))
		contractor := ctx.buildContractor(res.AtomLits, res.Foralls, box)

		icp, err := ctx.runICP(box, res.AtomLits, res.Foralls, contractor)
		if err != nil {
			return nil, err
		}
		if icp.Unknown {
			// ICP-MCTS ran out of budget without a decisive answer; fall
			// back to the deterministic, complete ICP-Seq search on the
			// same contractor before giving up on this Boolean model.
			icp, err = ICPSeq(box.Clone(), combinedFormula(res.AtomLits, res.Foralls), contractor, ctx.cfg, ctx.stats, ctx.Logger)
			if err != nil {
				return nil, err
			}
		}
		if icp.Sat {
			return icp.Box, nil
		}
		ctx.bridge.AddBlockingClause(icp.UsedConstraints)
		ctx.stats.recordLearnedClause()
		if ctx.Logger != nil {
			ctx.Logger.Printf("dreal: learned blocking clause over %d atoms", len(icp.UsedConstraints))
		}
	}
}

func (ctx *Context) runICP(box *Box, atoms []Atom, foralls []Formula, contractor Contractor) (ICPResult, error) {
	formula := combinedFormula(atoms, foralls)
	if ctx.cfg.Engine == EngineMcts {
		heuristic := StripForallAndPolytope(contractor)
		return ICPMcts(box, formula, contractor, heuristic, ctx.cfg, ctx.stats, ctx.Logger)
	}
	return ICPSeq(box, formula, contractor, ctx.cfg, ctx.stats, ctx.Logger)
}

func combinedFormula(atoms []Atom, foralls []Formula) Formula {
	var kids []Formula
	for _, a := range atoms {
		kids = append(kids, FormulaOfAtom(a))
	}
	kids = append(kids, foralls...)
	if len(kids) == 1 {
		return kids[0]
	}
	return And(kids...)
}

// buildContractor builds the per-model top-level contractor: a
// WorklistFixpoint (or plain Fixpoint) over one IbexFwdBwd leaf per
// asserted atom, an IbexPolytope leaf when enabled, an IntegerBounds
// leaf for any integral variable, and one Forall leaf per asserted
// universally-quantified subformula — per spec §4.H step 2.
func (ctx *Context) buildContractor(atoms []Atom, foralls []Formula, box *Box) Contractor {
	var children []Contractor
	for _, a := range atoms {
		children = append(children, NewIbexFwdBwd(a, box, ctx.cfg.Precision))
	}
	if ctx.cfg.UsePolytope && len(atoms) > 0 {
		children = append(children, NewIbexPolytope(atoms, box))
	}
	var integral []Variable
	for i := 0; i < box.Size(); i++ {
		if box.Variable(i).Kind() == Int {
			integral = append(integral, box.Variable(i))
		}
	}
	if len(integral) > 0 {
		children = append(children, NewIntegerBounds(integral, box))
	}
	for _, f := range foralls {
		quantVar, quantDomain, body := f.Quantified()
		children = append(children, NewForall(quantVar, quantDomain, body, box, ctx.cfg))
	}
	if len(children) == 0 {
		return NewIDContractor(box.Size())
	}
	termCond := RelativeWidthDecreaseBelow(1e-9)
	if ctx.cfg.UseWorklistFixpoint {
		return NewWorklistFixpoint(termCond, children...)
	}
	return NewFixpoint(termCond, children...)
}

// initialIntervals returns each variable's starting interval: [0,1] for
// Bool, (-inf,inf) for Real and Int. Bound atoms present in the formula
// (e.g. `x >= -10`) narrow this via the ordinary FwdBwd contractor —
// the core never requires callers to declare domains out of band.
func initialIntervals(vars []Variable) []Interval {
	out := make([]Interval, len(vars))
	for i, v := range vars {
		if v.Kind() == Bool {
			out[i] = Interval{Lo: 0, Hi: 1}
		} else {
			out[i] = Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}
		}
	}
	return out
}

// formulaFreeVariables collects every free variable reachable in f,
// including the outer (non-bound) free variables of every Forall body,
// deduplicated and ordered by id for determinism.
func formulaFreeVariables(f Formula) []Variable {
	seen := map[int]Variable{}
	var walk func(Formula)
	walk = func(f Formula) {
		switch f.Kind() {
		case FormulaAtom:
			for _, v := range f.Atom().FreeVariables() {
				seen[v.ID()] = v
			}
		case FormulaAnd, FormulaOr, FormulaNot:
			for _, k := range f.Children() {
				walk(k)
			}
		case FormulaForall:
			quantVar, _, body := f.Quantified()
			for _, a := range body.Atoms() {
				for _, v := range a.FreeVariables() {
					if v.ID() != quantVar.ID() {
						seen[v.ID()] = v
					}
				}
			}
		}
	}
	walk(f)
	out := make([]Variable, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sortVariables(out)
	return out
}

func sortVariables(vs []Variable) {
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j].Less(vs[j-1]); j-- {
			vs[j], vs[j-1] = vs[j-1], vs[j]
		}
	}
}
