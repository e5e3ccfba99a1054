package dreal

import (
	"math"
	"testing"
)

func TestICPSeqSatQuadratic(t *testing.T) {
	x := NewVariable("x", Real)
	box := NewBox([]Variable{x}, []Interval{{Lo: -10, Hi: 10}})
	formula := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(-10))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(10))),
		FormulaOfAtom(NewAtom(Mul(Var(x), Var(x)), OpEq, Const(2))),
	)
	cfg := DefaultConfig()
	contractor := NewFixpoint(RelativeWidthDecreaseBelow(1e-9),
		NewIbexFwdBwd(NewAtom(Var(x), OpGeq, Const(-10)), box, cfg.Precision),
		NewIbexFwdBwd(NewAtom(Var(x), OpLeq, Const(10)), box, cfg.Precision),
		NewIbexFwdBwd(NewAtom(Mul(Var(x), Var(x)), OpEq, Const(2)), box, cfg.Precision),
	)

	res, err := ICPSeq(box, formula, contractor, cfg, nil, nil)
	if err != nil {
		t.Fatalf("ICPSeq: %v", err)
	}
	if !res.Sat {
		t.Fatal("expected delta-sat for x^2=2 over [-10,10]")
	}
	sq, ok := Mul(Var(x), Var(x)).Eval(res.Box)
	if !ok || sq.Lo > 2+0.1 || sq.Hi < 2-0.1 {
		t.Fatalf("expected witness box to delta-satisfy x^2=2, got x^2 enclosure %v", sq)
	}
}

func TestICPSeqUnsatInfeasibleBound(t *testing.T) {
	x := NewVariable("x", Real)
	box := NewBox([]Variable{x}, []Interval{{Lo: math.Inf(-1), Hi: math.Inf(1)}})
	formula := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(0))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(1))),
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(2))),
	)
	cfg := DefaultConfig()
	contractor := NewFixpoint(RelativeWidthDecreaseBelow(1e-9),
		NewIbexFwdBwd(NewAtom(Var(x), OpGeq, Const(0)), box, cfg.Precision),
		NewIbexFwdBwd(NewAtom(Var(x), OpLeq, Const(1)), box, cfg.Precision),
		NewIbexFwdBwd(NewAtom(Var(x), OpGeq, Const(2)), box, cfg.Precision),
	)

	res, err := ICPSeq(box, formula, contractor, cfg, nil, nil)
	if err != nil {
		t.Fatalf("ICPSeq: %v", err)
	}
	if res.Sat {
		t.Fatalf("expected unsat, got sat box %v", res.Box)
	}
}

func TestBuildConstraintChecksCoversForall(t *testing.T) {
	x := NewVariable("x", Real)
	z := NewVariable("z", Real)
	body := FormulaOfAtom(NewAtom(Add(Var(x), Var(z)), OpGeq, Const(0)))
	f := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(-2))),
		ForallFormula(z, Interval{Lo: 0, Hi: 1}, body),
	)
	checks := buildConstraintChecks(f, 0.001)
	if len(checks) != 2 {
		t.Fatalf("expected 2 checks (1 atom + 1 forall), got %d", len(checks))
	}
}
