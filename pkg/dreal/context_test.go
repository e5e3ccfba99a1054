package dreal

import "testing"

// The end-to-end scenarios below cover a satisfiable nonlinear system,
// an infeasible bound conflict, an infeasible sum of squares and
// universally quantified formulas; minimization is tested in
// minimize_test.go.

func TestCheckSatisfiabilityQuadratic(t *testing.T) {
	x := NewVariable("x", Real)
	f := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(-10))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(10))),
		FormulaOfAtom(NewAtom(Mul(Var(x), Var(x)), OpEq, Const(2))),
	)
	ctx := NewContext(DefaultConfig())
	box, err := ctx.CheckSatisfiability(f)
	if err != nil {
		t.Fatalf("CheckSatisfiability: %v", err)
	}
	if box == nil {
		t.Fatal("expected delta-sat")
	}
	sq, ok := Mul(Var(x), Var(x)).Eval(box)
	if !ok || sq.Lo > 2.5 || sq.Hi < 1.5 {
		t.Fatalf("expected witness near x^2=2, got x^2 enclosure %v", sq)
	}
}

func TestCheckSatisfiabilityInfeasibleBound(t *testing.T) {
	x := NewVariable("x", Real)
	f := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(0))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(1))),
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(2))),
	)
	ctx := NewContext(DefaultConfig())
	box, err := ctx.CheckSatisfiability(f)
	if err != nil {
		t.Fatalf("CheckSatisfiability: %v", err)
	}
	if box != nil {
		t.Fatalf("expected unsat, got %v", box)
	}
}

func TestCheckSatisfiabilityInfeasibleSumOfSquares(t *testing.T) {
	x := NewVariable("x", Real)
	f := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(-1))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(1))),
		FormulaOfAtom(NewAtom(Add(Mul(Var(x), Var(x)), Const(1)), OpEq, Const(0))),
	)
	ctx := NewContext(DefaultConfig())
	box, err := ctx.CheckSatisfiability(f)
	if err != nil {
		t.Fatalf("CheckSatisfiability: %v", err)
	}
	if box != nil {
		t.Fatalf("expected unsat (x^2+1=0 has no real root), got %v", box)
	}
}

func TestCheckSatisfiabilityForallShift(t *testing.T) {
	x := NewVariable("x", Real)
	z := NewVariable("z", Real)
	body := FormulaOfAtom(NewAtom(Add(Var(x), Var(z)), OpGeq, Const(0)))
	f := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(5))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(10))),
		ForallFormula(z, Interval{Lo: -1, Hi: 1}, body),
	)
	ctx := NewContext(DefaultConfig())
	box, err := ctx.CheckSatisfiability(f)
	if err != nil {
		t.Fatalf("CheckSatisfiability: %v", err)
	}
	if box == nil {
		t.Fatal("expected delta-sat: x in [5,10] always satisfies x+z>=0 for z in [-1,1]")
	}
}

func TestCheckSatisfiabilityForallInfeasible(t *testing.T) {
	x := NewVariable("x", Real)
	z := NewVariable("z", Real)
	body := FormulaOfAtom(NewAtom(Add(Var(x), Var(z)), OpGeq, Const(0)))
	f := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(-10))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(-9))),
		ForallFormula(z, Interval{Lo: -1, Hi: 1}, body),
	)
	ctx := NewContext(DefaultConfig())
	box, err := ctx.CheckSatisfiability(f)
	if err != nil {
		t.Fatalf("CheckSatisfiability: %v", err)
	}
	if box != nil {
		t.Fatalf("expected unsat: x<=-9 always violates x+z>=0 at z=-1, got %v", box)
	}
}

func TestCheckSatisfiabilityWithMctsEngine(t *testing.T) {
	x := NewVariable("x", Real)
	f := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(-10))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(10))),
		FormulaOfAtom(NewAtom(Mul(Var(x), Var(x)), OpEq, Const(2))),
	)
	cfg, err := NewConfig(WithEngine(EngineMcts), WithMctsIterations(2000), WithRandomSeed(42))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	ctx := NewContext(cfg)
	box, err := ctx.CheckSatisfiability(f)
	if err != nil {
		t.Fatalf("CheckSatisfiability: %v", err)
	}
	if box == nil {
		t.Fatal("expected delta-sat under the MCTS engine")
	}
}

func TestCheckSatisfiabilityRecordsStats(t *testing.T) {
	x := NewVariable("x", Real)
	f := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(-10))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(10))),
		FormulaOfAtom(NewAtom(Mul(Var(x), Var(x)), OpEq, Const(2))),
	)
	ctx := NewContext(DefaultConfig())
	box, err := ctx.CheckSatisfiability(f)
	if err != nil {
		t.Fatalf("CheckSatisfiability: %v", err)
	}
	if box == nil {
		t.Fatal("expected delta-sat")
	}
	stats := ctx.Stats()
	if stats.SatChecks == 0 {
		t.Fatal("expected at least one recorded SAT check")
	}
	if stats.FwdBwdPruneCount == 0 {
		t.Fatal("expected at least one recorded FwdBwd prune")
	}
	if stats.Branches == 0 {
		t.Fatal("expected at least one recorded branch for a nonlinear constraint that doesn't converge in one sweep")
	}
}

func TestFormulaFreeVariablesCollectsOuterVarsOfForall(t *testing.T) {
	x := NewVariable("x", Real)
	z := NewVariable("z", Real)
	body := FormulaOfAtom(NewAtom(Add(Var(x), Var(z)), OpGeq, Const(0)))
	f := ForallFormula(z, Interval{Lo: 0, Hi: 1}, body)
	vars := formulaFreeVariables(f)
	if len(vars) != 1 || vars[0].ID() != x.ID() {
		t.Fatalf("expected exactly [x] (z is bound), got %v", vars)
	}
}

func TestCheckSatisfiabilityUnsatCore(t *testing.T) {
	x := NewVariable("x", Real)
	a1 := NewAtom(Var(x), OpGeq, Const(0))
	a2 := NewAtom(Var(x), OpLeq, Const(1))
	a3 := NewAtom(Var(x), OpGeq, Const(2))
	f := And(FormulaOfAtom(a1), FormulaOfAtom(a2), FormulaOfAtom(a3))

	cfg, err := NewConfig(WithUnsatCore(true))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	ctx := NewContext(cfg)
	box, err := ctx.CheckSatisfiability(f)
	if err != nil {
		t.Fatalf("CheckSatisfiability: %v", err)
	}
	if box != nil {
		t.Fatalf("expected unsat, got %v", box)
	}
	if len(ctx.LastUnsatCore) == 0 {
		t.Fatal("expected a non-empty unsat core to be recorded")
	}
}
