package dreal

import "testing"

func TestMinimizeSumOfSquares(t *testing.T) {
	x := NewVariable("x", Real)
	y := NewVariable("y", Real)
	constraint := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(-10))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(10))),
		FormulaOfAtom(NewAtom(Var(y), OpGeq, Const(-10))),
		FormulaOfAtom(NewAtom(Var(y), OpLeq, Const(10))),
		FormulaOfAtom(NewAtom(Add(Var(x), Var(y)), OpGeq, Const(1))),
	)
	objective := Add(Mul(Var(x), Var(x)), Mul(Var(y), Var(y)))

	box, err := Minimize(objective, constraint, DefaultConfig())
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if box == nil {
		t.Fatal("expected a feasible minimizer")
	}
	obj, ok := objective.Eval(box)
	if !ok {
		t.Fatal("expected the witness to evaluate the objective")
	}
	// The true minimum of x^2+y^2 subject to x+y>=1 is 0.5, at x=y=0.5.
	// The binary search should converge close to it, well below an
	// arbitrary feasible corner's value (e.g. x=10,y=10 gives 200).
	if obj.Hi > 1.5 {
		t.Fatalf("expected the binary search to converge near the true minimum 0.5, got %v", obj)
	}
}

func TestMinimizeInfeasibleReturnsNil(t *testing.T) {
	x := NewVariable("x", Real)
	constraint := And(
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(0))),
		FormulaOfAtom(NewAtom(Var(x), OpLeq, Const(1))),
		FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(2))),
	)
	box, err := Minimize(Var(x), constraint, DefaultConfig())
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if box != nil {
		t.Fatalf("expected nil for an infeasible constraint, got %v", box)
	}
}
