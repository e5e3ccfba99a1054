package dreal

import "testing"

func TestExpressionEvalArithmetic(t *testing.T) {
	x := NewVariable("x", Real)
	box := NewBox([]Variable{x}, []Interval{{Lo: 2, Hi: 3}})
	e := Add(Mul(Var(x), Const(2)), Const(1))
	iv, ok := e.Eval(box)
	if !ok {
		t.Fatal("expected Eval to succeed")
	}
	// Outward rounding widens each bound by a few ULPs, so the result must
	// enclose [5,7] and lie within 1e-9 of it.
	if iv.Lo > 5 || iv.Lo < 5-1e-9 || iv.Hi < 7 || iv.Hi > 7+1e-9 {
		t.Fatalf("expected 2*[2,3]+1 to enclose [5,7] to within 1e-9, got %v", iv)
	}
}

func TestExpressionEvalDivFailsOnStraddlingDivisor(t *testing.T) {
	x := NewVariable("x", Real)
	y := NewVariable("y", Real)
	box := NewBox([]Variable{x, y}, []Interval{{Lo: 1, Hi: 2}, {Lo: -1, Hi: 1}})
	_, ok := DivExpr(Var(x), Var(y)).Eval(box)
	if ok {
		t.Fatal("expected Eval to fail when the divisor straddles zero")
	}
}

func TestExpressionFreeVariablesDeduplicatesAndOrders(t *testing.T) {
	x := NewVariable("x", Real)
	y := NewVariable("y", Real)
	e := Add(Var(x), Add(Var(y), Var(x)))
	vars := e.FreeVariables()
	if len(vars) != 2 || vars[0].ID() != x.ID() || vars[1].ID() != y.ID() {
		t.Fatalf("expected [x,y] ordered by id, got %v", vars)
	}
}

func TestExpressionLinearCoefficients(t *testing.T) {
	x := NewVariable("x", Real)
	y := NewVariable("y", Real)
	// 2x - 3y + 5
	e := Add(Mul(Const(2), Var(x)), Add(Neg(Mul(Const(3), Var(y))), Const(5)))
	coeffs, varOf, constant, ok := e.LinearCoefficients()
	if !ok {
		t.Fatal("expected a linear decomposition to succeed")
	}
	if coeffs[x.ID()] != 2 || coeffs[y.ID()] != -3 || constant != 5 {
		t.Fatalf("expected coeffs x=2,y=-3,const=5, got x=%v y=%v const=%v",
			coeffs[x.ID()], coeffs[y.ID()], constant)
	}
	if varOf[x.ID()].ID() != x.ID() {
		t.Fatal("expected varOf to map x's id back to x")
	}
}

func TestExpressionLinearCoefficientsRejectsProductOfVariables(t *testing.T) {
	x := NewVariable("x", Real)
	y := NewVariable("y", Real)
	_, _, _, ok := Mul(Var(x), Var(y)).LinearCoefficients()
	if ok {
		t.Fatal("expected a product of two variables to be rejected as non-linear")
	}
}

func TestAtomNegateFlipsOperator(t *testing.T) {
	x := NewVariable("x", Real)
	a := NewAtom(Var(x), OpLeq, Const(1))
	neg := a.Negate()
	if neg.Op != OpGt {
		t.Fatalf("expected Negate(<=) == >, got %v", neg.Op)
	}
	if neg.Negate().Op != OpLeq {
		t.Fatal("expected Negate to be involutive")
	}
}

func TestAtomKeyDistinguishesPolarity(t *testing.T) {
	x := NewVariable("x", Real)
	a := NewAtom(Var(x), OpLeq, Const(1))
	if a.Key() == a.Negate().Key() {
		t.Fatal("expected an atom and its negation to have distinct keys")
	}
}

func TestFormulaAtomsSkipsForallBody(t *testing.T) {
	x := NewVariable("x", Real)
	z := NewVariable("z", Real)
	outer := FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(0)))
	inner := FormulaOfAtom(NewAtom(Add(Var(x), Var(z)), OpGeq, Const(0)))
	f := And(outer, ForallFormula(z, Interval{Lo: 0, Hi: 1}, inner))
	atoms := f.Atoms()
	if len(atoms) != 1 {
		t.Fatalf("expected only the outer atom to be collected, got %d atoms", len(atoms))
	}
}

func TestFormulaHasForall(t *testing.T) {
	x := NewVariable("x", Real)
	plain := FormulaOfAtom(NewAtom(Var(x), OpGeq, Const(0)))
	if plain.HasForall() {
		t.Fatal("expected a plain atom formula to report no Forall")
	}
	quantified := And(plain, ForallFormula(x, Interval{Lo: 0, Hi: 1}, plain))
	if !quantified.HasForall() {
		t.Fatal("expected HasForall true once a Forall is nested inside an And")
	}
}
