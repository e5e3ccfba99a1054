package dreal

import "testing"

func TestSatBridgeCheckSatReturnsAtomsNotAuxiliaries(t *testing.T) {
	x := NewVariable("x", Real)
	a1 := NewAtom(Var(x), OpGeq, Const(0))
	a2 := NewAtom(Var(x), OpLeq, Const(1))

	sb := NewSatBridge(nil)
	sb.AddFormula(And(FormulaOfAtom(a1), FormulaOfAtom(a2)))

	res, err := sb.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if !res.Sat {
		t.Fatal("expected sat")
	}
	if len(res.AtomLits) != 2 {
		t.Fatalf("expected exactly the 2 source atoms (no Tseitin auxiliaries), got %d: %v", len(res.AtomLits), res.AtomLits)
	}
}

func TestSatBridgeUnsatOnContradiction(t *testing.T) {
	x := NewVariable("x", Real)
	a := NewAtom(Var(x), OpGeq, Const(0))

	sb := NewSatBridge(nil)
	sb.AddFormula(FormulaOfAtom(a))
	sb.AddFormula(Not(FormulaOfAtom(a)))

	res, err := sb.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res.Sat {
		t.Fatal("expected unsat for p and not(p)")
	}
}

func TestSatBridgeBlockingClauseForcesNewModel(t *testing.T) {
	x := NewVariable("x", Real)
	a1 := NewAtom(Var(x), OpGeq, Const(0))
	a2 := NewAtom(Var(x), OpLeq, Const(10))

	sb := NewSatBridge(nil)
	sb.AddFormula(Or(FormulaOfAtom(a1), FormulaOfAtom(a2)))

	res1, err := sb.CheckSat()
	if err != nil || !res1.Sat {
		t.Fatalf("expected initial sat, err=%v res=%v", err, res1)
	}

	sb.AddBlockingClause(res1.AtomLits)

	res2, err := sb.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat after blocking clause: %v", err)
	}
	if !res2.Sat {
		// a1 \/ a2 has 3 satisfying polarity combinations; blocking one
		// leaves 2, so the Boolean layer must still find one.
		t.Fatal("expected another model after blocking only one combination of 2 atoms")
	}
	if polaritiesEqual(res1.AtomLits, res2.AtomLits) {
		t.Fatal("expected the blocked model's exact polarity combination not to recur")
	}
}

func polaritiesEqual(a, b []Atom) bool {
	if len(a) != len(b) {
		return false
	}
	byKey := map[string]RelOp{}
	for _, at := range a {
		byKey[at.Lhs.String()+at.Rhs.String()] = at.Op
	}
	for _, at := range b {
		op, ok := byKey[at.Lhs.String()+at.Rhs.String()]
		if !ok || op != at.Op {
			return false
		}
	}
	return true
}

func TestSatBridgeForallRoundTrip(t *testing.T) {
	x := NewVariable("x", Real)
	z := NewVariable("z", Real)
	body := FormulaOfAtom(NewAtom(Add(Var(x), Var(z)), OpGeq, Const(0)))
	f := ForallFormula(z, Interval{Lo: 0, Hi: 1}, body)

	sb := NewSatBridge(nil)
	sb.AddFormula(f)

	res, err := sb.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if !res.Sat {
		t.Fatal("expected sat")
	}
	if len(res.Foralls) != 1 {
		t.Fatalf("expected exactly 1 Forall assumed true, got %d", len(res.Foralls))
	}
}

func TestSatBridgePushPopScopesClauses(t *testing.T) {
	x := NewVariable("x", Real)
	a := NewAtom(Var(x), OpGeq, Const(0))

	sb := NewSatBridge(nil)
	sb.AddFormula(FormulaOfAtom(a))

	sb.Push()
	sb.AddFormula(Not(FormulaOfAtom(a)))
	res, err := sb.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res.Sat {
		t.Fatal("expected unsat inside the pushed frame")
	}

	sb.Pop()
	res, err = sb.CheckSat()
	if err != nil {
		t.Fatalf("CheckSat after pop: %v", err)
	}
	if !res.Sat {
		t.Fatal("expected sat again after popping the contradiction")
	}
}
