package satengine

import "testing"

func TestSolveSatisfiable(t *testing.T) {
	e := New()
	e.AppendClause([]int{1, 2})
	e.AppendClause([]int{-1, 2})
	res, err := e.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Sat {
		t.Fatal("expected sat")
	}
	if len(res.Model) < 2 {
		t.Fatalf("expected a model over at least 2 variables, got %v", res.Model)
	}
}

func TestSolveUnsat(t *testing.T) {
	e := New()
	e.AppendClause([]int{1})
	e.AppendClause([]int{-1})
	res, err := e.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Sat {
		t.Fatal("expected unsat for {1} and {-1}")
	}
}

func TestPushPopRestoresClauseSet(t *testing.T) {
	e := New()
	e.AppendClause([]int{1, 2})
	if e.NumClauses() != 1 {
		t.Fatalf("expected 1 clause, got %d", e.NumClauses())
	}
	e.Push()
	e.AppendClause([]int{1})
	e.AppendClause([]int{-1})
	if e.NumClauses() != 3 {
		t.Fatalf("expected 3 clauses after push+2 appends, got %d", e.NumClauses())
	}
	e.Pop()
	if e.NumClauses() != 1 {
		t.Fatalf("expected clause count restored to 1 after pop, got %d", e.NumClauses())
	}
	res, err := e.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Sat {
		t.Fatal("expected sat after popping the conflicting unit clauses")
	}
}

func TestPhaseHintDoesNotAffectSatisfiability(t *testing.T) {
	for _, phase := range []Phase{PhaseFalse, PhaseTrue, PhaseJeroslowWang, PhaseRandom} {
		e := New()
		e.SetPhaseHint(phase, 7)
		e.AppendClause([]int{1, 2, -3})
		e.AppendClause([]int{-1, 3})
		e.AppendClause([]int{-2, 3})
		res, err := e.Solve()
		if err != nil {
			t.Fatalf("phase %v: Solve: %v", phase, err)
		}
		if !res.Sat {
			t.Fatalf("phase %v: expected sat, literal reordering must not change satisfiability", phase)
		}
	}
}

func TestUnsatCoreDropsIrrelevantClause(t *testing.T) {
	e := New()
	e.AppendClause([]int{1, 2}) // irrelevant to the core
	e.AppendClause([]int{3})
	e.AppendClause([]int{-3})
	core, err := e.UnsatCore()
	if err != nil {
		t.Fatalf("UnsatCore: %v", err)
	}
	for _, clause := range core {
		if len(clause) == 2 {
			t.Fatalf("expected the irrelevant 2-literal clause dropped from the core, got %v", core)
		}
	}
	if len(core) == 0 {
		t.Fatal("expected a non-empty unsat core")
	}
}
