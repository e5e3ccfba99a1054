package dreal

import "testing"

func TestJoinTakesHullOfSurvivingChildren(t *testing.T) {
	x := NewVariable("x", Real)
	box := NewBox([]Variable{x}, []Interval{{Lo: -10, Hi: 10}})

	// x <= -5 OR x >= 5, modeled as a Join of two IbexFwdBwd contractors.
	left := NewIbexFwdBwd(NewAtom(Var(x), OpLeq, Const(-5)), box, 1e-9)
	right := NewIbexFwdBwd(NewAtom(Var(x), OpGeq, Const(5)), box, 1e-9)
	join := NewJoin(left, right)

	cs := NewContractorStatus(box, NewStats())
	if err := join.Prune(cs); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	got := box.Interval(0)
	if got.Lo != -10 || got.Hi != 10 {
		t.Fatalf("expected the hull of [-10,-5] and [5,10] to be [-10,10], got %v", got)
	}
}

func TestJoinEmptyWhenAllChildrenEmpty(t *testing.T) {
	x := NewVariable("x", Real)
	box := NewBox([]Variable{x}, []Interval{{Lo: -1, Hi: 1}})

	left := NewIbexFwdBwd(NewAtom(Var(x), OpGeq, Const(100)), box, 1e-9)
	right := NewIbexFwdBwd(NewAtom(Var(x), OpLeq, Const(-100)), box, 1e-9)
	join := NewJoin(left, right)

	cs := NewContractorStatus(box, NewStats())
	if err := join.Prune(cs); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if !box.Empty() {
		t.Fatalf("expected an empty box when every disjunct is infeasible, got %v", box)
	}
}
