package dreal

import "testing"

func TestIntegerBoundsRoundsInward(t *testing.T) {
	x := NewVariable("x", Int)
	box := NewBox([]Variable{x}, []Interval{{Lo: 1.2, Hi: 4.8}})
	ib := NewIntegerBounds([]Variable{x}, box)

	cs := NewContractorStatus(box, NewStats())
	ib.Prune(cs)

	got := box.Interval(0)
	if got.Lo != 2 || got.Hi != 4 {
		t.Fatalf("expected [1.2,4.8] to round inward to [2,4], got %v", got)
	}
}

func TestIntegerBoundsEmptyWhenNoIntegerInRange(t *testing.T) {
	x := NewVariable("x", Int)
	box := NewBox([]Variable{x}, []Interval{{Lo: 1.1, Hi: 1.9}})
	ib := NewIntegerBounds([]Variable{x}, box)

	cs := NewContractorStatus(box, NewStats())
	ib.Prune(cs)

	if !box.Interval(0).Empty() {
		t.Fatalf("expected no integer in (1.1,1.9) to produce an empty interval, got %v", box.Interval(0))
	}
}
