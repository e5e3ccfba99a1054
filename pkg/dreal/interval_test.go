package dreal

import (
	"math"
	"testing"
)

func TestIntervalArithmetic(t *testing.T) {
	a := Interval{Lo: 1, Hi: 2}
	b := Interval{Lo: 3, Hi: 4}

	if sum := a.Add(b); sum.Lo > 4 || sum.Hi < 6 {
		t.Fatalf("expected [1,2]+[3,4] to enclose [4,6], got %v", sum)
	}
	if diff := a.Sub(b); diff.Lo > -3 || diff.Hi < -1 {
		t.Fatalf("expected [1,2]-[3,4] to enclose [-3,-1], got %v", diff)
	}
	if prod := a.Mul(b); prod.Lo > 3 || prod.Hi < 8 {
		t.Fatalf("expected [1,2]*[3,4] to enclose [3,8], got %v", prod)
	}
}

func TestIntervalDivStraddlingZero(t *testing.T) {
	a := Interval{Lo: 1, Hi: 2}
	straddling := Interval{Lo: -1, Hi: 1}
	if _, ok := a.Div(straddling); ok {
		t.Fatal("expected Div to fail when the divisor straddles zero")
	}
}

func TestIntervalDivOrdinary(t *testing.T) {
	a := Interval{Lo: 10, Hi: 20}
	b := Interval{Lo: 2, Hi: 5}
	res, ok := a.Div(b)
	if !ok {
		t.Fatal("expected Div to succeed for a divisor not containing zero")
	}
	if res.Lo > 2 || res.Hi < 10 {
		t.Fatalf("expected [10,20]/[2,5] to enclose [2,10], got %v", res)
	}
}

func TestIntervalBisect(t *testing.T) {
	iv := Interval{Lo: 0, Hi: 10}
	left, right := iv.Bisect()
	if left.Lo != 0 || left.Hi != 5 || right.Lo != 5 || right.Hi != 10 {
		t.Fatalf("expected a midpoint split, got left=%v right=%v", left, right)
	}
}

func TestIntervalEmpty(t *testing.T) {
	if !EmptyInterval.Empty() {
		t.Fatal("expected EmptyInterval.Empty() true")
	}
	if (Interval{Lo: 0, Hi: 1}).Empty() {
		t.Fatal("expected a normal interval not empty")
	}
}

func TestIntervalIntersect(t *testing.T) {
	a := Interval{Lo: 0, Hi: 5}
	b := Interval{Lo: 3, Hi: 10}
	got := a.Intersect(b)
	if got.Lo != 3 || got.Hi != 5 {
		t.Fatalf("expected [3,5], got %v", got)
	}
	disjoint := a.Intersect(Interval{Lo: 100, Hi: 200})
	if !disjoint.Empty() {
		t.Fatalf("expected disjoint intersection to be empty, got %v", disjoint)
	}
}

func TestIntervalSinWideIsFullRange(t *testing.T) {
	iv := Interval{Lo: -100, Hi: 100}
	s := iv.Sin()
	if s.Lo != -1 || s.Hi != 1 {
		t.Fatalf("expected a wide interval's Sin to be [-1,1], got %v", s)
	}
}

func TestIntervalSinNarrowEnclosesKnownValue(t *testing.T) {
	iv := Point(math.Pi / 2)
	s := iv.Sin()
	if !s.Contains(1) {
		t.Fatalf("expected sin(pi/2)=1 to be enclosed, got %v", s)
	}
}
