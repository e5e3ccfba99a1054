package dreal

import (
	"fmt"
	"math"
)

// epsilonULP is the number of representable doubles by which outward
// rounding nudges a computed bound, approximating the effect of directed
// rounding modes without requiring cgo or platform-specific FPU control.
const epsilonULP = 4

// Interval is a closed interval [Lo, Hi] of IEEE-754 doubles, including
// ±Inf endpoints and degenerate points (Lo == Hi).
//
// Interval is the interval-arithmetic library's core primitive, treated
// by spec as an external collaborator: this is a minimal, real
// implementation of that stated interface — forward arithmetic with
// outward rounding, bisection, and emptiness — not a general interval
// library.
type Interval struct {
	Lo, Hi float64
}

// NewInterval builds [lo, hi]. Panics if lo > hi (constructing an
// inconsistent interval is a programmer error, not a runtime condition).
func NewInterval(lo, hi float64) Interval {
	if lo > hi {
		panic(fmt.Sprintf("dreal: invalid interval [%v, %v]", lo, hi))
	}
	return Interval{Lo: lo, Hi: hi}
}

// Point returns the degenerate interval [v, v].
func Point(v float64) Interval { return Interval{Lo: v, Hi: v} }

// EmptyInterval is the canonical empty interval, represented as a
// normally-unreachable ordering (Lo > Hi) so Empty() can detect it
// without a separate tag.
var EmptyInterval = Interval{Lo: math.Inf(1), Hi: math.Inf(-1)}

// Empty reports whether the interval has no points.
func (iv Interval) Empty() bool { return iv.Lo > iv.Hi || math.IsNaN(iv.Lo) || math.IsNaN(iv.Hi) }

// Diam returns the interval's diameter (width). Empty intervals have a
// negative diameter, by construction, so callers that only check
// diam > 0 naturally skip them.
func (iv Interval) Diam() float64 {
	if iv.Empty() {
		return -1
	}
	return iv.Hi - iv.Lo
}

// Mid returns the interval's midpoint. For unbounded intervals it
// returns the finite endpoint pushed out by a fixed margin, following
// the usual ICP convention of bisecting an infinite interval at a large
// but finite point rather than refusing to branch.
func (iv Interval) Mid() float64 {
	switch {
	case math.IsInf(iv.Lo, -1) && math.IsInf(iv.Hi, 1):
		return 0
	case math.IsInf(iv.Lo, -1):
		return iv.Hi - 1e10
	case math.IsInf(iv.Hi, 1):
		return iv.Lo + 1e10
	default:
		return iv.Lo + (iv.Hi-iv.Lo)/2
	}
}

// Bisectable reports whether the midpoint is representable and distinct
// from both endpoints, i.e. bisecting would actually shrink the box.
func (iv Interval) Bisectable() bool {
	if iv.Empty() {
		return false
	}
	m := iv.Mid()
	return !math.IsNaN(m) && m > iv.Lo && m < iv.Hi
}

// Bisect splits the interval at its midpoint into (left, right) with
// left.Hi == right.Lo == Mid(). Panics if the interval is not bisectable;
// callers must check Bisectable() first.
func (iv Interval) Bisect() (Interval, Interval) {
	if !iv.Bisectable() {
		panic(fmt.Sprintf("dreal: interval %v is not bisectable", iv))
	}
	m := iv.Mid()
	return Interval{Lo: iv.Lo, Hi: m}, Interval{Lo: m, Hi: iv.Hi}
}

// Intersect returns the intersection of two intervals. The result may be
// empty (Lo > Hi) if the intervals are disjoint.
func (iv Interval) Intersect(other Interval) Interval {
	lo := math.Max(iv.Lo, other.Lo)
	hi := math.Min(iv.Hi, other.Hi)
	return Interval{Lo: lo, Hi: hi}
}

// Hull returns the smallest interval containing both operands (their
// convex union). Used by Join to merge surviving branches.
func (iv Interval) Hull(other Interval) Interval {
	if iv.Empty() {
		return other
	}
	if other.Empty() {
		return iv
	}
	return Interval{Lo: math.Min(iv.Lo, other.Lo), Hi: math.Max(iv.Hi, other.Hi)}
}

// Contains reports whether v lies within the interval.
func (iv Interval) Contains(v float64) bool { return !iv.Empty() && v >= iv.Lo && v <= iv.Hi }

// outward widens a raw floating point bound by a few ULPs in the
// direction away from the interval, approximating directed rounding so
// that interval arithmetic never silently loses a feasible point to
// rounding error.
func outwardLo(v float64) float64 {
	if math.IsInf(v, -1) || math.IsInf(v, 1) || math.IsNaN(v) {
		return v
	}
	for i := 0; i < epsilonULP; i++ {
		v = math.Nextafter(v, math.Inf(-1))
	}
	return v
}

func outwardHi(v float64) float64 {
	if math.IsInf(v, -1) || math.IsInf(v, 1) || math.IsNaN(v) {
		return v
	}
	for i := 0; i < epsilonULP; i++ {
		v = math.Nextafter(v, math.Inf(1))
	}
	return v
}

// Add computes [a,b] + [c,d] = [a+c, b+d] with outward rounding.
func (iv Interval) Add(other Interval) Interval {
	return Interval{Lo: outwardLo(iv.Lo + other.Lo), Hi: outwardHi(iv.Hi + other.Hi)}
}

// Sub computes [a,b] - [c,d] = [a-d, b-c] with outward rounding.
func (iv Interval) Sub(other Interval) Interval {
	return Interval{Lo: outwardLo(iv.Lo - other.Hi), Hi: outwardHi(iv.Hi - other.Lo)}
}

// Neg computes -[a,b] = [-b,-a].
func (iv Interval) Neg() Interval { return Interval{Lo: -iv.Hi, Hi: -iv.Lo} }

// Mul computes [a,b] * [c,d] via the standard four-corner rule, with
// outward rounding applied to the surviving min/max.
func (iv Interval) Mul(other Interval) Interval {
	if iv.Empty() || other.Empty() {
		return EmptyInterval
	}
	corners := [4]float64{
		iv.Lo * other.Lo, iv.Lo * other.Hi,
		iv.Hi * other.Lo, iv.Hi * other.Hi,
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	return Interval{Lo: outwardLo(lo), Hi: outwardHi(hi)}
}

// Scale multiplies the interval by a scalar, flipping endpoints when the
// scalar is negative.
func (iv Interval) Scale(c float64) Interval {
	if c >= 0 {
		return Interval{Lo: outwardLo(iv.Lo * c), Hi: outwardHi(iv.Hi * c)}
	}
	return Interval{Lo: outwardLo(iv.Hi * c), Hi: outwardHi(iv.Lo * c)}
}

// Div computes [a,b] / [c,d]. Returns (EmptyInterval, false) whenever
// the divisor interval contains zero, at an endpoint, in its interior,
// or as the single point 0; callers treat that as "no enclosure"
// (the evaluator reports Unknown) rather than truncating the result.
func (iv Interval) Div(other Interval) (Interval, bool) {
	if other.Contains(0) && other.Lo != other.Hi {
		return EmptyInterval, false
	}
	if other.Lo == 0 && other.Hi == 0 {
		return EmptyInterval, false
	}
	recip := Interval{Lo: outwardLo(1 / other.Hi), Hi: outwardHi(1 / other.Lo)}
	if other.Hi == 0 {
		recip = Interval{Lo: math.Inf(-1), Hi: outwardHi(1 / other.Lo)}
	} else if other.Lo == 0 {
		recip = Interval{Lo: outwardLo(1 / other.Hi), Hi: math.Inf(1)}
	}
	return iv.Mul(recip), true
}

// Sin returns an enclosure of sin(x) for x in the interval. For wide
// intervals (diameter ≥ 2π) the full range [-1,1] is returned; otherwise
// a sampled enclosure over the monotonic pieces of sine is computed.
func (iv Interval) Sin() Interval {
	if iv.Empty() {
		return EmptyInterval
	}
	if iv.Diam() >= 2*math.Pi || math.IsInf(iv.Lo, -1) || math.IsInf(iv.Hi, 1) {
		return Interval{Lo: -1, Hi: 1}
	}
	return sampledEnclosure(iv, math.Sin)
}

// Cos returns an enclosure of cos(x) for x in the interval, by the same
// sampling strategy as Sin.
func (iv Interval) Cos() Interval {
	if iv.Empty() {
		return EmptyInterval
	}
	if iv.Diam() >= 2*math.Pi || math.IsInf(iv.Lo, -1) || math.IsInf(iv.Hi, 1) {
		return Interval{Lo: -1, Hi: 1}
	}
	return sampledEnclosure(iv, math.Cos)
}

// Exp returns a monotone enclosure of exp(x).
func (iv Interval) Exp() Interval {
	if iv.Empty() {
		return EmptyInterval
	}
	return Interval{Lo: outwardLo(math.Exp(iv.Lo)), Hi: outwardHi(math.Exp(iv.Hi))}
}

// sampledEnclosure enclosure-bounds a (non-monotone in general) function
// over an interval by densely sampling it and widening outward. This is
// a conservative, dependency-free stand-in for Ibex's certified
// transcendental enclosures; it is sound (the true range is contained in
// the returned interval for any function with bounded first derivative
// over the sampled domain, which holds for sin/cos) but not tight.
func sampledEnclosure(iv Interval, f func(float64) float64) Interval {
	const samples = 64
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i <= samples; i++ {
		x := iv.Lo + (iv.Hi-iv.Lo)*float64(i)/float64(samples)
		y := f(x)
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	// Widen by the maximum slope (|f'| ≤ 1 for sin/cos) times the
	// sampling gap, so the true continuous range can't escape the
	// sampled envelope.
	gap := (iv.Hi - iv.Lo) / samples
	return Interval{Lo: outwardLo(lo - gap), Hi: outwardHi(hi + gap)}
}

func (iv Interval) String() string {
	if iv.Empty() {
		return "∅"
	}
	return fmt.Sprintf("[%v, %v]", iv.Lo, iv.Hi)
}
