package dreal

import "math"

// NewIntegerBounds builds a contractor that rounds each integral
// variable's interval endpoints inward to the nearest enclosing
// integers: [lo, hi] -> [ceil(lo), floor(hi)]. Produces an empty
// interval if no integer lies in the original range.
func NewIntegerBounds(vars []Variable, box *Box) Contractor {
	input := NewDynamicBitset(box.Size())
	for _, v := range vars {
		if i := box.Index(v); i >= 0 {
			input.Set(i)
		}
	}
	return Contractor{kind: KindIntegerBounds, input: input, integralVars: vars}
}

func (c Contractor) pruneIntegerBounds(cs *ContractorStatus) {
	box := cs.Box()
	oldIV := box.IntervalVector()
	for _, v := range c.integralVars {
		i := box.Index(v)
		if i < 0 {
			continue
		}
		iv := box.Interval(i)
		if iv.Empty() {
			continue
		}
		lo, hi := math.Ceil(iv.Lo), math.Floor(iv.Hi)
		if lo > hi {
			box.SetInterval(i, EmptyInterval)
			continue
		}
		box.SetInterval(i, Interval{Lo: lo, Hi: hi})
	}
	newIV := box.IntervalVector()
	c.input.ForEachSet(func(i int) {
		if oldIV[i] != newIV[i] {
			cs.output.Set(i)
		}
	})
}
