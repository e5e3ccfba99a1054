package dreal

import "math/bits"

// DynamicBitset is a fixed-width bitset over dimensions 0..n-1, used in
// two roles inside a Contractor: the input set (which dimensions a
// contractor reads) and the output set (which dimensions a contractor
// may have just narrowed).
type DynamicBitset struct {
	n     int
	words []uint64
}

// NewDynamicBitset allocates a bitset of width n, all bits clear.
func NewDynamicBitset(n int) DynamicBitset {
	if n < 0 {
		n = 0
	}
	return DynamicBitset{n: n, words: make([]uint64, (n+63)/64)}
}

// Len returns the bitset's declared width.
func (b DynamicBitset) Len() int { return b.n }

// Set marks bit i.
func (b *DynamicBitset) Set(i int) {
	b.words[i/64] |= 1 << uint(i%64)
}

// Clear unmarks bit i.
func (b *DynamicBitset) Clear(i int) {
	b.words[i/64] &^= 1 << uint(i%64)
}

// ClearAll unmarks every bit, keeping the current width.
func (b *DynamicBitset) ClearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// SetAll marks every bit up to the declared width.
func (b *DynamicBitset) SetAll() {
	for i := 0; i < b.n; i++ {
		b.Set(i)
	}
}

// Test reports whether bit i is set.
func (b DynamicBitset) Test(i int) bool {
	return b.words[i/64]&(1<<uint(i%64)) != 0
}

// None reports whether no bit is set.
func (b DynamicBitset) None() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of set bits.
func (b DynamicBitset) Count() int {
	c := 0
	for _, w := range b.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// Or unions other into b in place. Both must share the same width.
func (b *DynamicBitset) Or(other DynamicBitset) {
	for i := range b.words {
		if i < len(other.words) {
			b.words[i] |= other.words[i]
		}
	}
}

// Clone returns an independent copy.
func (b DynamicBitset) Clone() DynamicBitset {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return DynamicBitset{n: b.n, words: words}
}

// npos is returned by FindFirst/FindNext when no further bit is set.
const npos = -1

// FindFirst returns the lowest-index set bit, or npos if none is set.
func (b DynamicBitset) FindFirst() int { return b.findFrom(0) }

// FindNext returns the lowest-index set bit strictly greater than i, or
// npos if none remains.
func (b DynamicBitset) FindNext(i int) int { return b.findFrom(i + 1) }

func (b DynamicBitset) findFrom(start int) int {
	for i := start; i < b.n; i++ {
		if b.Test(i) {
			return i
		}
	}
	return npos
}

// ForEachSet calls fn for every set bit, in ascending order.
func (b DynamicBitset) ForEachSet(fn func(i int)) {
	for i := b.FindFirst(); i != npos; i = b.FindNext(i) {
		fn(i)
	}
}
