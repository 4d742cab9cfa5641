package collections

import (
	"math/bits"
)

// Bitset is a memory-efficient boolean set using bit manipulation.
// It uses 1 bit per element instead of 1 byte (bool) or 8+ bytes (map entry).
// Bitset is not safe for concurrent use.
type Bitset struct {
	bits []uint64
	size int
}

// NewBitset creates a new bitset with the given size.
func NewBitset(size int) *Bitset {
	if size <= 0 {
		size = 64
	}
	return &Bitset{
		bits: make([]uint64, (size+63)/64),
		size: size,
	}
}

// Set sets the bit at index i.
func (b *Bitset) Set(i int) {
	if i < 0 {
		return
	}
	wordIdx := i / 64
	if wordIdx >= len(b.bits) {
		b.grow(i + 1)
	}
	b.bits[wordIdx] |= 1 << (i % 64)
	if i >= b.size {
		b.size = i + 1
	}
}

// Clear clears the bit at index i.
func (b *Bitset) Clear(i int) {
	if i < 0 || i/64 >= len(b.bits) {
		return
	}
	b.bits[i/64] &^= 1 << (i % 64)
}

// Test returns true if the bit at index i is set.
func (b *Bitset) Test(i int) bool {
	if i < 0 || i/64 >= len(b.bits) {
		return false
	}
	return b.bits[i/64]&(1<<(i%64)) != 0
}

// SetRange sets every bit in [lo, hi).
func (b *Bitset) SetRange(lo, hi int) {
	b.applyRange(lo, hi, func(word *uint64, mask uint64) { *word |= mask })
}

// ClearRange clears every bit in [lo, hi).
func (b *Bitset) ClearRange(lo, hi int) {
	b.applyRange(lo, hi, func(word *uint64, mask uint64) { *word &^= mask })
}

// AnyInRange reports whether any bit in [lo, hi) is set.
func (b *Bitset) AnyInRange(lo, hi int) bool {
	found := false
	b.applyRange(lo, hi, func(word *uint64, mask uint64) {
		if *word&mask != 0 {
			found = true
		}
	})
	return found
}

// applyRange calls fn once per word touched by [lo, hi) with the mask of the covered bits.
func (b *Bitset) applyRange(lo, hi int, fn func(word *uint64, mask uint64)) {
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return
	}
	if (hi-1)/64 >= len(b.bits) {
		b.grow(hi)
	}
	if hi > b.size {
		b.size = hi
	}
	for w := lo / 64; w <= (hi-1)/64; w++ {
		start, end := max(lo, w*64), min(hi, (w+1)*64)
		width := end - start
		var mask uint64
		if width == 64 {
			mask = ^uint64(0)
		} else {
			mask = ((uint64(1) << width) - 1) << (start % 64)
		}
		fn(&b.bits[w], mask)
	}
}

// ClearAll clears all bits to 0.
func (b *Bitset) ClearAll() {
	clear(b.bits)
}

// Count returns the number of set bits (population count).
func (b *Bitset) Count() int {
	count := 0
	for _, word := range b.bits {
		count += bits.OnesCount64(word)
	}
	return count
}

// Size returns the size of the bitset.
func (b *Bitset) Size() int {
	return b.size
}

// grow expands the bitset to accommodate at least newSize elements.
func (b *Bitset) grow(newSize int) {
	numWords := (newSize + 63) / 64
	if numWords <= len(b.bits) {
		return
	}
	// Grow by at least 2x to amortize allocation cost
	newCap := max(len(b.bits)*2, numWords)
	newBits := make([]uint64, newCap)
	copy(newBits, b.bits)
	b.bits = newBits
}
