// Package model defines the core data structures used throughout the application.
package model

import (
	"fmt"

	apperrors "github.com/sort-bench/pkg/errors"
)

// Range is a half-open index window [Lo, Hi) into a sequence.
// It carries bounds only; the sequence it addresses is owned elsewhere.
type Range struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// NewRange creates a Range covering [lo, hi).
func NewRange(lo, hi int) Range {
	return Range{Lo: lo, Hi: hi}
}

// Full returns the Range covering a whole sequence of length n.
func Full(n int) Range {
	return Range{Lo: 0, Hi: n}
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Empty reports whether the range addresses no index.
func (r Range) Empty() bool {
	return r.Hi <= r.Lo
}

// String implements fmt.Stringer.
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Lo, r.Hi)
}

// Validate checks 0 <= Lo <= Hi <= n.
func (r Range) Validate(n int) error {
	if r.Lo < 0 || r.Lo > r.Hi || r.Hi > n {
		return apperrors.Newf(apperrors.CodeInvalidRange, "range %s out of bounds for length %d", r, n)
	}
	return nil
}

// MustValidate panics with an INVALID_RANGE AppError if the range is not valid for length n.
// A bad range is a decomposition bug, never a runtime condition.
func (r Range) MustValidate(n int) {
	if err := r.Validate(n); err != nil {
		panic(err)
	}
}

// Split divides the range at its midpoint. The two halves partition r:
// left.Hi == right.Lo, left.Lo == r.Lo, right.Hi == r.Hi.
func (r Range) Split() (left, right Range) {
	mid := r.Lo + r.Len()/2
	return Range{Lo: r.Lo, Hi: mid}, Range{Lo: mid, Hi: r.Hi}
}

// Partition divides the range into k contiguous parts whose lengths differ by at most one.
// The first Len()%k parts are one element longer. Parts may be empty when k > Len().
func (r Range) Partition(k int) []Range {
	if k <= 0 {
		k = 1
	}
	n := r.Len()
	base, extra := n/k, n%k

	parts := make([]Range, k)
	lo := r.Lo
	for i := 0; i < k; i++ {
		size := base
		if i < extra {
			size++
		}
		parts[i] = Range{Lo: lo, Hi: lo + size}
		lo += size
	}
	return parts
}

// Union returns the smallest range covering two adjacent ranges.
func Union(a, b Range) Range {
	return Range{Lo: min(a.Lo, b.Lo), Hi: max(a.Hi, b.Hi)}
}
