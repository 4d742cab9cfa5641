package testutil

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/stretchr/testify/assert"
)

// IsSorted reports whether data is non-decreasing.
func IsSorted[T cmp.Ordered](data []T) bool {
	return slices.IsSorted(data)
}

// AssertSorted fails the test at the first descent in data.
func AssertSorted[T cmp.Ordered](t assert.TestingT, data []T, msgAndArgs ...interface{}) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return assert.Fail(t, fmt.Sprintf("not sorted: descent at index %d: %v > %v", i, data[i-1], data[i]), msgAndArgs...)
		}
	}
	return true
}

// AssertPermutation asserts that got holds exactly the elements of want.
func AssertPermutation[T cmp.Ordered](t assert.TestingT, want, got []T, msgAndArgs ...interface{}) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	a, b := slices.Clone(want), slices.Clone(got)
	slices.Sort(a)
	slices.Sort(b)
	return assert.Equal(t, a, b, msgAndArgs...)
}
