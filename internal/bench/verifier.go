package bench

import (
	"cmp"
	"slices"

	apperrors "github.com/sort-bench/pkg/errors"
)

// Verify checks that sorted is the non-decreasing permutation of original by
// comparing it against an independent sort of a copy.
func Verify[T cmp.Ordered](original, sorted []T) error {
	if len(original) != len(sorted) {
		return apperrors.Newf(apperrors.CodeVerifyFailed,
			"length mismatch: expected %d elements, got %d", len(original), len(sorted))
	}

	expected := slices.Clone(original)
	slices.Sort(expected)

	for i := range expected {
		if expected[i] != sorted[i] {
			return apperrors.Newf(apperrors.CodeVerifyFailed,
				"mismatch at index %d: expected %v, got %v", i, expected[i], sorted[i])
		}
	}
	return nil
}
