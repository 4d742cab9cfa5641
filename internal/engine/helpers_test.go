package engine

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sort-bench/internal/testutil"
	"github.com/sort-bench/pkg/model"
)

// sortAndCheck sorts a copy of in with s and asserts the permutation and sortedness properties.
func sortAndCheck[T Element](t *testing.T, s Sorter[T], in []T) *model.RunStats {
	t.Helper()

	got := slices.Clone(in)
	want := slices.Clone(in)
	slices.Sort(want)

	stats, err := s.Sort(context.Background(), got)
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.True(t, testutil.IsSorted(got), "%s: output not sorted", s.Name())
	require.Equal(t, want, got, "%s: output is not a permutation of the input", s.Name())
	return stats
}

func newSorter[T Element](t *testing.T, kind model.StrategyType, opts Options) Sorter[T] {
	t.Helper()
	s, err := New[T](kind, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// testOptions returns small thresholds so the fork and merge paths run on small inputs.
func testOptions(workers int) Options {
	return Options{
		Workers:                workers,
		TranspositionThreshold: 4,
		MergeThreshold:         4,
		FallbackFactor:         2,
		DefensivePass:          true,
		CheckDisjoint:          true,
	}
}
