package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sort-bench/internal/testutil"
	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/model"
)

func TestMergeSort_Scenario(t *testing.T) {
	opts := testOptions(2)
	opts.MergeThreshold = 2
	s := newSorter[int32](t, model.StrategyMergeSort, opts)

	seq := []int32{4, 2, 1, 3}
	stats, err := s.Sort(context.Background(), seq)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4}, seq)
	assert.Zero(t, stats.DefensiveSwaps)
	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, int64(3), stats.Tasks)
}

func TestMergeSort_Merge(t *testing.T) {
	s := newMergeSorter[int32](Options{MergeThreshold: 2})

	seq := []int32{9, 1, 4, 7, 2, 3, 8, 0}
	s.merge(seq, model.NewRange(1, 4), model.NewRange(4, 7))
	assert.Equal(t, []int32{9, 1, 2, 3, 4, 7, 8, 0}, seq)

	seq = []int32{5, 6, 1}
	s.merge(seq, model.NewRange(0, 2), model.NewRange(2, 3))
	assert.Equal(t, []int32{1, 5, 6}, seq)
}

func TestMergeSort_WithoutDefensivePass(t *testing.T) {
	for _, threshold := range []int{1, 2, 7, 1000} {
		opts := testOptions(4)
		opts.MergeThreshold = threshold
		opts.DefensivePass = false
		s := newSorter[int32](t, model.StrategyMergeSort, opts)

		for _, n := range []int{2, 3, 10, 257, 2000} {
			stats := sortAndCheck(t, s, testutil.Random[int32](n, uint64(n+threshold), 1_000_000))
			assert.Zero(t, stats.DefensiveSwaps)
		}
	}
}

func TestMergeSort_JoinDepth(t *testing.T) {
	s := newMergeSorter[int64](Options{MergeThreshold: 4})
	assert.Equal(t, 0, s.joinDepth(4))
	assert.Equal(t, 1, s.joinDepth(5))
	assert.Equal(t, 1, s.joinDepth(8))
	assert.Equal(t, 2, s.joinDepth(9))
}

func TestMergeSort_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newSorter[int32](t, model.StrategyMergeSort, testOptions(2))
	_, err := s.Sort(ctx, testutil.Reversed[int32](100))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInterrupted, apperrors.GetErrorCode(err))
}

func TestMergeSort_ForkCounts(t *testing.T) {
	opts := Options{Workers: 4, MergeThreshold: 64, DefensivePass: true}
	s := newSorter[int32](t, model.StrategyMergeSort, opts)

	// 4096 / 64 = 64 leaves, 63 inner nodes, one fork per inner node
	for i := 0; i < 2; i++ {
		stats := sortAndCheck(t, s, testutil.Random[int32](4096, uint64(i), 1_000_000))
		assert.Equal(t, int64(127), stats.Tasks)
		assert.Equal(t, int64(63), stats.Spawned+stats.Inline)
	}

	opts.Workers = 1
	single := newSorter[int32](t, model.StrategyMergeSort, opts)
	stats := sortAndCheck(t, single, testutil.Reversed[int32](4096))
	assert.Zero(t, stats.Spawned)
	assert.Equal(t, int64(63), stats.Inline)
}
