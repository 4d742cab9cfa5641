package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyType_String(t *testing.T) {
	tests := []struct {
		st       StrategyType
		expected string
	}{
		{StrategySequential, "sequential"},
		{StrategyOddEven, "oddeven"},
		{StrategyBitonic, "bitonic"},
		{StrategyTransposition, "transposition"},
		{StrategyMergeSort, "mergesort"},
		{StrategyBucket, "bucket"},
		{StrategyType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.st.String())
		})
	}
}

func TestParseStrategyType(t *testing.T) {
	for _, st := range AllStrategies() {
		parsed, err := ParseStrategyType(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
		assert.NotEmpty(t, st.Description())
	}

	parsed, err := ParseStrategyType("  MergeSort ")
	require.NoError(t, err)
	assert.Equal(t, StrategyMergeSort, parsed)

	_, err = ParseStrategyType("quicksort")
	assert.Error(t, err)
}

func TestStrategyType_Parallel(t *testing.T) {
	assert.False(t, StrategySequential.Parallel())
	assert.False(t, StrategyOddEven.Parallel())
	assert.True(t, StrategyBitonic.Parallel())
	assert.True(t, StrategyBucket.Parallel())
}
