package bench

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sort-bench/internal/engine"
	sbmock "github.com/sort-bench/internal/mock"
	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/metrics"
	"github.com/sort-bench/pkg/model"
	"github.com/sort-bench/pkg/utils"
)

func factoryFor(sorters map[model.StrategyType]engine.Sorter[int32]) SorterFactory {
	return func(kind model.StrategyType) (engine.Sorter[int32], error) {
		s, ok := sorters[kind]
		if !ok {
			return nil, apperrors.ErrUnsupportedStrategy
		}
		return s, nil
	}
}

func TestRunner_Run(t *testing.T) {
	good := &sbmock.MockSorter{}
	good.On("Sort", mock.Anything, mock.Anything).
		Run(sbmock.SortInPlace).
		Return(&model.RunStats{Strategy: "bucket", Size: 500, Workers: 4, Rounds: 3}, nil).
		Times(3)
	good.On("Close").Return(nil).Once()

	collector := metrics.NewCollector()
	var lastCompleted atomic.Int64
	r, err := NewRunner(Config{
		Size:       500,
		Seed:       42,
		Repeat:     3,
		Strategies: []model.StrategyType{model.StrategyBucket},
		Engine:     engine.Options{Workers: 4},
	},
		WithClock(utils.NewMockClock(time.Unix(0, 0)).WithAutoAdvance(2*time.Millisecond)),
		WithSorterFactory(factoryFor(map[model.StrategyType]engine.Sorter[int32]{model.StrategyBucket: good})),
		WithMetrics(collector),
		WithProgress(time.Hour, func(completed, _ int64) { lastCompleted.Store(completed) }),
	)
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	good.AssertExpectations(t)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, uint64(42), summary.Seed)
	require.Len(t, summary.Results, 1)

	res := summary.Results[0]
	assert.Equal(t, summary.RunID, res.RunID)
	assert.Equal(t, "bucket", res.Strategy)
	assert.True(t, res.Correct)
	assert.False(t, res.Failed())
	assert.Equal(t, 3, res.Repeats)
	assert.Equal(t, 3, res.Rounds)
	assert.Equal(t, 2*time.Millisecond, res.Min)
	assert.Equal(t, 2*time.Millisecond, res.Mean)
	assert.Equal(t, 2*time.Millisecond, res.Max)
	assert.InDelta(t, float64(2*time.Millisecond), float64(res.P50), float64(10*time.Microsecond))

	assert.Equal(t, int64(3), lastCompleted.Load())
	expected := `
# HELP sortbench_sort_runs_total Number of sort calls
# TYPE sortbench_sort_runs_total counter
sortbench_sort_runs_total{strategy="bucket",workers="4"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "sortbench_sort_runs_total"))
	assert.Contains(t, summary.Phases, "phases")
	assert.Equal(t, 3, phaseRuns(r.Timer(), "sort/bucket"))
	assert.Equal(t, 3, phaseRuns(r.Timer(), "verify"))
}

func TestRunner_SorterMustNotMutateInput(t *testing.T) {
	var seen [][]int32
	s := &sbmock.MockSorter{}
	s.On("Sort", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seq := args.Get(1).([]int32)
			seen = append(seen, slices.Clone(seq))
			slices.Sort(seq)
		}).
		Return(&model.RunStats{}, nil)
	s.On("Close").Return(nil)

	r, err := NewRunner(Config{Size: 64, Seed: 9, Repeat: 2, Strategies: []model.StrategyType{model.StrategyMergeSort}},
		WithSorterFactory(factoryFor(map[model.StrategyType]engine.Sorter[int32]{model.StrategyMergeSort: s})))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	// every repeat sorts a fresh copy of the same input
	require.Len(t, seen, 2)
	assert.Equal(t, Generate(64, 9), seen[0])
	assert.Equal(t, seen[0], seen[1])
}

func TestRunner_VerificationFailure(t *testing.T) {
	broken := &sbmock.MockSorter{}
	broken.On("Sort", mock.Anything, mock.Anything).
		Run(sbmock.SortDescending).
		Return(&model.RunStats{Strategy: "transposition"}, nil)
	broken.On("Close").Return(nil)

	collector := metrics.NewCollector()
	r, err := NewRunner(Config{Size: 100, Repeat: 2, Strategies: []model.StrategyType{model.StrategyTransposition}},
		WithSorterFactory(factoryFor(map[model.StrategyType]engine.Sorter[int32]{model.StrategyTransposition: broken})),
		WithMetrics(collector))
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)

	res := summary.Results[0]
	assert.False(t, res.Correct)
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "VERIFY_FAILED")
	assert.Equal(t, 0, res.Repeats)
	assert.Equal(t, 1, summary.FailedCount())
	broken.AssertNumberOfCalls(t, "Sort", 2)
}

func TestRunner_UnsupportedStrategy(t *testing.T) {
	r, err := NewRunner(Config{Size: 10, Strategies: []model.StrategyType{model.StrategyBitonic}},
		WithSorterFactory(factoryFor(nil)))
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Contains(t, summary.Results[0].Error, "UNSUPPORTED_STRATEGY")
	assert.True(t, summary.Results[0].Failed())
}

func TestRunner_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &sbmock.MockSorter{}
	s.On("Sort", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(&model.RunStats{Rounds: 1}, apperrors.Wrap(apperrors.CodeInterrupted, "bucket interrupted after 1 rounds", context.Canceled)).
		Once()
	s.On("Close").Return(nil)

	r, err := NewRunner(Config{
		Size:       100,
		Repeat:     5,
		Strategies: []model.StrategyType{model.StrategyBucket, model.StrategyBitonic},
	}, WithSorterFactory(factoryFor(map[model.StrategyType]engine.Sorter[int32]{model.StrategyBucket: s})))
	require.NoError(t, err)

	summary, err := r.Run(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsInterrupted(err))

	// the run stops after the interrupted strategy
	require.Len(t, summary.Results, 1)
	assert.Contains(t, summary.Results[0].Error, "interrupted")
	s.AssertNumberOfCalls(t, "Sort", 1)
}

func TestRunner_WithEngine(t *testing.T) {
	r, err := NewRunner(Config{
		Size:       3000,
		Seed:       42,
		Strategies: model.AllStrategies(),
		Engine: engine.Options{
			Workers:                4,
			TranspositionThreshold: 100,
			MergeThreshold:         64,
			CheckDisjoint:          true,
		},
	})
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, len(model.AllStrategies()))
	for _, res := range summary.Results {
		assert.True(t, res.Correct, "%s: %s", res.Strategy, res.Error)
		assert.Equal(t, 1, res.Repeats, res.Strategy)
	}
}

func TestNewRunner_Defaults(t *testing.T) {
	_, err := NewRunner(Config{Size: -1})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))

	r, err := NewRunner(Config{Size: 1})
	require.NoError(t, err)
	assert.Equal(t, model.AllStrategies(), r.cfg.Strategies)
	assert.Equal(t, 1, r.cfg.Repeat)
	assert.Positive(t, r.cfg.Engine.Workers)
	assert.Same(t, utils.GetGlobalLogger(), r.logger)
}

func phaseRuns(timer *utils.Timer, name string) int {
	for _, p := range timer.Phases() {
		if p.Name == name {
			return p.Runs
		}
	}
	return 0
}
