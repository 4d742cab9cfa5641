package engine

import (
	apperrors "github.com/sort-bench/pkg/errors"
	"github.com/sort-bench/pkg/model"
)

// New creates the sorter for kind.
func New[T Element](kind model.StrategyType, opts Options) (Sorter[T], error) {
	switch kind {
	case model.StrategySequential:
		return newSequentialSorter[T](opts), nil
	case model.StrategyOddEven:
		return newOddEvenSorter[T](opts), nil
	case model.StrategyBitonic:
		return newBitonicSorter[T](opts), nil
	case model.StrategyTransposition:
		return newTranspositionSorter[T](opts), nil
	case model.StrategyMergeSort:
		return newMergeSorter[T](opts), nil
	case model.StrategyBucket:
		return newBucketSorter[T](opts), nil
	default:
		return nil, apperrors.Newf(apperrors.CodeUnsupportedStrategy, "unsupported strategy %d", int(kind))
	}
}

// Factory creates sorters sharing one set of options.
type Factory[T Element] struct {
	opts Options
}

// NewFactory creates a new sorter factory.
func NewFactory[T Element](opts Options) *Factory[T] {
	return &Factory[T]{opts: opts}
}

// Options returns the options sorters are created with.
func (f *Factory[T]) Options() Options {
	return f.opts.normalized()
}

// Create creates a sorter for the given strategy.
func (f *Factory[T]) Create(kind model.StrategyType) (Sorter[T], error) {
	return New[T](kind, f.opts)
}

// CreateByName creates a sorter from a strategy name.
func (f *Factory[T]) CreateByName(name string) (Sorter[T], error) {
	kind, err := model.ParseStrategyType(name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnsupportedStrategy, "unsupported strategy "+name, err)
	}
	return f.Create(kind)
}
