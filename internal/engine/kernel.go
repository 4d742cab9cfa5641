package engine

import (
	"context"

	"github.com/sort-bench/pkg/model"
)

// BubbleSort orders seq[r.Lo:r.Hi] with adjacent compare-and-swap passes,
// stopping at the first pass without a swap. It returns the number of swaps.
// An invalid r panics with an INVALID_RANGE error.
func BubbleSort[T Element](seq []T, r model.Range) int {
	r.MustValidate(len(seq))

	swaps := 0
	for hi := r.Hi; hi-r.Lo > 1; hi-- {
		swapped := false
		for i := r.Lo; i < hi-1; i++ {
			if seq[i] > seq[i+1] {
				seq[i], seq[i+1] = seq[i+1], seq[i]
				swaps++
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
	return swaps
}

// compareSwapParity swaps every out-of-order pair (i, i+1) inside r whose
// left index has the given parity.
func compareSwapParity[T Element](seq []T, r model.Range, parity int) int {
	swaps := 0
	start := r.Lo
	if start%2 != parity {
		start++
	}
	for i := start; i+1 < r.Hi; i += 2 {
		if seq[i] > seq[i+1] {
			seq[i], seq[i+1] = seq[i+1], seq[i]
			swaps++
		}
	}
	return swaps
}

type sequentialSorter[T Element] struct {
	base
}

func newSequentialSorter[T Element](opts Options) *sequentialSorter[T] {
	return &sequentialSorter[T]{base: newBase(model.StrategySequential, opts)}
}

func (s *sequentialSorter[T]) Sort(ctx context.Context, seq []T) (*model.RunStats, error) {
	stats := s.newStats(len(seq))
	stats.Workers = 1
	if len(seq) <= 1 {
		return stats, nil
	}
	if err := ctx.Err(); err != nil {
		return stats, s.interrupted(stats, err)
	}

	BubbleSort(seq, model.Full(len(seq)))
	stats.Tasks = 1
	return stats, nil
}

func (s *sequentialSorter[T]) Close() error { return nil }

// oddEvenSorter is the single-threaded odd-even transposition sort. Unlike
// the phased engine it stops after the first round (odd then even pass)
// without a swap.
type oddEvenSorter[T Element] struct {
	base
}

func newOddEvenSorter[T Element](opts Options) *oddEvenSorter[T] {
	return &oddEvenSorter[T]{base: newBase(model.StrategyOddEven, opts)}
}

func (s *oddEvenSorter[T]) Sort(ctx context.Context, seq []T) (*model.RunStats, error) {
	stats := s.newStats(len(seq))
	stats.Workers = 1
	if len(seq) <= 1 {
		return stats, nil
	}

	full := model.Full(len(seq))
	for {
		if err := ctx.Err(); err != nil {
			return stats, s.interrupted(stats, err)
		}
		swaps := compareSwapParity(seq, full, 1) + compareSwapParity(seq, full, 0)
		s.endRound(stats)
		if swaps == 0 {
			return stats, nil
		}
	}
}

func (s *oddEvenSorter[T]) Close() error { return nil }
