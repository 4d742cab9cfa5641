package model

import (
	"fmt"
	"strings"
)

// StrategyType represents a sorting strategy.
type StrategyType int

const (
	StrategySequential StrategyType = iota
	StrategyOddEven
	StrategyBitonic
	StrategyTransposition
	StrategyMergeSort
	StrategyBucket
)

var strategyNames = map[StrategyType]string{
	StrategySequential:    "sequential",
	StrategyOddEven:       "oddeven",
	StrategyBitonic:       "bitonic",
	StrategyTransposition: "transposition",
	StrategyMergeSort:     "mergesort",
	StrategyBucket:        "bucket",
}

var strategyDescriptions = map[StrategyType]string{
	StrategySequential:    "bubble sort over the whole sequence, early exit on a clean pass",
	StrategyOddEven:       "sequential odd-even transposition, early exit on a clean round",
	StrategyBitonic:       "bitonic comparator network over a power-of-two padded copy",
	StrategyTransposition: "odd-even transposition, n phases, fork/join split per phase",
	StrategyMergeSort:     "threshold fork/join merge sort with pooled scratch buffers",
	StrategyBucket:        "pool-phased bucket sort with pairwise combine rounds",
}

// String returns the string representation of StrategyType.
func (s StrategyType) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// Description returns a one-line summary of the strategy.
func (s StrategyType) Description() string {
	return strategyDescriptions[s]
}

// Parallel reports whether the strategy uses more than one execution unit.
func (s StrategyType) Parallel() bool {
	switch s {
	case StrategySequential, StrategyOddEven:
		return false
	default:
		return true
	}
}

// ParseStrategyType parses a strategy name, case-insensitively.
func ParseStrategyType(s string) (StrategyType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for st, n := range strategyNames {
		if n == name {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy type: %s", s)
}

// AllStrategies returns every strategy in declaration order.
func AllStrategies() []StrategyType {
	return []StrategyType{
		StrategySequential,
		StrategyOddEven,
		StrategyBitonic,
		StrategyTransposition,
		StrategyMergeSort,
		StrategyBucket,
	}
}
