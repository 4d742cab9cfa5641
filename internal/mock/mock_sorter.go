// Package mock provides mock implementations for testing.
package mock

import (
	"context"
	"slices"

	"github.com/stretchr/testify/mock"

	"github.com/sort-bench/pkg/model"
)

// MockSorter is a mock implementation of engine.Sorter[int32].
type MockSorter struct {
	mock.Mock
}

// Name mocks the Name method.
func (m *MockSorter) Name() string {
	return m.Called().String(0)
}

// Sort mocks the Sort method.
func (m *MockSorter) Sort(ctx context.Context, seq []int32) (*model.RunStats, error) {
	args := m.Called(ctx, seq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RunStats), args.Error(1)
}

// Close mocks the Close method.
func (m *MockSorter) Close() error {
	return m.Called().Error(0)
}

// SortInPlace is a Run hook that sorts the slice argument correctly.
func SortInPlace(args mock.Arguments) {
	slices.Sort(args.Get(1).([]int32))
}

// SortDescending is a Run hook that leaves the slice argument in reverse order.
func SortDescending(args mock.Arguments) {
	seq := args.Get(1).([]int32)
	slices.Sort(seq)
	slices.Reverse(seq)
}
