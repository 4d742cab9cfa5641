package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/sort-bench/internal/testutil"
	"github.com/sort-bench/pkg/model"
)

func BenchmarkStrategies(b *testing.B) {
	for _, size := range []int{1_000, 10_000} {
		data := testutil.Random[int32](size, 42, 1_000_000)
		for _, kind := range model.AllStrategies() {
			if size > 1_000 && (kind == model.StrategySequential || kind == model.StrategyOddEven || kind == model.StrategyTransposition) {
				continue
			}
			b.Run(fmt.Sprintf("%s/%d", kind, size), func(b *testing.B) {
				s, err := New[int32](kind, DefaultOptions())
				if err != nil {
					b.Fatal(err)
				}
				defer s.Close()

				work := make([]int32, size)
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					copy(work, data)
					if _, err := s.Sort(context.Background(), work); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
