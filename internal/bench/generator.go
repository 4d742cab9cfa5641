package bench

import (
	"context"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/sort-bench/pkg/errors"
)

// ValueBound is the exclusive upper bound of generated values.
const ValueBound = 1_000_000

// generateChunk is the number of elements filled by one goroutine. Each chunk
// draws from its own PCG stream keyed by (seed, chunk index), so the output
// does not depend on how many goroutines ran.
const generateChunk = 1 << 16

// Generate returns n pseudo-random values in [0, ValueBound), identical for
// identical seeds.
func Generate(n int, seed uint64) []int32 {
	out, _ := GenerateContext(context.Background(), n, seed, runtime.GOMAXPROCS(0))
	return out
}

// GenerateContext is Generate with cancellation and a bound on the number of
// concurrent fill goroutines.
func GenerateContext(ctx context.Context, n int, seed uint64, workers int) ([]int32, error) {
	if n < 0 {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "negative input size %d", n)
	}
	if workers < 1 {
		workers = 1
	}

	out := make([]int32, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for chunk, lo := uint64(0), 0; lo < n; chunk, lo = chunk+1, lo+generateChunk {
		hi := min(lo+generateChunk, n)
		stream := chunk
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, stream))
			for i := lo; i < hi; i++ {
				out[i] = rng.Int32N(ValueBound)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInterrupted, "input generation interrupted", err)
	}
	return out, nil
}
