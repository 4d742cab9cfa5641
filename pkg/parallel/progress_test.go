package parallel

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	var lastCompleted, lastTotal atomic.Int64

	tracker := NewProgressTracker(100, func(completed, total int64) {
		lastCompleted.Store(completed)
		lastTotal.Store(total)
	}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tracker.Start(ctx)

	for i := 0; i < 50; i++ {
		tracker.Increment()
	}
	tracker.Stop()
	tracker.Stop()

	assert.Equal(t, int64(50), lastCompleted.Load())
	assert.Equal(t, int64(100), lastTotal.Load())
	assert.Equal(t, int64(50), tracker.Completed())
}
