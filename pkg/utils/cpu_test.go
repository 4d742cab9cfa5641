package utils

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableCPUs(t *testing.T) {
	n := AvailableCPUs()
	assert.Positive(t, n)
	assert.LessOrEqual(t, n, runtime.NumCPU())
}
