// Package testutil provides input fixtures and assertions shared by the
// sorting and benchmark tests.
package testutil

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
)

// Integer is the set of key types the fixtures produce.
type Integer interface {
	~int32 | ~int64
}

// Random returns n values in [0, limit) from a PCG stream keyed by seed.
func Random[T Integer](n int, seed uint64, limit int64) []T {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]T, n)
	for i := range out {
		out[i] = T(r.Int64N(limit))
	}
	return out
}

// Reversed returns n, n-1, ..., 1.
func Reversed[T Integer](n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(n - i)
	}
	return out
}

// Ascending returns 0, 1, ..., n-1.
func Ascending[T Integer](n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(i)
	}
	return out
}

// Constant returns n copies of v.
func Constant[T Integer](n int, v T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// OrganPipe rises to the middle and falls back: 0, 1, ..., 1, 0.
func OrganPipe[T Integer](n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(min(i, n-1-i))
	}
	return out
}

// Shapes returns the standard input shapes of length n, keyed by name.
func Shapes[T Integer](n int, seed uint64) map[string][]T {
	return map[string][]T{
		"random":     Random[T](n, seed, 1_000_000),
		"duplicates": Random[T](n, seed, 4),
		"reversed":   Reversed[T](n),
		"ascending":  Ascending[T](n),
		"constant":   Constant[T](n, 7),
		"organ_pipe": OrganPipe[T](n),
	}
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}
