//go:build !linux

package utils

func affinityCPUs() int {
	return 0
}
