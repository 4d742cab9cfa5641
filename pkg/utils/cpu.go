package utils

import "runtime"

// AvailableCPUs returns the number of CPUs this process may run on.
// On Linux that is the size of the scheduler affinity mask, which honors
// taskset and cpuset limits; elsewhere it is runtime.NumCPU.
func AvailableCPUs() int {
	if n := affinityCPUs(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}
