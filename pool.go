package md2thesis

import "runtime"

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent pandoc processes, each of which forks
	// its own filters.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for pandoc's filter subprocesses.
	cpuDivisor = 2
)

// ResolvePoolSize determines how many documents to convert in parallel.
// An explicit count wins; otherwise GOMAXPROCS/2, which automaxprocs
// adjusts for container limits, clamped to [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
}
