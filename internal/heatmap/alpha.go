package heatmap

import "math"

// MinAlpha is the floor for the per-record blend weight
const MinAlpha = 0.1

// Alpha returns the blend weight for a corpus of n records: max(0.1, 1/n).
// An empty corpus yields 1.
func Alpha(n int) float64 {
	if n <= 0 {
		return 1
	}
	return math.Max(MinAlpha, 1/float64(n))
}
