// Package outlier flags statistical outliers in a window's kwh_delta
// values using a single-pass mu +/- k*sigma rule.
package outlier

import "math"

// Detect returns a mask the same length as values, where mask[i] is true
// iff values[i] lies more than k population standard deviations from the
// mean. With fewer than three values there isn't enough data to estimate a
// distribution, so every entry is reported as not-an-outlier. The detector
// does not iterate to convergence — one pass over the input, full stop.
func Detect(values []float64, k float64) []bool {
	mask := make([]bool, len(values))
	if len(values) < 3 {
		return mask
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	threshold := k * math.Sqrt(variance)

	for i, v := range values {
		mask[i] = math.Abs(v-mean) > threshold
	}

	return mask
}
