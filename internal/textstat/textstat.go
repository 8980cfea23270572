// Package textstat holds the small numeric helpers shared by the analyzers.
package textstat

import (
	"math"

	"writing_assessor/internal/chunk"
)

// MeanStd returns the mean and population standard deviation of values.
func MeanStd(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if len(values) == 1 {
		return mean, 0
	}
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func Clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func Clamp100(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// TypeTokenRatio is distinct tokens over total tokens. Tokens are expected
// to be lower-cased already.
func TypeTokenRatio(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
	}
	return float64(len(seen)) / float64(len(tokens))
}

// MATTR is the moving-average type/token ratio over windows of size tokens
// with half-window overlap. For inputs no longer than one window it is the
// plain type/token ratio.
func MATTR(tokens []string, size int) float64 {
	if len(tokens) == 0 {
		return 0
	}
	if size <= 0 || len(tokens) <= size {
		return TypeTokenRatio(tokens)
	}
	windows := chunk.SlidingWindow(len(tokens), size, size/2)
	sum := 0.0
	for _, w := range windows {
		sum += TypeTokenRatio(w.Tokens(tokens))
	}
	return sum / float64(len(windows))
}
