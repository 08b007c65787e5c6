package prediction

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// sampleStd is the n-1 standard deviation, 0 for fewer than two values.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

func coefVar(std, avg float64) float64 {
	if avg <= 0 {
		return 0
	}
	return std / avg
}

func tail[T any](items []T, n int) []T {
	if n >= len(items) {
		return items
	}
	return items[len(items)-n:]
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Min(values)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
