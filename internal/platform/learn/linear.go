package learn

import "gonum.org/v1/gonum/stat"

// LinearFit returns the ordinary least squares intercept and slope of y on x.
// Fewer than two distinct x values yield a flat line through the mean.
func LinearFit(x, y []float64) (intercept, slope float64) {
	if len(x) == 0 || len(x) != len(y) {
		return 0, 0
	}
	if len(x) < 2 || stat.Variance(x, nil) == 0 {
		return stat.Mean(y, nil), 0
	}
	return stat.LinearRegression(x, y, nil, false)
}

// TrendSlope fits a line through values against their position and returns
// the slope, or 0 with fewer than two values.
func TrendSlope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	_, slope := LinearFit(Index(len(values)), values)
	return slope
}

// Index returns 0, 1, ..., n-1 as floats.
func Index(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
