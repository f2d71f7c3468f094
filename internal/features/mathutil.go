package features

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// mean of xs, 0 for an empty slice
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func sum(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Sum(xs)
}

// ratio divides by den, or by 1 when den is zero
func ratio(num, den float64) float64 {
	if den == 0 {
		return num
	}
	return num / den
}

// orOne substitutes 1 for a zero count
func orOne(n int) float64 {
	if n == 0 {
		return 1
	}
	return float64(n)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
