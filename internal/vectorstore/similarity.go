package vectorstore

import (
	"math"
)

// SquaredEuclidean calculates the squared Euclidean distance between
// two vectors. Lower values indicate higher similarity. Vectors of
// different lengths are maximally distant.
func SquaredEuclidean(a, b []float32) float32 {
	if len(a) != len(b) {
		return float32(math.Inf(1))
	}

	var sum float32
	for i := 0; i < len(a); i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return sum
}
