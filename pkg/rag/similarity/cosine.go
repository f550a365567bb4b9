// Package similarity scores embedding vectors against each other.
package similarity

import "math"

// Cosine returns dot(a, b) / (|a| * |b|).
//
// It returns 0 when either vector is empty, the lengths differ, or either
// magnitude is zero. The result is not clamped: opposite vectors score -1.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (normA * normB)
}
