package knowledge

import "math"

// cosineSimilarity computes the cosine similarity between two vectors:
// dot product divided by the product of L2 norms, clamped to [-1, 1].
//
// A zero-norm vector scores 0 (never a division by zero), and so do
// mismatched or empty vectors. Accumulation happens in float64 to keep
// the result stable across large dimensions.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Floating point can push the ratio slightly outside [-1, 1].
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return float32(sim)
}
