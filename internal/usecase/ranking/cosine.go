package ranking

import "math"

// CosineSimilarity computes the cosine similarity of two vectors truncated
// to the shorter length. Returns exactly 0 for empty overlap or zero-norm
// vectors — mismatched or degenerate embeddings degrade, they never error.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ValidEmbedding reports whether a stored embedding passes shape
// validation: non-empty with a finite leading component.
func ValidEmbedding(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	f := float64(v[0])
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
