package embedding

import "fmt"

// MaxEmbeddingDim is the hard upper bound on stored vector length.
// Every write path and every query path must pass vectors through Truncate
// before they reach an index; comparing vectors of different dimensionality
// produces garbage distances.
const MaxEmbeddingDim = 1536

// Truncate returns a copy of vec limited to the first MaxEmbeddingDim
// components. Vectors already within the limit are copied unchanged.
func Truncate(vec []float32) []float32 {
	if vec == nil {
		return []float32{}
	}
	n := len(vec)
	if n > MaxEmbeddingDim {
		n = MaxEmbeddingDim
	}
	out := make([]float32, n)
	copy(out, vec[:n])
	return out
}

// CheckDim rejects vectors whose length differs from the corpus dimension.
// Applied at the index write boundary.
func CheckDim(vec []float32, want int) error {
	if len(vec) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), want)
	}
	return nil
}
