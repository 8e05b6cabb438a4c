package embedding

import "gonum.org/v1/gonum/mat"

// Cosine returns the cosine similarity of two vectors. Mismatched lengths,
// empty vectors and zero-norm input all degrade to 0 rather than failing; the
// semantic feature then simply contributes nothing.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	va := mat.NewVecDense(len(a), a)
	vb := mat.NewVecDense(len(b), b)

	normA := mat.Norm(va, 2)
	normB := mat.Norm(vb, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	return mat.Dot(va, vb) / (normA * normB)
}
