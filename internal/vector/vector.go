// Package vector implements the similarity metrics and the on-disk
// vector encoding used by the embeddings store.
package vector

import (
	"errors"
	"fmt"
	"math"

	"github.com/raphaelgruber/tablerag/internal/models"
)

// ErrDimensionMismatch indicates two vectors of different length were
// compared.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// CosineSimilarity returns the cosine of the angle between a and b,
// in [-1, 1]. Zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// DotProduct returns the inner product of a and b.
func DotProduct(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// EuclideanDistance returns the l2 distance between a and b.
func EuclideanDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Score computes the similarity of a and b under the given metric. The
// sign convention follows models.IndexDist: every metric returns a score
// where higher is better, so results sort non-increasing.
func Score(dist models.IndexDist, a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	switch dist {
	case models.IndexDistCosine:
		return CosineSimilarity(a, b), nil
	case models.IndexDistIP:
		return DotProduct(a, b), nil
	case models.IndexDistL2:
		return -EuclideanDistance(a, b), nil
	}
	return 0, fmt.Errorf("%w: %q", models.ErrInvalidIndexDist, dist)
}
