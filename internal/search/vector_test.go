package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	v := []float32{0.3, 0.5, 0.8}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarityOrthogonalVectors(t *testing.T) {
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosineSimilarityOppositeVectors(t *testing.T) {
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 2}, []float32{-1, -2}), 1e-9)
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{0, 0}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, []float32{1, 2}))
}

func TestCosineSimilarityMismatchedLengths(t *testing.T) {
	// 以较短向量的长度为准
	a := []float32{1, 0, 5}
	b := []float32{1, 0}
	assert.InDelta(t, CosineSimilarity(b, b), CosineSimilarity(a[:2], b), 1e-9)
	assert.NotPanics(t, func() { CosineSimilarity(a, b) })
}

func TestCentroidEmptyInput(t *testing.T) {
	assert.Nil(t, Centroid(nil))
	assert.Nil(t, Centroid([][]float32{}))
}

func TestCentroidAveragesComponents(t *testing.T) {
	centroid := Centroid([][]float32{
		{1, 0},
		{0, 1},
	})
	require.Len(t, centroid, 2)
	assert.InDelta(t, 0.5, float64(centroid[0]), 1e-6)
	assert.InDelta(t, 0.5, float64(centroid[1]), 1e-6)
}

func TestCentroidSingleVector(t *testing.T) {
	centroid := Centroid([][]float32{{0.2, 0.4, 0.6}})
	require.Len(t, centroid, 3)
	assert.InDelta(t, 0.2, float64(centroid[0]), 1e-6)
	assert.InDelta(t, 0.4, float64(centroid[1]), 1e-6)
	assert.InDelta(t, 0.6, float64(centroid[2]), 1e-6)
}
