package search

import "math"

// CosineSimilarity 计算两个向量的余弦相似度 dot(a,b)/(||a||*||b||)。
// 任一向量范数为零时定义为 0。累加使用 float64 以减小精度损失。
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Centroid 计算一组向量的分量算术平均。输入为空时返回 nil。
// 向量维度以第一条为准，语料的维度一致性由索引阶段保证。
func Centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	sums := make([]float64, dim)
	for _, v := range vectors {
		for i := 0; i < dim && i < len(v); i++ {
			sums[i] += float64(v[i])
		}
	}

	centroid := make([]float32, dim)
	for i, s := range sums {
		centroid[i] = float32(s / float64(len(vectors)))
	}
	return centroid
}
