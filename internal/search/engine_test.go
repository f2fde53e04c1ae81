package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder 是测试用的 Embedding 客户端。每个文本映射到固定向量，
// 未注册的文本得到 {1, 0}；failOn 命中时整个调用失败。
type stubEmbedder struct {
	vectors map[string][]float32
	failOn  map[string]bool
	calls   [][]string
}

func (s *stubEmbedder) CreateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	s.calls = append(s.calls, texts)
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if s.failOn[text] {
			return nil, errors.New("embedding gateway unavailable")
		}
		v, ok := s.vectors[text]
		if !ok {
			v = []float32{1, 0}
		}
		out = append(out, v)
	}
	return out, nil
}

func record(meetingID uint, chunkType string, index int, text string, vector []float32) ChunkRecord {
	return ChunkRecord{
		MeetingID:  meetingID,
		ChunkType:  chunkType,
		ChunkIndex: index,
		Text:       text,
		Vector:     vector,
		Metadata:   Metadata{Title: "meeting", Type: chunkType},
	}
}

func TestNewEngineBackfillsDefaults(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})

	assert.Equal(t, DefaultChunkSize, engine.ChunkSize())
	assert.Equal(t, DefaultTopK, engine.TopK())
	assert.Equal(t, DefaultSimilarTopK, engine.SimilarTopK())
	assert.Equal(t, DefaultThemes, engine.Themes())
}

func TestSearchFiltersBelowThreshold(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	corpus := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "exact", []float32{1, 0}),
		record(2, ChunkTypeTranscription, 0, "close", []float32{0.8, 0.6}),
		record(3, ChunkTypeTranscription, 0, "far", []float32{0.6, 0.8}),
	}

	results, err := engine.Search(context.Background(), "query", corpus, 10, 0.7)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, uint(1), results[0].MeetingID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, uint(2), results[1].MeetingID)
	assert.InDelta(t, 0.8, results[1].Similarity, 1e-6)
}

func TestSearchOrdersByDescendingSimilarity(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	corpus := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "low", []float32{0.75, 0.66}),
		record(2, ChunkTypeTranscription, 0, "high", []float32{1, 0}),
		record(3, ChunkTypeSummary, 0, "mid", []float32{0.9, 0.43}),
	}

	results, err := engine.Search(context.Background(), "query", corpus, 10, 0.7)
	require.NoError(t, err)

	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
	assert.Equal(t, uint(2), results[0].MeetingID)
}

func TestSearchTiesKeepCorpusOrder(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	v := []float32{1, 0}
	corpus := []ChunkRecord{
		record(7, ChunkTypeTranscription, 0, "first", v),
		record(3, ChunkTypeTranscription, 0, "second", v),
		record(9, ChunkTypeTranscription, 0, "third", v),
	}

	results, err := engine.Search(context.Background(), "query", corpus, 10, 0.5)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, []uint{7, 3, 9}, []uint{results[0].MeetingID, results[1].MeetingID, results[2].MeetingID})
}

func TestSearchTruncatesToTopK(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	v := []float32{1, 0}
	var corpus []ChunkRecord
	for i := 0; i < 20; i++ {
		corpus = append(corpus, record(uint(i+1), ChunkTypeTranscription, i, "chunk", v))
	}

	results, err := engine.Search(context.Background(), "query", corpus, 5, 0.5)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestSearchUsesConfiguredDefaults(t *testing.T) {
	engine := NewEngine(Config{TopK: 2, SimilarityThreshold: 0.9}, &stubEmbedder{})
	v := []float32{1, 0}
	corpus := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", v),
		record(2, ChunkTypeTranscription, 0, "b", v),
		record(3, ChunkTypeTranscription, 0, "c", v),
		record(4, ChunkTypeTranscription, 0, "below", []float32{0.6, 0.8}),
	}

	// topK/threshold 传 0 时回退到配置值
	results, err := engine.Search(context.Background(), "query", corpus, 0, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSearchDeterministicAcrossRuns(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	corpus := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", []float32{1, 0}),
		record(2, ChunkTypeTranscription, 0, "b", []float32{0.9, 0.43}),
		record(3, ChunkTypeSummary, 0, "c", []float32{0.8, 0.6}),
	}

	first, err := engine.Search(context.Background(), "query", corpus, 10, 0.5)
	require.NoError(t, err)
	second, err := engine.Search(context.Background(), "query", corpus, 10, 0.5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSearchEmbedderFailure(t *testing.T) {
	embedder := &stubEmbedder{failOn: map[string]bool{"query": true}}
	engine := NewEngine(Config{}, embedder)
	corpus := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", []float32{1, 0}),
	}

	results, err := engine.Search(context.Background(), "query", corpus, 10, 0.7)
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestSearchQueryEmbeddedRaw(t *testing.T) {
	embedder := &stubEmbedder{}
	engine := NewEngine(Config{}, embedder)

	_, err := engine.Search(context.Background(), "budget planning", nil, 10, 0.7)
	require.NoError(t, err)

	// 查询文本原样送入 Embedding，不套标题增强模板
	require.Len(t, embedder.calls, 1)
	assert.Equal(t, []string{"budget planning"}, embedder.calls[0])
}

func TestSearchEmptyCorpus(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})

	results, err := engine.Search(context.Background(), "query", nil, 10, 0.7)
	require.NoError(t, err)
	assert.Empty(t, results)
}
