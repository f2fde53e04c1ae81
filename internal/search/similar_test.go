package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSimilarMeetingsExcludesSelf(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	meetingChunks := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", []float32{1, 0}),
	}
	corpus := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", []float32{1, 0}),
		record(2, ChunkTypeTranscription, 0, "b", []float32{1, 0}),
	}

	results := engine.FindSimilarMeetings(1, meetingChunks, corpus, 5)

	require.Len(t, results, 1)
	assert.Equal(t, uint(2), results[0].MeetingID)
}

func TestFindSimilarMeetingsEmptyTargetReturnsEmpty(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	corpus := []ChunkRecord{
		record(2, ChunkTypeTranscription, 0, "b", []float32{1, 0}),
	}

	results := engine.FindSimilarMeetings(1, nil, corpus, 5)

	// 无分块的会议得到空列表，而不是 nil 或除零
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFindSimilarMeetingsAveragesPerMeeting(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	meetingChunks := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", []float32{1, 0}),
		record(1, ChunkTypeTranscription, 1, "b", []float32{1, 0}),
	}
	corpus := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", []float32{1, 0}),
		// 会议2：两个分块，相似度 1.0 与 0.0，平均 0.5
		record(2, ChunkTypeTranscription, 0, "c", []float32{1, 0}),
		record(2, ChunkTypeTranscription, 1, "d", []float32{0, 1}),
		// 会议3：单个分块，相似度 0.8
		record(3, ChunkTypeSummary, 0, "e", []float32{0.8, 0.6}),
	}

	results := engine.FindSimilarMeetings(1, meetingChunks, corpus, 5)

	require.Len(t, results, 2)
	assert.Equal(t, uint(3), results[0].MeetingID)
	assert.InDelta(t, 0.8, results[0].Similarity, 1e-6)
	assert.Equal(t, 1, results[0].MatchCount)

	assert.Equal(t, uint(2), results[1].MeetingID)
	assert.InDelta(t, 0.5, results[1].Similarity, 1e-6)
	assert.Equal(t, 2, results[1].MatchCount)
}

func TestFindSimilarMeetingsTruncatesToTopK(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	meetingChunks := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", []float32{1, 0}),
	}
	var corpus []ChunkRecord
	for i := 2; i <= 10; i++ {
		corpus = append(corpus, record(uint(i), ChunkTypeTranscription, 0, "x", []float32{1, 0}))
	}

	results := engine.FindSimilarMeetings(1, meetingChunks, corpus, 3)
	assert.Len(t, results, 3)
}

func TestFindSimilarMeetingsTiesKeepCorpusOrder(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})
	meetingChunks := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", []float32{1, 0}),
	}
	v := []float32{1, 0}
	corpus := []ChunkRecord{
		record(8, ChunkTypeTranscription, 0, "x", v),
		record(4, ChunkTypeTranscription, 0, "y", v),
		record(6, ChunkTypeTranscription, 0, "z", v),
	}

	first := engine.FindSimilarMeetings(1, meetingChunks, corpus, 5)
	second := engine.FindSimilarMeetings(1, meetingChunks, corpus, 5)

	require.Len(t, first, 3)
	assert.Equal(t, uint(8), first[0].MeetingID)
	assert.Equal(t, uint(4), first[1].MeetingID)
	assert.Equal(t, uint(6), first[2].MeetingID)
	assert.Equal(t, first, second)
}

func TestFindSimilarMeetingsZeroTopKUsesDefault(t *testing.T) {
	engine := NewEngine(Config{SimilarTopK: 2}, &stubEmbedder{})
	meetingChunks := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "a", []float32{1, 0}),
	}
	var corpus []ChunkRecord
	for i := 2; i <= 6; i++ {
		corpus = append(corpus, record(uint(i), ChunkTypeTranscription, 0, "x", []float32{1, 0}))
	}

	results := engine.FindSimilarMeetings(1, meetingChunks, corpus, 0)
	assert.Len(t, results, 2)
}
