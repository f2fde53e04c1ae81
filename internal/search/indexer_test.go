package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexMeetingBuildsTranscriptionAndSummaryRecords(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Meeting: Budget Review\n\nContent: Alice will finish the report by Friday Bob approved the new budget": {1, 0},
		"Meeting: Budget Review\n\nSummary: Budget approved and deadlines set.":                                 {0, 1},
	}}
	engine := NewEngine(Config{}, embedder)

	records, err := engine.IndexMeeting(context.Background(), 42,
		"Alice will finish the report by Friday. Bob approved the new budget.",
		"Budget Review",
		"Budget approved and deadlines set.")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// 转写分块
	assert.Equal(t, uint(42), records[0].MeetingID)
	assert.Equal(t, ChunkTypeTranscription, records[0].ChunkType)
	assert.Equal(t, 0, records[0].ChunkIndex)
	assert.Equal(t, "Alice will finish the report by Friday Bob approved the new budget", records[0].Text)
	assert.Equal(t, []float32{1, 0}, records[0].Vector)
	assert.Equal(t, "Budget Review", records[0].Metadata.Title)

	// 摘要分块：原始摘要不变，向量对应增强文本
	assert.Equal(t, ChunkTypeSummary, records[1].ChunkType)
	assert.Equal(t, 0, records[1].ChunkIndex)
	assert.Equal(t, "Budget approved and deadlines set.", records[1].Text)
	assert.Equal(t, []float32{0, 1}, records[1].Vector)

	// 全部增强文本在单次批量调用中向量化
	require.Len(t, embedder.calls, 1)
	assert.Len(t, embedder.calls[0], 2)
}

func TestIndexMeetingEnhancedTextUsesTemplates(t *testing.T) {
	embedder := &stubEmbedder{}
	engine := NewEngine(Config{}, embedder)

	records, err := engine.IndexMeeting(context.Background(), 1, "Hello world.", "Standup", "Summary text.")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Meeting: Standup\n\nContent: Hello world", records[0].EnhancedText)
	assert.Equal(t, "Meeting: Standup\n\nSummary: Summary text.", records[1].EnhancedText)
}

func TestIndexMeetingSkipsBlankSummary(t *testing.T) {
	engine := NewEngine(Config{}, &stubEmbedder{})

	records, err := engine.IndexMeeting(context.Background(), 1, "Only a transcript here.", "Title", "   ")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ChunkTypeTranscription, records[0].ChunkType)
}

func TestIndexMeetingNothingToIndex(t *testing.T) {
	embedder := &stubEmbedder{}
	engine := NewEngine(Config{}, embedder)

	records, err := engine.IndexMeeting(context.Background(), 1, "", "Title", "")
	require.NoError(t, err)
	assert.Nil(t, records)
	// 没有内容时不触发 Embedding 调用
	assert.Empty(t, embedder.calls)
}

func TestIndexMeetingLongTranscriptMultipleChunks(t *testing.T) {
	engine := NewEngine(Config{ChunkSize: 30}, &stubEmbedder{})

	records, err := engine.IndexMeeting(context.Background(), 5,
		"First sentence goes here. Second sentence goes here. Third sentence goes here.", "Weekly", "")
	require.NoError(t, err)
	require.Greater(t, len(records), 1)

	for i, rec := range records {
		assert.Equal(t, ChunkTypeTranscription, rec.ChunkType)
		assert.Equal(t, i, rec.ChunkIndex)
		assert.NotEmpty(t, rec.Vector)
	}
}

func TestIndexMeetingEmbedderFailureReturnsNoRecords(t *testing.T) {
	embedder := &stubEmbedder{failOn: map[string]bool{
		"Meeting: Title\n\nContent: Some content": true,
	}}
	engine := NewEngine(Config{}, embedder)

	records, err := engine.IndexMeeting(context.Background(), 1, "Some content.", "Title", "")
	require.Error(t, err)
	assert.Nil(t, records)
}

func TestIndexMeetingVectorCountMismatch(t *testing.T) {
	engine := NewEngine(Config{}, &truncatingEmbedder{})

	records, err := engine.IndexMeeting(context.Background(), 1, "One sentence.", "Title", "A summary.")
	require.Error(t, err)
	assert.Nil(t, records)
}

// truncatingEmbedder 返回比输入少一条的向量，用于验证数量一致性检查。
type truncatingEmbedder struct{}

func (e *truncatingEmbedder) CreateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for range texts[1:] {
		out = append(out, []float32{1, 0})
	}
	return out, nil
}
