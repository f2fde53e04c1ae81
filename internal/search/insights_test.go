package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverInsightsUsesConfiguredThemesByDefault(t *testing.T) {
	embedder := &stubEmbedder{}
	engine := NewEngine(Config{}, embedder)

	results := engine.DiscoverInsights(context.Background(), nil, nil)

	require.Len(t, results, len(DefaultThemes))
	for _, theme := range DefaultThemes {
		_, ok := results[theme]
		assert.True(t, ok, "missing theme %q", theme)
	}
}

func TestDiscoverInsightsIsolatesFailingTheme(t *testing.T) {
	embedder := &stubEmbedder{failOn: map[string]bool{"broken theme": true}}
	engine := NewEngine(Config{}, embedder)
	corpus := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, "relevant chunk", []float32{1, 0}),
	}

	results := engine.DiscoverInsights(context.Background(), corpus, []string{"broken theme", "working theme"})

	require.Len(t, results, 2)

	failed := results["broken theme"]
	require.Error(t, failed.Err)
	assert.Empty(t, failed.Insights)

	ok := results["working theme"]
	require.NoError(t, ok.Err)
	require.Len(t, ok.Insights, 1)
	assert.Equal(t, uint(1), ok.Insights[0].MeetingID)
}

func TestDiscoverInsightsSumsSimilarityPerMeeting(t *testing.T) {
	embedder := &stubEmbedder{}
	engine := NewEngine(Config{}, embedder)
	corpus := []ChunkRecord{
		// 会议1：两个中等相关分块，总分 0.8 + 0.7 = 1.5
		record(1, ChunkTypeTranscription, 0, "first", []float32{0.8, 0.6}),
		record(1, ChunkTypeTranscription, 1, "second", []float32{0.7, 0.714}),
		// 会议2：单个高相关分块，总分 0.9
		record(2, ChunkTypeSummary, 0, "third", []float32{0.9, 0.436}),
	}

	results := engine.DiscoverInsights(context.Background(), corpus, []string{"theme"})
	insights := results["theme"].Insights
	require.Len(t, insights, 2)

	// 多个中等相关分块胜过单个高相关分块
	assert.Equal(t, uint(1), insights[0].MeetingID)
	assert.InDelta(t, 1.5, insights[0].TotalSimilarity, 1e-2)
	assert.Len(t, insights[0].RelevantChunks, 2)

	assert.Equal(t, uint(2), insights[1].MeetingID)
	assert.Len(t, insights[1].RelevantChunks, 1)
}

func TestDiscoverInsightsKeepsTopEightMeetings(t *testing.T) {
	embedder := &stubEmbedder{}
	engine := NewEngine(Config{}, embedder)
	var corpus []ChunkRecord
	for i := 1; i <= 10; i++ {
		corpus = append(corpus, record(uint(i), ChunkTypeTranscription, 0, "chunk", []float32{1, 0}))
	}

	results := engine.DiscoverInsights(context.Background(), corpus, []string{"theme"})
	assert.Len(t, results["theme"].Insights, 8)
}

func TestDiscoverInsightsTruncatesChunkPreview(t *testing.T) {
	embedder := &stubEmbedder{}
	engine := NewEngine(Config{}, embedder)
	long := strings.Repeat("x", 300)
	corpus := []ChunkRecord{
		record(1, ChunkTypeTranscription, 0, long, []float32{1, 0}),
	}

	results := engine.DiscoverInsights(context.Background(), corpus, []string{"theme"})
	insights := results["theme"].Insights
	require.Len(t, insights, 1)
	require.Len(t, insights[0].RelevantChunks, 1)

	preview := insights[0].RelevantChunks[0].Text
	assert.Len(t, preview, 203)
	assert.True(t, strings.HasSuffix(preview, "..."))
	assert.Equal(t, strings.Repeat("x", 200), preview[:200])
}

func TestDiscoverInsightsCarriesMeetingTitle(t *testing.T) {
	embedder := &stubEmbedder{}
	engine := NewEngine(Config{}, embedder)
	rec := record(1, ChunkTypeTranscription, 0, "chunk", []float32{1, 0})
	rec.Metadata.Title = "Quarterly Planning"

	results := engine.DiscoverInsights(context.Background(), []ChunkRecord{rec}, []string{"theme"})
	insights := results["theme"].Insights
	require.Len(t, insights, 1)
	assert.Equal(t, "Quarterly Planning", insights[0].Title)
}
