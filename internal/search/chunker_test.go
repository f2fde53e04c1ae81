package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextShortTranscript(t *testing.T) {
	text := "Alice will finish the report by Friday. Bob approved the new budget."
	chunks := ChunkText(text, 1000)

	require.Len(t, chunks, 1)
	// 终结符被移除，句子以单个空格拼接
	assert.Equal(t, "Alice will finish the report by Friday Bob approved the new budget", chunks[0])
}

func TestChunkTextRespectsMaxSize(t *testing.T) {
	chunks := ChunkText("aaaa. bbbb. cccc.", 9)

	require.Equal(t, []string{"aaaa bbbb", "cccc"}, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 9)
	}
}

func TestChunkTextOversizedSentenceKeptWhole(t *testing.T) {
	long := strings.Repeat("word ", 20) + "end"
	chunks := ChunkText(long+". tiny.", 10)

	// 超长句子不截断，独占一块
	require.Len(t, chunks, 2)
	assert.Equal(t, long, chunks[0])
	assert.Equal(t, "tiny", chunks[1])
}

func TestChunkTextEmptyInput(t *testing.T) {
	assert.Empty(t, ChunkText("", 100))
	assert.Empty(t, ChunkText("   ", 100))
	assert.Empty(t, ChunkText("...!!!???", 100))
}

func TestChunkTextMixedTerminators(t *testing.T) {
	chunks := ChunkText("First! Second? Third... Fourth", 1000)

	require.Len(t, chunks, 1)
	assert.Equal(t, "First Second Third Fourth", chunks[0])
}

func TestChunkTextPreservesSentenceOrder(t *testing.T) {
	text := "one. two. three. four. five."
	chunks := ChunkText(text, 10)

	joined := strings.Join(chunks, " ")
	assert.Equal(t, "one two three four five", joined)
}

func TestChunkTextDeterministic(t *testing.T) {
	text := "Planning the roadmap took an hour. We agreed on three milestones! Next sync is on Monday?"
	first := ChunkText(text, 40)
	second := ChunkText(text, 40)

	assert.Equal(t, first, second)
}

func TestChunkTextZeroSizeFallsBackToDefault(t *testing.T) {
	text := "Short sentence."
	assert.Equal(t, ChunkText(text, DefaultChunkSize), ChunkText(text, 0))
}
