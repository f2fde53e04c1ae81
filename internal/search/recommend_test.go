package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecommendationsEmptyInputs(t *testing.T) {
	recs := GenerateRecommendations(1, "Standup", nil, nil)

	assert.NotNil(t, recs.SimilarMeetings)
	assert.NotNil(t, recs.RelatedTopics)
	assert.NotNil(t, recs.ActionSuggestions)
	assert.NotNil(t, recs.FollowUpMeetings)
	assert.Empty(t, recs.SimilarMeetings)
	assert.Empty(t, recs.RelatedTopics)
	assert.Empty(t, recs.ActionSuggestions)
	assert.Empty(t, recs.FollowUpMeetings)
}

func TestGenerateRecommendationsFormatsTopThreeSimilar(t *testing.T) {
	similar := []SimilarMeeting{
		{MeetingID: 2, Similarity: 0.85, MatchCount: 3},
		{MeetingID: 3, Similarity: 0.72, MatchCount: 1},
		{MeetingID: 4, Similarity: 0.701, MatchCount: 2},
		{MeetingID: 5, Similarity: 0.65, MatchCount: 1},
	}

	recs := GenerateRecommendations(1, "Standup", similar, nil)

	require.Len(t, recs.SimilarMeetings, 3)
	first := recs.SimilarMeetings[0]
	assert.Equal(t, uint(2), first.MeetingID)
	assert.Equal(t, 0.85, first.SimilarityScore)
	assert.Equal(t, "Similar content and topics discussed (85.0% match)", first.Reason)
	assert.Equal(t, "Similar content and topics discussed (70.1% match)", recs.SimilarMeetings[2].Reason)
}

func TestGenerateRecommendationsFiltersSelfFromTopics(t *testing.T) {
	insights := map[string]ThemeResult{
		"project updates": {Insights: []MeetingInsight{
			{MeetingID: 1, TotalSimilarity: 2.1},
			{MeetingID: 7, TotalSimilarity: 1.4},
			{MeetingID: 9, TotalSimilarity: 0.8},
		}},
		"challenges": {Insights: []MeetingInsight{
			{MeetingID: 1, TotalSimilarity: 1.2},
		}},
	}

	recs := GenerateRecommendations(1, "Standup", nil, insights)

	// 只包含当前会议的主题不产生条目
	require.Len(t, recs.RelatedTopics, 1)
	topic := recs.RelatedTopics[0]
	assert.Equal(t, "project updates", topic.Theme)
	assert.Equal(t, 2, topic.RelatedMeetingCount)
	assert.Equal(t, uint(7), topic.TopMeetingID)
}

func TestGenerateRecommendationsSortsThemesAlphabetically(t *testing.T) {
	insights := map[string]ThemeResult{
		"zeta topic":  {Insights: []MeetingInsight{{MeetingID: 2}}},
		"alpha topic": {Insights: []MeetingInsight{{MeetingID: 3}}},
		"mid topic":   {Insights: []MeetingInsight{{MeetingID: 4}}},
	}

	for i := 0; i < 5; i++ {
		recs := GenerateRecommendations(1, "Standup", nil, insights)
		require.Len(t, recs.RelatedTopics, 3)
		assert.Equal(t, "alpha topic", recs.RelatedTopics[0].Theme)
		assert.Equal(t, "mid topic", recs.RelatedTopics[1].Theme)
		assert.Equal(t, "zeta topic", recs.RelatedTopics[2].Theme)
	}
}

func TestGenerateRecommendationsActionThemeAddsSuggestions(t *testing.T) {
	insights := map[string]ThemeResult{
		"action items and follow-ups": {Insights: []MeetingInsight{{MeetingID: 2}}},
	}

	recs := GenerateRecommendations(1, "Standup", nil, insights)

	require.Len(t, recs.ActionSuggestions, 2)
	assert.Equal(t, "Review action items from similar meetings to ensure consistency", recs.ActionSuggestions[0])
	assert.Equal(t, "Consider scheduling follow-up meetings for unresolved topics", recs.ActionSuggestions[1])
}

func TestGenerateRecommendationsActionThemeDetectedEvenWhenSelfOnly(t *testing.T) {
	// 动作项主题只命中当前会议：不产生相关主题条目，但建议仍然附加
	insights := map[string]ThemeResult{
		"Action Items": {Insights: []MeetingInsight{{MeetingID: 1}}},
	}

	recs := GenerateRecommendations(1, "Standup", nil, insights)

	assert.Empty(t, recs.RelatedTopics)
	assert.Len(t, recs.ActionSuggestions, 2)
}
