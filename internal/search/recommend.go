package search

import (
	"fmt"
	"sort"
	"strings"
)

// 出现动作项相关主题时追加的固定建议。
var actionSuggestions = []string{
	"Review action items from similar meetings to ensure consistency",
	"Consider scheduling follow-up meetings for unresolved topics",
}

// GenerateRecommendations 将相似会议与跨会议洞察拼装为推荐汇总。
// 这里只做上游结果的重整，不做任何新的数值计算；空输入产生空输出，
// 没有其他失败模式。
func GenerateRecommendations(meetingID uint, title string, similar []SimilarMeeting, insights map[string]ThemeResult) Recommendations {
	recommendations := Recommendations{
		SimilarMeetings:   []RecommendedMeeting{},
		RelatedTopics:     []RelatedTopic{},
		ActionSuggestions: []string{},
		FollowUpMeetings:  []string{},
	}

	for i, meeting := range similar {
		if i >= 3 {
			break
		}
		recommendations.SimilarMeetings = append(recommendations.SimilarMeetings, RecommendedMeeting{
			MeetingID:       meeting.MeetingID,
			SimilarityScore: meeting.Similarity,
			Reason:          fmt.Sprintf("Similar content and topics discussed (%.1f%% match)", meeting.Similarity*100),
		})
	}

	// map 遍历顺序随机，先对主题名排序保证输出稳定。
	themes := make([]string, 0, len(insights))
	for theme := range insights {
		themes = append(themes, theme)
	}
	sort.Strings(themes)

	hasActionTheme := false
	for _, theme := range themes {
		result := insights[theme]
		if strings.Contains(strings.ToLower(theme), "action") {
			hasActionTheme = true
		}
		var others []MeetingInsight
		for _, insight := range result.Insights {
			if insight.MeetingID != meetingID {
				others = append(others, insight)
			}
		}
		if len(others) == 0 {
			continue
		}
		recommendations.RelatedTopics = append(recommendations.RelatedTopics, RelatedTopic{
			Theme:               theme,
			RelatedMeetingCount: len(others),
			TopMeetingID:        others[0].MeetingID,
		})
	}

	if hasActionTheme {
		recommendations.ActionSuggestions = append(recommendations.ActionSuggestions, actionSuggestions...)
	}
	return recommendations
}
