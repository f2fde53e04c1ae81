package search

import (
	"context"
	"sort"

	"meetmind-go/pkg/log"
)

// DiscoverInsights 以固定主题集合为查询，在整个语料上聚合跨会议洞察。
// 每个主题独立执行一次检索（topK=15, threshold=0.6），命中结果按会议
// 分组并累加相似度，每主题保留总分最高的 8 个会议。
//
// 主题之间互相隔离：某个主题的检索失败只会让该主题得到携带错误的
// 空结果，其余主题照常进行，整个调用始终成功返回。
func (e *Engine) DiscoverInsights(ctx context.Context, corpus []ChunkRecord, themes []string) map[string]ThemeResult {
	if len(themes) == 0 {
		themes = e.cfg.InsightThemes
	}

	insights := make(map[string]ThemeResult, len(themes))
	for _, theme := range themes {
		results, err := e.Search(ctx, theme, corpus, insightTopK, insightThreshold)
		if err != nil {
			log.Warnf("[SearchEngine] 主题 '%s' 检索失败, 该主题返回空结果: %v", theme, err)
			insights[theme] = ThemeResult{Insights: []MeetingInsight{}, Err: err}
			continue
		}
		insights[theme] = ThemeResult{Insights: aggregateByMeeting(results)}
	}
	return insights
}

// aggregateByMeeting 将一个主题的命中结果按会议分组聚合。
func aggregateByMeeting(results []SimilarityResult) []MeetingInsight {
	groups := make(map[uint]*MeetingInsight)
	var order []uint

	for _, result := range results {
		group, ok := groups[result.MeetingID]
		if !ok {
			group = &MeetingInsight{
				MeetingID: result.MeetingID,
				Title:     result.Metadata.Title,
			}
			groups[result.MeetingID] = group
			order = append(order, result.MeetingID)
		}
		group.TotalSimilarity += result.Similarity
		group.RelevantChunks = append(group.RelevantChunks, ChunkPreview{
			Text:       truncate(result.Text, previewMaxLen),
			Similarity: result.Similarity,
			Type:       result.ChunkType,
		})
	}

	aggregated := make([]MeetingInsight, 0, len(order))
	for _, mid := range order {
		aggregated = append(aggregated, *groups[mid])
	}

	sort.SliceStable(aggregated, func(i, j int) bool {
		return aggregated[i].TotalSimilarity > aggregated[j].TotalSimilarity
	})

	if len(aggregated) > insightMaxPerTheme {
		aggregated = aggregated[:insightMaxPerTheme]
	}
	return aggregated
}

// truncate 将超长文本截断到 limit 个字符并追加省略号。
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
