package search

import "sort"

// FindSimilarMeetings 查找与目标会议内容相似的其他会议。
// 目标会议的所有分块向量先聚合为一个质心，再与语料中每个其他会议的
// 单个分块向量逐一计算相似度——保留分块粒度是刻意的，MatchCount
// 因此能反映有多少个分块产生了共鸣。每个会议取其分块相似度的平均值
// 参与排序。
//
// meetingChunks 为空时返回空列表（而不是除零），目标会议自身永远
// 不会出现在结果中。该计算纯在本地完成，不触发 Embedding 调用。
func (e *Engine) FindSimilarMeetings(meetingID uint, meetingChunks, corpus []ChunkRecord, topK int) []SimilarMeeting {
	if topK <= 0 {
		topK = e.cfg.SimilarTopK
	}

	vectors := make([][]float32, 0, len(meetingChunks))
	for _, chunk := range meetingChunks {
		if chunk.MeetingID == meetingID {
			vectors = append(vectors, chunk.Vector)
		}
	}
	centroid := Centroid(vectors)
	if centroid == nil {
		return []SimilarMeeting{}
	}

	type accumulator struct {
		sum   float64
		count int
	}
	perMeeting := make(map[uint]*accumulator)
	var order []uint // 保持语料中会议首次出现的顺序，使并列分值的排序可复现

	for _, record := range corpus {
		if record.MeetingID == meetingID {
			continue
		}
		acc, ok := perMeeting[record.MeetingID]
		if !ok {
			acc = &accumulator{}
			perMeeting[record.MeetingID] = acc
			order = append(order, record.MeetingID)
		}
		acc.sum += CosineSimilarity(centroid, record.Vector)
		acc.count++
	}

	results := make([]SimilarMeeting, 0, len(order))
	for _, mid := range order {
		acc := perMeeting[mid]
		results = append(results, SimilarMeeting{
			MeetingID:  mid,
			Similarity: acc.sum / float64(acc.count),
			MatchCount: acc.count,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
