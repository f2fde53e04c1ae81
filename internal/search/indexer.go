package search

import (
	"context"
	"fmt"
	"strings"

	"meetmind-go/pkg/log"
)

// IndexMeeting 将一次会议的转写与摘要加工为可检索的分块记录。
// 转写文本按句子边界分块，每块生成一条 transcription 记录；摘要非空时
// 追加恰好一条 summary 记录（chunk_index 固定为 0）。送入 Embedding 的
// 是标题增强文本，原始分块另行保留用于展示。
//
// 全部增强文本通过一次批量 Embedding 调用向量化（禁止逐块调用），
// 返回的向量按位置回填。网关失败时返回空结果与错误——不允许出现
// 缺向量的记录被持久化。
func (e *Engine) IndexMeeting(ctx context.Context, meetingID uint, transcript, title, summary string) ([]ChunkRecord, error) {
	var records []ChunkRecord

	chunks := ChunkText(transcript, e.cfg.ChunkSize)
	for i, chunk := range chunks {
		records = append(records, ChunkRecord{
			MeetingID:    meetingID,
			ChunkType:    ChunkTypeTranscription,
			ChunkIndex:   i,
			Text:         chunk,
			EnhancedText: fmt.Sprintf(e.cfg.ContentTemplate, title, chunk),
			Metadata:     Metadata{Title: title, Type: ChunkTypeTranscription},
		})
	}

	if strings.TrimSpace(summary) != "" {
		records = append(records, ChunkRecord{
			MeetingID:    meetingID,
			ChunkType:    ChunkTypeSummary,
			ChunkIndex:   0,
			Text:         summary,
			EnhancedText: fmt.Sprintf(e.cfg.SummaryTemplate, title, summary),
			Metadata:     Metadata{Title: title, Type: ChunkTypeSummary},
		})
	}

	if len(records) == 0 {
		log.Warnf("[SearchEngine] 会议 %d 没有可索引的内容", meetingID)
		return nil, nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.EnhancedText
	}

	vectors, err := e.embedder.CreateEmbeddings(ctx, texts)
	if err != nil {
		log.Errorf("[SearchEngine] 会议 %d 批量向量化失败: %v", meetingID, err)
		return nil, fmt.Errorf("批量向量化失败: %w", err)
	}
	if len(vectors) != len(records) {
		return nil, fmt.Errorf("向量数量与分块数量不一致: %d != %d", len(vectors), len(records))
	}

	for i := range records {
		records[i].Vector = vectors[i]
	}
	log.Infof("[SearchEngine] 会议 %d 索引完成, 共 %d 个分块", meetingID, len(records))
	return records, nil
}
