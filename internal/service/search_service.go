// Package service 提供了检索相关的业务逻辑。
package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"meetmind-go/internal/config"
	"meetmind-go/internal/model"
	"meetmind-go/internal/repository"
	"meetmind-go/internal/search"
	"meetmind-go/pkg/es"
	"meetmind-go/pkg/log"
)

// 检索方式标识，随响应返回给前端。
const (
	SearchTypeSemantic = "semantic"
	SearchTypeKeyword  = "keyword"
)

// SearchResultDTO 是一条检索命中，补充了会议标题。
type SearchResultDTO struct {
	MeetingID  uint    `json:"meetingId"`
	Title      string  `json:"title"`
	ChunkType  string  `json:"chunkType"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity,omitempty"`
}

// SemanticSearchResponse 是一次检索的完整响应。
type SemanticSearchResponse struct {
	Query      string            `json:"query"`
	SearchType string            `json:"searchType"`
	Results    []SearchResultDTO `json:"results"`
}

// SimilarMeetingDTO 在引擎结果上补充了会议标题。
type SimilarMeetingDTO struct {
	MeetingID  uint    `json:"meetingId"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	MatchCount int     `json:"matchCount"`
}

// ThemeResultDTO 是单个洞察主题的响应形态：成功时携带聚合条目，
// 失败时 Error 字段说明原因，其余主题不受影响。
type ThemeResultDTO struct {
	Insights []search.MeetingInsight `json:"insights"`
	Error    string                  `json:"error,omitempty"`
}

// SimilarMeetingsResponse 聚合了相似会议、跨会议洞察与推荐。
type SimilarMeetingsResponse struct {
	MeetingID       uint                      `json:"meetingId"`
	Title           string                    `json:"title"`
	SimilarMeetings []SimilarMeetingDTO       `json:"similarMeetings"`
	Insights        map[string]ThemeResultDTO `json:"insights"`
	Recommendations search.Recommendations    `json:"recommendations"`
}

// SearchService 接口定义了语义检索与跨会议洞察操作。
type SearchService interface {
	SemanticSearch(ctx context.Context, ownerID uint, query string, topK int, threshold float64) (*SemanticSearchResponse, error)
	SimilarMeetings(ctx context.Context, ownerID, meetingID uint) (*SimilarMeetingsResponse, error)
	DiscoverInsights(ctx context.Context, ownerID uint, themes []string) (map[string]ThemeResultDTO, error)
	ReindexMeeting(ctx context.Context, ownerID, meetingID uint) (int, error)
	ReindexAll(ctx context.Context, ownerID uint) (int, error)
}

type searchService struct {
	engine      *search.Engine
	meetingRepo repository.MeetingRepository
	chunkRepo   repository.ChunkRepository
	esCfg       config.ElasticsearchConfig
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(
	engine *search.Engine,
	meetingRepo repository.MeetingRepository,
	chunkRepo repository.ChunkRepository,
	esCfg config.ElasticsearchConfig,
) SearchService {
	return &searchService{
		engine:      engine,
		meetingRepo: meetingRepo,
		chunkRepo:   chunkRepo,
		esCfg:       esCfg,
	}
}

// SemanticSearch 在用户的会议语料上执行语义检索。
// Embedding 网关不可用时退化为 Elasticsearch 关键词检索，
// 保证检索入口始终可用。
func (s *searchService) SemanticSearch(ctx context.Context, ownerID uint, query string, topK int, threshold float64) (*SemanticSearchResponse, error) {
	log.Infof("[SearchService] 开始语义检索, query: '%s', topK: %d, ownerID: %d", query, topK, ownerID)

	corpus, titles, err := s.loadCorpus(ownerID)
	if err != nil {
		return nil, fmt.Errorf("加载检索语料失败: %w", err)
	}
	log.Infof("[SearchService] 语料加载完成, 共 %d 个分块", len(corpus))

	results, err := s.engine.Search(ctx, query, corpus, topK, threshold)
	if err != nil {
		log.Warnf("[SearchService] 语义检索失败, 退化为关键词检索: %v", err)
		return s.keywordFallback(ctx, ownerID, query, topK)
	}

	dtos := make([]SearchResultDTO, 0, len(results))
	for _, r := range results {
		dtos = append(dtos, SearchResultDTO{
			MeetingID:  r.MeetingID,
			Title:      titles[r.MeetingID],
			ChunkType:  r.ChunkType,
			Text:       r.Text,
			Similarity: r.Similarity,
		})
	}
	return &SemanticSearchResponse{
		Query:      query,
		SearchType: SearchTypeSemantic,
		Results:    dtos,
	}, nil
}

// keywordFallback 对会议标题与转写全文执行 ES 关键词检索。
func (s *searchService) keywordFallback(ctx context.Context, ownerID uint, query string, topK int) (*SemanticSearchResponse, error) {
	hits, err := es.SearchText(ctx, s.esCfg.IndexName, query, topK)
	if err != nil {
		return nil, fmt.Errorf("关键词兜底检索失败: %w", err)
	}

	dtos := make([]SearchResultDTO, 0, len(hits))
	for _, hit := range hits {
		if hit.OwnerID != ownerID {
			continue
		}
		text := hit.Summary
		if text == "" {
			text = hit.Transcript
		}
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		dtos = append(dtos, SearchResultDTO{
			MeetingID: hit.MeetingID,
			Title:     hit.Title,
			ChunkType: search.ChunkTypeTranscription,
			Text:      text,
		})
	}
	return &SemanticSearchResponse{
		Query:      query,
		SearchType: SearchTypeKeyword,
		Results:    dtos,
	}, nil
}

// SimilarMeetings 为目标会议计算相似会议、跨会议洞察与推荐。
// 整个计算不触发 Embedding 调用：质心相似度使用已落库的向量，
// 洞察主题检索失败时按主题隔离，不影响整体响应。
func (s *searchService) SimilarMeetings(ctx context.Context, ownerID, meetingID uint) (*SimilarMeetingsResponse, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("会议不存在: %d", meetingID)
		}
		return nil, err
	}
	if meeting.OwnerID != ownerID {
		return nil, ErrMeetingNotOwned
	}

	chunks, err := s.chunkRepo.FindByMeetingID(meetingID)
	if err != nil {
		return nil, fmt.Errorf("加载会议分块失败: %w", err)
	}
	meetingRecords := toRecords(chunks)

	corpus, titles, err := s.loadCorpus(ownerID)
	if err != nil {
		return nil, fmt.Errorf("加载检索语料失败: %w", err)
	}

	similar := s.engine.FindSimilarMeetings(meetingID, meetingRecords, corpus, s.engine.SimilarTopK())
	insights := s.engine.DiscoverInsights(ctx, corpus, nil)
	recommendations := search.GenerateRecommendations(meetingID, meeting.Title, similar, insights)

	similarDTOs := make([]SimilarMeetingDTO, 0, len(similar))
	for _, m := range similar {
		similarDTOs = append(similarDTOs, SimilarMeetingDTO{
			MeetingID:  m.MeetingID,
			Title:      titles[m.MeetingID],
			Similarity: m.Similarity,
			MatchCount: m.MatchCount,
		})
	}

	return &SimilarMeetingsResponse{
		MeetingID:       meetingID,
		Title:           meeting.Title,
		SimilarMeetings: similarDTOs,
		Insights:        toThemeDTOs(insights),
		Recommendations: recommendations,
	}, nil
}

// DiscoverInsights 在用户的全部语料上执行跨会议主题洞察。
// themes 为空时使用配置的默认主题集。
func (s *searchService) DiscoverInsights(ctx context.Context, ownerID uint, themes []string) (map[string]ThemeResultDTO, error) {
	corpus, _, err := s.loadCorpus(ownerID)
	if err != nil {
		return nil, fmt.Errorf("加载检索语料失败: %w", err)
	}
	log.Infof("[SearchService] 开始跨会议洞察, 语料 %d 个分块, %d 个主题", len(corpus), len(themes))
	return toThemeDTOs(s.engine.DiscoverInsights(ctx, corpus, themes)), nil
}

// ReindexMeeting 对单个会议重建语义索引，返回重建后的分块数。
// 要求会议归当前用户所有且已有转写记录。
func (s *searchService) ReindexMeeting(ctx context.Context, ownerID, meetingID uint) (int, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		return 0, err
	}
	if meeting.OwnerID != ownerID {
		return 0, ErrMeetingNotOwned
	}
	return s.reindexMeeting(ctx, meeting)
}

// ReindexAll 对用户全部已分析的会议重建语义索引。
// 每次会议的分块在单个事务内整体替换，重建期间语料保持可检索。
func (s *searchService) ReindexAll(ctx context.Context, ownerID uint) (int, error) {
	meetings, err := s.meetingRepo.FindByOwner(ownerID)
	if err != nil {
		return 0, fmt.Errorf("加载会议列表失败: %w", err)
	}

	count := 0
	for i := range meetings {
		meeting := &meetings[i]
		if meeting.Status != model.MeetingStatusAnalyzed {
			continue
		}
		if _, err := s.reindexMeeting(ctx, meeting); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warnf("[SearchService] 重建索引跳过会议 %d: 无转写记录", meeting.ID)
				continue
			}
			return count, err
		}
		count++
	}
	return count, nil
}

// reindexMeeting 重建单个会议的分块并原子替换，返回新分块数。
func (s *searchService) reindexMeeting(ctx context.Context, meeting *model.Meeting) (int, error) {
	tr, err := s.meetingRepo.FindTranscription(meeting.ID)
	if err != nil {
		return 0, fmt.Errorf("会议 %d 无转写记录: %w", meeting.ID, err)
	}
	summaryText := ""
	if summary, err := s.meetingRepo.FindSummary(meeting.ID); err == nil {
		summaryText = summary.Summary
	}

	records, err := s.engine.IndexMeeting(ctx, meeting.ID, tr.FullText, meeting.Title, summaryText)
	if err != nil {
		return 0, fmt.Errorf("会议 %d 重建索引失败: %w", meeting.ID, err)
	}

	newChunks := make([]*model.MeetingChunk, 0, len(records))
	for _, record := range records {
		chunk, err := model.NewMeetingChunk(record, config.Conf.Embedding.Model)
		if err != nil {
			return 0, fmt.Errorf("会议 %d 序列化分块失败: %w", meeting.ID, err)
		}
		newChunks = append(newChunks, chunk)
	}
	if err := s.chunkRepo.ReplaceMeetingChunks(meeting.ID, newChunks); err != nil {
		return 0, fmt.Errorf("会议 %d 替换分块失败: %w", meeting.ID, err)
	}
	log.Infof("[SearchService] 会议 %d 重建索引完成, %d 个分块", meeting.ID, len(newChunks))
	return len(newChunks), nil
}

// loadCorpus 加载用户的语义语料并构建会议标题映射。
func (s *searchService) loadCorpus(ownerID uint) ([]search.ChunkRecord, map[uint]string, error) {
	chunks, err := s.chunkRepo.LoadCorpusForOwner(ownerID)
	if err != nil {
		return nil, nil, err
	}

	titles := make(map[uint]string)
	for _, c := range chunks {
		if _, ok := titles[c.MeetingID]; !ok {
			titles[c.MeetingID] = c.Title
		}
	}
	return toRecords(chunks), titles, nil
}

// toRecords 将数据库分块行转换为引擎语料，向量损坏的行跳过。
func toRecords(chunks []model.MeetingChunk) []search.ChunkRecord {
	records := make([]search.ChunkRecord, 0, len(chunks))
	for i := range chunks {
		record, err := chunks[i].ToRecord()
		if err != nil {
			log.Warnf("[SearchService] 分块 %d 向量解码失败, 已跳过: %v", chunks[i].ID, err)
			continue
		}
		records = append(records, record)
	}
	return records
}

// toThemeDTOs 将引擎的主题结果转换为响应形态。
func toThemeDTOs(results map[string]search.ThemeResult) map[string]ThemeResultDTO {
	dtos := make(map[string]ThemeResultDTO, len(results))
	for theme, result := range results {
		dto := ThemeResultDTO{Insights: result.Insights}
		if result.Err != nil {
			dto.Error = result.Err.Error()
		}
		dtos[theme] = dto
	}
	return dtos
}
