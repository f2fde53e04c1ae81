package search

import (
	"context"
	"fmt"
	"sort"

	"meetmind-go/pkg/embedding"
	"meetmind-go/pkg/log"
)

// 引擎参数的默认值，与配置缺省时保持一致。
const (
	DefaultChunkSize           = 1000
	DefaultTopK                = 10
	DefaultSimilarityThreshold = 0.7
	DefaultSimilarTopK         = 5

	insightTopK        = 15
	insightThreshold   = 0.6
	insightMaxPerTheme = 8
	previewMaxLen      = 200
)

// 索引阶段的标题增强模板缺省值。查询侧刻意不做增强（与原始行为保持不对称）。
const (
	defaultContentTemplate = "Meeting: %s\n\nContent: %s"
	defaultSummaryTemplate = "Meeting: %s\n\nSummary: %s"
)

// DefaultThemes 是跨会议洞察的缺省主题集合。
// 它们是通用的观察“透镜”，并不保证与每个会议集合都相关。
var DefaultThemes = []string{
	"action items and follow-ups",
	"key decisions and outcomes",
	"challenges and problems discussed",
	"project updates and status",
	"team collaboration and communication",
}

// Config 汇总引擎的全部可调参数。零值字段在 NewEngine 中回填默认值，
// 因此调用方只需设置关心的项。
type Config struct {
	ChunkSize           int
	TopK                int
	SimilarityThreshold float64
	SimilarTopK         int
	ContentTemplate     string
	SummaryTemplate     string
	InsightThemes       []string
}

// Engine 是语义检索引擎。它只持有配置与 Embedding 客户端，
// 不在调用之间保留任何可变状态；语料由调用方以快照传入。
type Engine struct {
	cfg      Config
	embedder embedding.Client
}

// NewEngine 创建一个新的 Engine 实例，并为未设置的配置项回填默认值。
func NewEngine(cfg Config, embedder embedding.Client) *Engine {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.SimilarTopK <= 0 {
		cfg.SimilarTopK = DefaultSimilarTopK
	}
	if cfg.ContentTemplate == "" {
		cfg.ContentTemplate = defaultContentTemplate
	}
	if cfg.SummaryTemplate == "" {
		cfg.SummaryTemplate = defaultSummaryTemplate
	}
	if len(cfg.InsightThemes) == 0 {
		cfg.InsightThemes = DefaultThemes
	}
	return &Engine{cfg: cfg, embedder: embedder}
}

// ChunkSize 返回引擎生效的分块大小。
func (e *Engine) ChunkSize() int { return e.cfg.ChunkSize }

// TopK 返回引擎生效的默认返回条数。
func (e *Engine) TopK() int { return e.cfg.TopK }

// SimilarTopK 返回相似会议查找的默认返回条数。
func (e *Engine) SimilarTopK() int { return e.cfg.SimilarTopK }

// Themes 返回引擎生效的洞察主题集合。
func (e *Engine) Themes() []string { return e.cfg.InsightThemes }

// Search 在语料快照上执行一次语义检索。
// 查询文本经单次 Embedding 调用向量化；所有分块按余弦相似度排序，
// 低于 threshold 的被过滤，相同分值按语料原始顺序稳定排列，
// 因此相同的 (query, corpus, topK, threshold) 必得相同输出。
// Embedding 网关失败时整个检索以错误终止，不提供部分排序结果。
func (e *Engine) Search(ctx context.Context, query string, corpus []ChunkRecord, topK int, threshold float64) ([]SimilarityResult, error) {
	if topK <= 0 {
		topK = e.cfg.TopK
	}
	if threshold <= 0 {
		threshold = e.cfg.SimilarityThreshold
	}

	vectors, err := e.embedder.CreateEmbeddings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("向量化查询失败: %w", err)
	}
	queryVector := vectors[0]

	results := make([]SimilarityResult, 0, len(corpus))
	for _, record := range corpus {
		similarity := CosineSimilarity(queryVector, record.Vector)
		if similarity < threshold {
			continue
		}
		results = append(results, SimilarityResult{
			MeetingID:  record.MeetingID,
			ChunkType:  record.ChunkType,
			ChunkIndex: record.ChunkIndex,
			Text:       record.Text,
			Similarity: similarity,
			Metadata:   record.Metadata,
		})
	}

	// 稳定排序：分值相同的结果保持语料原始顺序，保证输出确定性。
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topK {
		results = results[:topK]
	}
	log.Infof("[SearchEngine] 检索完成, query: '%s', 语料 %d 块, 命中 %d 条", query, len(corpus), len(results))
	return results, nil
}
