// Package search 实现了会议语义检索与跨会议洞察引擎。
// 向量相似度排序在应用内完成，语料由持久层以完整快照的方式提供。
package search

// 分块类型枚举。一次会议的语料由转写分块与至多一条摘要分块组成。
const (
	ChunkTypeTranscription = "transcription"
	ChunkTypeSummary       = "summary"
)

// Metadata 是分块携带的冗余展示信息，仅作显示用途，不是数据源。
type Metadata struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// ChunkRecord 是语料库中的一条已索引分块。
// Text 保存原始分块内容用于展示，EnhancedText 是送入 Embedding 的
// 标题增强文本，Vector 与 EnhancedText 一一对应。
type ChunkRecord struct {
	MeetingID    uint      `json:"meetingId"`
	ChunkType    string    `json:"chunkType"`
	ChunkIndex   int       `json:"chunkIndex"`
	Text         string    `json:"text"`
	EnhancedText string    `json:"-"`
	Vector       []float32 `json:"-"`
	Metadata     Metadata  `json:"metadata"`
}

// SimilarityResult 是一次语义检索的单条命中结果，按需计算，从不落库。
type SimilarityResult struct {
	MeetingID  uint     `json:"meetingId"`
	ChunkType  string   `json:"chunkType"`
	ChunkIndex int      `json:"chunkIndex"`
	Text       string   `json:"text"`
	Similarity float64  `json:"similarity"`
	Metadata   Metadata `json:"metadata"`
}

// SimilarMeeting 描述一个与目标会议相似的会议。
// Similarity 是该会议所有分块与目标会议质心相似度的平均值，
// MatchCount 是参与计算的分块数。
type SimilarMeeting struct {
	MeetingID  uint    `json:"meetingId"`
	Similarity float64 `json:"similarity"`
	MatchCount int     `json:"matchCount"`
}

// ChunkPreview 是洞察结果中截断后的分块摘录。
type ChunkPreview struct {
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
	Type       string  `json:"type"`
}

// MeetingInsight 是单个主题下按会议聚合的洞察条目。
// TotalSimilarity 为该会议所有命中分块相似度之和：多个中等相关的
// 分块应当胜过单个高相关分块。
type MeetingInsight struct {
	MeetingID       uint           `json:"meetingId"`
	TotalSimilarity float64        `json:"totalSimilarity"`
	RelevantChunks  []ChunkPreview `json:"relevantChunks"`
	Title           string         `json:"title"`
}

// ThemeResult 是单个主题的检索结果：成功时携带聚合列表，
// 失败时携带原因。聚合器用它做主题级的失败隔离。
type ThemeResult struct {
	Insights []MeetingInsight `json:"insights"`
	Err      error            `json:"-"`
}

// RelatedTopic 是推荐结果中与目标会议相关的主题条目。
type RelatedTopic struct {
	Theme               string `json:"theme"`
	RelatedMeetingCount int    `json:"relatedMeetingsCount"`
	TopMeetingID        uint   `json:"topMeetingId"`
}

// RecommendedMeeting 是推荐结果中格式化后的相似会议条目。
type RecommendedMeeting struct {
	MeetingID       uint    `json:"meetingId"`
	SimilarityScore float64 `json:"similarityScore"`
	Reason          string  `json:"reason"`
}

// Recommendations 是基于相似会议与跨会议洞察拼装的推荐汇总。
type Recommendations struct {
	SimilarMeetings   []RecommendedMeeting `json:"similarMeetings"`
	RelatedTopics     []RelatedTopic       `json:"relatedTopics"`
	ActionSuggestions []string             `json:"actionSuggestions"`
	FollowUpMeetings  []string             `json:"followUpMeetings"`
}
