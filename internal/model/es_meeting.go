package model

// EsMeeting 定义了存储在 Elasticsearch 中的会议文本文档结构。
// 它只用于关键词兜底检索，不携带向量。
type EsMeeting struct {
	MeetingID  uint   `json:"meeting_id"`
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
	OwnerID    uint   `json:"owner_id"`
}

// EsMeetingHit 是一次关键词检索的单条命中结果。
type EsMeetingHit struct {
	EsMeeting
	Score float64 `json:"score"`
}
