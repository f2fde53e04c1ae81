// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// 会议处理状态的枚举值。
const (
	MeetingStatusUploaded    = "uploaded"
	MeetingStatusProcessing  = "processing"
	MeetingStatusTranscribed = "transcribed"
	MeetingStatusAnalyzed    = "analyzed"
	MeetingStatusError       = "error"
)

// Meeting 定义了 meetings 表的 ORM 模型。
// 它记录了每个会议音频的元数据和处理状态。
type Meeting struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	FileName      string     `gorm:"type:varchar(255);not null" json:"fileName"`
	ObjectName    string     `gorm:"type:varchar(255);not null" json:"-"` // MinIO 中的对象名
	Duration      float64    `gorm:"default:0" json:"duration"`
	Status        string     `gorm:"type:varchar(20);not null;default:'uploaded'" json:"status"`
	OwnerID       uint       `gorm:"not null;index" json:"ownerId"`
	UploadedAt    time.Time  `gorm:"autoCreateTime" json:"uploadedAt"`
	TranscribedAt *time.Time `gorm:"default:null" json:"transcribedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Meeting) TableName() string {
	return "meetings"
}

// Transcription 对应于数据库中的 transcriptions 表。
// Segments 以 JSON 字符串形式保存带时间戳的片段。
type Transcription struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MeetingID uint      `gorm:"not null;index" json:"meetingId"`
	FullText  string    `gorm:"type:longtext;not null" json:"fullText"`
	Segments  string    `gorm:"type:longtext" json:"-"`
	Language  string    `gorm:"type:varchar(20)" json:"language"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Transcription) TableName() string {
	return "transcriptions"
}

// MeetingSummary 对应于数据库中的 meeting_summaries 表。
// ActionItems / Decisions / KeyTopics 以 JSON 字符串形式保存。
type MeetingSummary struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MeetingID   uint      `gorm:"not null;index" json:"meetingId"`
	Summary     string    `gorm:"type:longtext;not null" json:"summary"`
	ActionItems string    `gorm:"type:longtext" json:"actionItems"`
	Decisions   string    `gorm:"type:longtext" json:"decisions"`
	KeyTopics   string    `gorm:"type:longtext" json:"keyTopics"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (MeetingSummary) TableName() string {
	return "meeting_summaries"
}

// MeetingInsight 对应于数据库中的 meeting_insights 表，
// 保存 LLM 对会议效率的评估结果。
type MeetingInsight struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MeetingID          uint      `gorm:"not null;index" json:"meetingId"`
	EffectivenessScore int       `json:"effectivenessScore"`
	EffectivenessNotes string    `gorm:"type:text" json:"effectivenessNotes"`
	Recommendations    string    `gorm:"type:longtext" json:"recommendations"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (MeetingInsight) TableName() string {
	return "meeting_insights"
}
