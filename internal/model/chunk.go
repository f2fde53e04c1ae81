package model

import (
	"encoding/json"
	"time"

	"meetmind-go/internal/search"
)

// MeetingChunk 对应于数据库中的 meeting_chunks 表。
// 它是语义检索语料的持久化形态：Vector 以 JSON 字符串形式保存，
// 读取时反序列化为 []float32。一个会议的分块集合在重建索引时整体替换。
type MeetingChunk struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MeetingID    uint      `gorm:"not null;index" json:"meetingId"`
	ChunkType    string    `gorm:"type:varchar(20);not null" json:"chunkType"`
	ChunkIndex   int       `gorm:"not null" json:"chunkIndex"`
	Text         string    `gorm:"type:longtext;not null" json:"text"`
	EnhancedText string    `gorm:"type:longtext" json:"-"`
	Vector       string    `gorm:"type:longtext;not null" json:"-"`
	Title        string    `gorm:"type:varchar(255)" json:"title"`
	ModelVersion string    `gorm:"type:varchar(50)" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (MeetingChunk) TableName() string {
	return "meeting_chunks"
}

// ToRecord 将数据库行转换为检索引擎使用的语料记录。
func (c *MeetingChunk) ToRecord() (search.ChunkRecord, error) {
	var vector []float32
	if err := json.Unmarshal([]byte(c.Vector), &vector); err != nil {
		return search.ChunkRecord{}, err
	}
	return search.ChunkRecord{
		MeetingID:    c.MeetingID,
		ChunkType:    c.ChunkType,
		ChunkIndex:   c.ChunkIndex,
		Text:         c.Text,
		EnhancedText: c.EnhancedText,
		Vector:       vector,
		Metadata:     search.Metadata{Title: c.Title, Type: c.ChunkType},
	}, nil
}

// NewMeetingChunk 将检索引擎产出的语料记录转换为数据库行。
func NewMeetingChunk(record search.ChunkRecord, modelVersion string) (*MeetingChunk, error) {
	vectorBytes, err := json.Marshal(record.Vector)
	if err != nil {
		return nil, err
	}
	return &MeetingChunk{
		MeetingID:    record.MeetingID,
		ChunkType:    record.ChunkType,
		ChunkIndex:   record.ChunkIndex,
		Text:         record.Text,
		EnhancedText: record.EnhancedText,
		Vector:       string(vectorBytes),
		Title:        record.Metadata.Title,
		ModelVersion: modelVersion,
	}, nil
}
