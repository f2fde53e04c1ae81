package model

import "time"

// 视觉资产类型的枚举值。
const (
	VisualTypeSummary     = "summary"
	VisualTypeActionItems = "action_items"
	VisualTypeDecisions   = "decisions"
)

// VisualAsset 对应于数据库中的 visual_assets 表，
// 保存为会议生成的可视化图像的元数据。图像字节存放在 MinIO。
type VisualAsset struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MeetingID     uint      `gorm:"not null;index" json:"meetingId"`
	VisualType    string    `gorm:"type:varchar(30);not null" json:"visualType"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	ImageURL      string    `gorm:"type:varchar(1024);not null" json:"imageUrl"`
	ObjectName    string    `gorm:"type:varchar(255)" json:"-"` // MinIO 中的对象名（已下载时）
	PromptUsed    string    `gorm:"type:text" json:"-"`
	RevisedPrompt string    `gorm:"type:text" json:"-"`
	Style         string    `gorm:"type:varchar(50)" json:"style"`
	ImageSize     string    `gorm:"type:varchar(20)" json:"imageSize"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (VisualAsset) TableName() string {
	return "visual_assets"
}
