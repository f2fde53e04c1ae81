package model

import "time"

// 可翻译的内容类型。
const (
	TranslateContentSummary    = "summary"
	TranslateContentTranscript = "transcript"
)

// Translation 对应于数据库中的 translations 表，
// 缓存某次会议内容在某个目标语言下的翻译结果。
type Translation struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MeetingID      uint      `gorm:"not null;index:idx_meeting_lang" json:"meetingId"`
	ContentType    string    `gorm:"type:varchar(30);not null;index:idx_meeting_lang" json:"contentType"`
	TargetLanguage string    `gorm:"type:varchar(10);not null;index:idx_meeting_lang" json:"targetLanguage"`
	LanguageName   string    `gorm:"type:varchar(50)" json:"languageName"`
	NativeName     string    `gorm:"type:varchar(50)" json:"nativeName"`
	OriginalText   string    `gorm:"type:longtext" json:"-"`
	TranslatedText string    `gorm:"type:longtext" json:"translatedText"`
	OriginalLength int       `json:"originalLength"`
	TranslatedLen  int       `gorm:"column:translated_length" json:"translatedLength"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Translation) TableName() string {
	return "translations"
}
