package repository

import (
	"gorm.io/gorm"
	"meetmind-go/internal/model"
)

// TranslationRepository 定义了对 translations 表的数据操作接口。
// 翻译结果按 (会议, 内容类型, 目标语言) 缓存，避免重复调用 LLM。
type TranslationRepository interface {
	Create(tr *model.Translation) error
	Find(meetingID uint, contentType, targetLanguage string) (*model.Translation, error)
	FindByID(translationID uint) (*model.Translation, error)
	FindByMeetingID(meetingID uint) ([]model.Translation, error)
	DeleteByID(translationID uint) error
	DeleteByMeetingID(meetingID uint) error
}

type translationRepository struct {
	db *gorm.DB
}

// NewTranslationRepository 创建一个新的 TranslationRepository 实例。
func NewTranslationRepository(db *gorm.DB) TranslationRepository {
	return &translationRepository{db: db}
}

// Create 创建一条翻译缓存记录。
func (r *translationRepository) Create(tr *model.Translation) error {
	return r.db.Create(tr).Error
}

// Find 查找某次会议指定内容与目标语言的翻译记录。
func (r *translationRepository) Find(meetingID uint, contentType, targetLanguage string) (*model.Translation, error) {
	var tr model.Translation
	err := r.db.Where("meeting_id = ? AND content_type = ? AND target_language = ?",
		meetingID, contentType, targetLanguage).
		Order("created_at DESC").
		First(&tr).Error
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// FindByID 根据 ID 查找翻译记录。
func (r *translationRepository) FindByID(translationID uint) (*model.Translation, error) {
	var tr model.Translation
	err := r.db.First(&tr, translationID).Error
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// FindByMeetingID 查找某次会议的全部翻译记录。
func (r *translationRepository) FindByMeetingID(meetingID uint) ([]model.Translation, error) {
	var trs []model.Translation
	err := r.db.Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&trs).Error
	return trs, err
}

// DeleteByID 删除一条翻译记录。
func (r *translationRepository) DeleteByID(translationID uint) error {
	return r.db.Delete(&model.Translation{}, translationID).Error
}

// DeleteByMeetingID 删除某次会议的全部翻译记录。
func (r *translationRepository) DeleteByMeetingID(meetingID uint) error {
	return r.db.Where("meeting_id = ?", meetingID).Delete(&model.Translation{}).Error
}
