package repository

import (
	"time"

	"gorm.io/gorm"
	"meetmind-go/internal/model"
)

// MeetingRepository 定义了会议及其衍生内容（转录、摘要、洞察）的持久化操作。
type MeetingRepository interface {
	Create(meeting *model.Meeting) error
	FindByID(meetingID uint) (*model.Meeting, error)
	FindByOwner(ownerID uint) ([]model.Meeting, error)
	FindByStatus(status string) ([]model.Meeting, error)
	UpdateStatus(meetingID uint, status string) error
	MarkTranscribed(meetingID uint, duration float64) error
	Delete(meetingID uint) error

	SaveTranscription(tr *model.Transcription) error
	FindTranscription(meetingID uint) (*model.Transcription, error)

	SaveSummary(summary *model.MeetingSummary) error
	FindSummary(meetingID uint) (*model.MeetingSummary, error)

	SaveInsight(insight *model.MeetingInsight) error
	FindInsight(meetingID uint) (*model.MeetingInsight, error)
}

type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository 创建一个新的 MeetingRepository 实例。
func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &meetingRepository{db: db}
}

// Create 在数据库中创建一条新的会议记录。
func (r *meetingRepository) Create(meeting *model.Meeting) error {
	return r.db.Create(meeting).Error
}

// FindByID 根据 ID 查找会议。
func (r *meetingRepository) FindByID(meetingID uint) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.db.First(&meeting, meetingID).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// FindByOwner 查找某个用户的全部会议，按上传时间倒序。
func (r *meetingRepository) FindByOwner(ownerID uint) ([]model.Meeting, error) {
	var meetings []model.Meeting
	err := r.db.Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC").
		Find(&meetings).Error
	return meetings, err
}

// FindByStatus 查找处于指定状态的全部会议。
func (r *meetingRepository) FindByStatus(status string) ([]model.Meeting, error) {
	var meetings []model.Meeting
	err := r.db.Where("status = ?", status).Find(&meetings).Error
	return meetings, err
}

// UpdateStatus 更新会议的处理状态。
func (r *meetingRepository) UpdateStatus(meetingID uint, status string) error {
	return r.db.Model(&model.Meeting{}).
		Where("id = ?", meetingID).
		Update("status", status).Error
}

// MarkTranscribed 将会议标记为已转录并记录音频时长。
func (r *meetingRepository) MarkTranscribed(meetingID uint, duration float64) error {
	now := time.Now()
	return r.db.Model(&model.Meeting{}).
		Where("id = ?", meetingID).
		Updates(map[string]interface{}{
			"status":         model.MeetingStatusTranscribed,
			"duration":       duration,
			"transcribed_at": &now,
		}).Error
}

// Delete 删除会议及其衍生记录（转录、摘要、洞察）。
// 分块由 ChunkRepository 单独删除，ES 文档与对象存储由服务层负责清理。
func (r *meetingRepository) Delete(meetingID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&model.Transcription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&model.MeetingSummary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&model.MeetingInsight{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Meeting{}, meetingID).Error
	})
}

// SaveTranscription 保存（或覆盖）某次会议的转录结果。
func (r *meetingRepository) SaveTranscription(tr *model.Transcription) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", tr.MeetingID).Delete(&model.Transcription{}).Error; err != nil {
			return err
		}
		return tx.Create(tr).Error
	})
}

// FindTranscription 查找某次会议的转录结果。
func (r *meetingRepository) FindTranscription(meetingID uint) (*model.Transcription, error) {
	var tr model.Transcription
	err := r.db.Where("meeting_id = ?", meetingID).First(&tr).Error
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// SaveSummary 保存（或覆盖）某次会议的分析摘要。
func (r *meetingRepository) SaveSummary(summary *model.MeetingSummary) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", summary.MeetingID).Delete(&model.MeetingSummary{}).Error; err != nil {
			return err
		}
		return tx.Create(summary).Error
	})
}

// FindSummary 查找某次会议的分析摘要。
func (r *meetingRepository) FindSummary(meetingID uint) (*model.MeetingSummary, error) {
	var summary model.MeetingSummary
	err := r.db.Where("meeting_id = ?", meetingID).First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// SaveInsight 保存（或覆盖）某次会议的效率洞察。
func (r *meetingRepository) SaveInsight(insight *model.MeetingInsight) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", insight.MeetingID).Delete(&model.MeetingInsight{}).Error; err != nil {
			return err
		}
		return tx.Create(insight).Error
	})
}

// FindInsight 查找某次会议的效率洞察。
func (r *meetingRepository) FindInsight(meetingID uint) (*model.MeetingInsight, error) {
	var insight model.MeetingInsight
	err := r.db.Where("meeting_id = ?", meetingID).First(&insight).Error
	if err != nil {
		return nil, err
	}
	return &insight, nil
}
