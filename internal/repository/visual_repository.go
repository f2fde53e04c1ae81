package repository

import (
	"gorm.io/gorm"
	"meetmind-go/internal/model"
)

// VisualRepository 定义了对 visual_assets 表的数据操作接口。
type VisualRepository interface {
	Create(asset *model.VisualAsset) error
	FindByID(assetID uint) (*model.VisualAsset, error)
	FindByMeetingID(meetingID uint) ([]model.VisualAsset, error)
	FindByMeetingAndType(meetingID uint, visualType string) (*model.VisualAsset, error)
	DeleteByID(assetID uint) error
	DeleteByMeetingID(meetingID uint) error
}

type visualRepository struct {
	db *gorm.DB
}

// NewVisualRepository 创建一个新的 VisualRepository 实例。
func NewVisualRepository(db *gorm.DB) VisualRepository {
	return &visualRepository{db: db}
}

// Create 创建一条视觉资产记录。
func (r *visualRepository) Create(asset *model.VisualAsset) error {
	return r.db.Create(asset).Error
}

// FindByID 根据 ID 查找视觉资产。
func (r *visualRepository) FindByID(assetID uint) (*model.VisualAsset, error) {
	var asset model.VisualAsset
	err := r.db.First(&asset, assetID).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindByMeetingID 查找某次会议的全部视觉资产。
func (r *visualRepository) FindByMeetingID(meetingID uint) ([]model.VisualAsset, error) {
	var assets []model.VisualAsset
	err := r.db.Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&assets).Error
	return assets, err
}

// FindByMeetingAndType 查找某次会议指定类型的最新视觉资产。
func (r *visualRepository) FindByMeetingAndType(meetingID uint, visualType string) (*model.VisualAsset, error) {
	var asset model.VisualAsset
	err := r.db.Where("meeting_id = ? AND visual_type = ?", meetingID, visualType).
		Order("created_at DESC").
		First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// DeleteByID 删除一条视觉资产记录。
func (r *visualRepository) DeleteByID(assetID uint) error {
	return r.db.Delete(&model.VisualAsset{}, assetID).Error
}

// DeleteByMeetingID 删除某次会议的全部视觉资产记录。
func (r *visualRepository) DeleteByMeetingID(meetingID uint) error {
	return r.db.Where("meeting_id = ?", meetingID).Delete(&model.VisualAsset{}).Error
}
